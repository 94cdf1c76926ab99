package bucket

// Option configures a Bucketiser before it is built.
type Option func(*config)

type config struct {
	maxBins int
}

func newConfig(opts ...Option) config {
	cfg := config{maxBins: defaultMaxBins}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBins < 1 {
		cfg.maxBins = defaultMaxBins
	}
	if cfg.maxBins > 255 {
		cfg.maxBins = 255 // bin indices are stored one byte per cell
	}
	return cfg
}

// defaultMaxBins is the ceiling on distinct bins per feature when the column
// holds more unique values than that; one byte per bin index caps this at 255.
const defaultMaxBins = 255

// WithMaxBins overrides the maximum number of bins per feature. Values above
// 255 are clamped to 255; values below 1 fall back to the default of 255.
func WithMaxBins(n int) Option {
	return func(c *config) { c.maxBins = n }
}
