package gbdt

import (
	"fmt"

	"github.com/tarstars/gbdte/dataset"
)

// LossKind selects the residual/base-prediction formula the booster uses.
type LossKind uint8

const (
	// LossMSE treats y as a real target: r = y - ŷ, μ₀ = mean(y).
	LossMSE LossKind = iota
	// LossLogLoss treats y as a binary label: r = y - σ(ŷ), μ₀ = logit(mean(y)).
	LossLogLoss
)

func (k LossKind) String() string {
	switch k {
	case LossMSE:
		return "mse"
	case LossLogLoss:
		return "logloss"
	default:
		return fmt.Sprintf("unknown loss (%d)", uint8(k))
	}
}

// Params holds the validated training configuration of §6. Zero-value
// Params is never valid; construct with the field values and call
// Validate, or rely on Train to validate internally.
type Params struct {
	NStages        int
	RegLambda      float64
	MaxDepth       int
	LearningRate   float64
	Loss           LossKind
	ThreadsNum     int
	UnbalancedLoss float64
	MinRows        int // min rows per leaf; defaults to 1 when ≤ 0
}

// Validate enumerates the BadParameter conditions of §7. Fail fast, before
// any training work begins.
func (p Params) Validate() error {
	if p.NStages <= 0 {
		return gbdtErrorf("Params.Validate", fmt.Errorf("n_stages must be > 0: %w", ErrBadParameter))
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return gbdtErrorf("Params.Validate", fmt.Errorf("learning_rate must be in (0,1]: %w", ErrBadParameter))
	}
	if p.MaxDepth < 1 || p.MaxDepth > 32 {
		return gbdtErrorf("Params.Validate", fmt.Errorf("max_depth must be in [1,32]: %w", ErrBadParameter))
	}
	if p.RegLambda < 0 {
		return gbdtErrorf("Params.Validate", fmt.Errorf("reg_lambda must be >= 0: %w", ErrBadParameter))
	}
	if p.UnbalancedLoss < 0 {
		return gbdtErrorf("Params.Validate", fmt.Errorf("unbalanced_loss must be >= 0: %w", ErrBadParameter))
	}
	if p.Loss != LossMSE && p.Loss != LossLogLoss {
		return gbdtErrorf("Params.Validate", fmt.Errorf("unknown loss kind %v: %w", p.Loss, ErrBadParameter))
	}
	if p.ThreadsNum < 0 {
		return gbdtErrorf("Params.Validate", fmt.Errorf("threads_num must be >= 0: %w", ErrBadParameter))
	}
	return nil
}

// normalized returns a copy with zero-value optional fields defaulted:
// ThreadsNum ≤ 0 becomes 1, MinRows ≤ 0 becomes 1.
func (p Params) normalized() Params {
	if p.ThreadsNum <= 0 {
		p.ThreadsNum = 1
	}
	if p.MinRows <= 0 {
		p.MinRows = 1
	}
	return p
}

// MonitorDataset is an extra (X,Z,y,name) tuple against which per-stage
// metrics are recorded for learning-curve output (§4.5 step 4).
type MonitorDataset struct {
	Name   string
	Matrix *dataset.TrainingMatrix
}

// trainConfig collects the options applied on top of Params.
type trainConfig struct {
	monitors []MonitorDataset
	trace    *Trace
}

// Option configures optional, non-required aspects of a Train call:
// monitor datasets for learning-curve recording, and an optional trace sink.
// Thread count lives on Params directly (it is part of the documented
// external contract of §6), options cover what the contract leaves optional.
type Option func(*trainConfig)

// WithMonitor registers an additional dataset whose metric is recorded at
// every stage of training, keyed by name in each MonitorRecord.
func WithMonitor(name string, m *dataset.TrainingMatrix) Option {
	return func(c *trainConfig) {
		c.monitors = append(c.monitors, MonitorDataset{Name: name, Matrix: m})
	}
}

// WithTrace has Train accumulate NumericalDegeneracy/NoViableSplit event
// counts into t as training proceeds (§3's optional internal-diagnostics
// note). Nil by default — passing no WithTrace option costs nothing extra.
func WithTrace(t *Trace) Option {
	return func(c *trainConfig) {
		c.trace = t
	}
}

func newTrainConfig(opts ...Option) trainConfig {
	var cfg trainConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
