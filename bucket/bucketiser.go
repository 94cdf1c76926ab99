// Package bucket precomputes, once per training call, per-feature sorted
// thresholds and per-row bin indices for the inter-feature matrix. Every
// later histogram scan in the split finder walks bins instead of raw
// values, turning an O(n log n) per-node sort into an O(n) accumulation.
package bucket

import (
	"sort"

	"github.com/tarstars/gbdte/dataset"
)

// Bucketiser holds the per-feature threshold arrays {Tⱼ} and the compact
// per-row bin matrix B computed from them. It is built once at train start
// and kept in the model for inference re-bucketing (§4.6).
type Bucketiser struct {
	thresholds [][]float64 // thresholds[j], sorted ascending, len ≤ maxBins-1
	bins       [][]uint8   // bins[i][j], one byte per cell
	maxBins    int
	n, p       int
}

// Build computes thresholds and bin indices for every column of x.
//
// Stage 1 (Validate): x must have at least one column.
// Stage 2 (Execute): per feature, collect sorted unique values; choose
// midpoint thresholds when the unique count fits maxBins, else evenly
// spaced empirical-quantile thresholds; assign each row a bin index.
// Stage 3 (Finalize): wrap into a Bucketiser.
//
// Complexity: O(p·n log n) for the per-feature sorts, O(p·n log(maxBins))
// for bin assignment.
func Build(x *dataset.Matrix, opts ...Option) (*Bucketiser, error) {
	cfg := newConfig(opts...)

	n, p := x.Rows(), x.Cols()
	if p == 0 {
		return nil, ErrNoFeatures
	}

	b := &Bucketiser{
		thresholds: make([][]float64, p),
		bins:       make([][]uint8, n),
		maxBins:    cfg.maxBins,
		n:          n,
		p:          p,
	}
	for i := range b.bins {
		b.bins[i] = make([]uint8, p)
	}

	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = x.At(i, j)
		}
		uniques := sortedUnique(col)
		thresholds := thresholdsFor(uniques, cfg.maxBins)
		b.thresholds[j] = thresholds

		for i := 0; i < n; i++ {
			b.bins[i][j] = binOf(thresholds, col[i])
		}
	}

	return b, nil
}

// sortedUnique returns the sorted, deduplicated values of col.
func sortedUnique(col []float64) []float64 {
	cp := make([]float64, len(col))
	copy(cp, col)
	sort.Float64s(cp)

	out := cp[:0]
	for i, v := range cp {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// thresholdsFor builds the threshold array for one feature's sorted unique
// values, per §4.1: midpoints between adjacent uniques when they fit in
// maxBins, otherwise evenly spaced empirical quantiles producing exactly
// maxBins buckets.
func thresholdsFor(uniques []float64, maxBins int) []float64 {
	u := len(uniques)
	if u <= 1 {
		return nil // a constant feature contributes no candidate split
	}
	if u <= maxBins {
		th := make([]float64, u-1)
		for k := 0; k < u-1; k++ {
			th[k] = (uniques[k] + uniques[k+1]) / 2
		}
		return th
	}

	th := make([]float64, maxBins-1)
	for k := 1; k < maxBins; k++ {
		p := float64(k) / float64(maxBins)
		th[k-1] = quantile(uniques, p)
	}
	return th
}

// quantile returns the linearly interpolated p-quantile (0≤p≤1) of the
// sorted slice vals.
func quantile(vals []float64, p float64) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	pos := p * float64(len(vals)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(vals) {
		return vals[len(vals)-1]
	}
	frac := pos - float64(lo)
	return vals[lo]*(1-frac) + vals[hi]*frac
}

// binOf finds the bin index of x among sorted, non-decreasing thresholds:
// the smallest index k such that x ≤ thresholds[k], or len(thresholds) if
// x exceeds every threshold. This is the same rule used both at train time
// (building the bin matrix) and at inference time (BinOf, re-bucketing an
// arbitrary real value), keeping routing decisions identical per the bucket
// invariant of §3.
func binOf(thresholds []float64, x float64) uint8 {
	idx := sort.Search(len(thresholds), func(k int) bool { return x <= thresholds[k] })
	if idx > 255 {
		idx = 255
	}
	return uint8(idx)
}

// FromThresholds reconstructs a Bucketiser from previously computed
// threshold arrays alone, with no bin matrix — used when loading a
// persisted model, where re-bucketing (BinOf) is all inference needs and
// the original training rows are gone. BinAt on a Bucketiser built this way
// is not meaningful and is not called by any inference path.
func FromThresholds(thresholds [][]float64) *Bucketiser {
	return &Bucketiser{thresholds: thresholds, p: len(thresholds)}
}

// NumFeatures returns p.
func (b *Bucketiser) NumFeatures() int { return b.p }

// NumBins returns the number of bins for feature j (|Tⱼ|+1).
func (b *Bucketiser) NumBins(j int) int { return len(b.thresholds[j]) + 1 }

// Thresholds returns the threshold array for feature j, borrowed — callers
// must not mutate it.
func (b *Bucketiser) Thresholds(j int) []float64 { return b.thresholds[j] }

// BinAt returns the precomputed training-time bin index of row i, feature j.
func (b *Bucketiser) BinAt(i, j int) uint8 { return b.bins[i][j] }

// BinOf re-buckets an arbitrary value of feature j, for inference over rows
// that were not part of the training matrix.
func (b *Bucketiser) BinOf(j int, x float64) uint8 {
	return binOf(b.thresholds[j], x)
}

// Threshold returns the real-valued split boundary for feature j, bin
// boundary index k (the τ used in an Internal node). k must be in
// [0, len(Thresholds(j))).
func (b *Bucketiser) Threshold(j, k int) float64 { return b.thresholds[j][k] }
