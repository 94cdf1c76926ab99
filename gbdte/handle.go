// Package gbdte is the root facade: Train, Predict, Save, Load,
// DumpLearningCurves, and Free, operating on an opaque Handle that owns its
// trained Ensemble directly.
//
// This replaces the foreign-function bridge's global handle table and
// thread-local "last error" string (§9's redesign note) with an ordinary Go
// value: a Handle is created by Train or Load, used synchronously, and
// released by Free — no process-global registry, errors are plain `error`
// return values carrying the kinds of §7.
package gbdte

import (
	"sync"

	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/gbdt"
	"github.com/tarstars/gbdte/persist"
)

// Handle owns a trained Ensemble and its monitor-metric history. It is safe
// for concurrent read access (Predict/Save/DumpLearningCurves) but Free
// must not race with any of them.
type Handle struct {
	mu       sync.RWMutex
	ens      *gbdt.Ensemble
	monitors []gbdt.MonitorRecord
	closed   bool
}

// Train builds an Ensemble from the given inter/extra feature matrices and
// target vector, per §6.
func Train(inter, extra [][]float64, target []float64, params gbdt.Params, opts ...gbdt.Option) (*Handle, error) {
	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	if err != nil {
		return nil, err
	}
	ens, monitors, err := gbdt.Train(tm, params, opts...)
	if err != nil {
		return nil, err
	}
	return &Handle{ens: ens, monitors: monitors}, nil
}

// Predict returns one prediction per row of inter/extra, using trees
// [0,treeLimit); treeLimit=0 means "all trees". For mse the raw additive
// output is returned; for logloss the raw logit is returned — the caller
// applies σ for a probability.
func (h *Handle) Predict(inter, extra [][]float64, treeLimit int) ([]float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, gbdt.ErrHandleClosed
	}

	x, err := dataset.NewMatrix(inter)
	if err != nil {
		return nil, err
	}
	z, err := dataset.NewMatrix(extra)
	if err != nil {
		return nil, err
	}
	return h.ens.Predict(x, z, treeLimit)
}

// Save writes the handle's model to path in the binary format of §4.6.
func (h *Handle) Save(path string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return gbdt.ErrHandleClosed
	}
	return persist.Save(path, h.ens)
}

// Load reads a model previously written by Save and wraps it in a fresh Handle.
func Load(path string) (*Handle, error) {
	ens, err := persist.Load(path)
	if err != nil {
		return nil, err
	}
	return &Handle{ens: ens}, nil
}

// DumpLearningCurves writes the per-stage monitor metrics recorded during
// Train as the JSON document of §4.6. A Handle produced by Load (rather
// than Train) has no recorded monitor history and dumps an empty list.
func (h *Handle) DumpLearningCurves(path string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return gbdt.ErrHandleClosed
	}
	return persist.DumpLearningCurves(path, h.monitors)
}

// Free releases the handle's ensemble. It is idempotent: calling Free more
// than once, or calling any other method afterward, is safe and returns
// ErrHandleClosed rather than panicking.
func (h *Handle) Free() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ens = nil
	h.monitors = nil
	h.closed = true
}
