package poisson

import (
	"sync"

	"github.com/tarstars/gbdte/dataset"
)

// Handle owns a trained Poisson Ensemble, mirroring gbdte.Handle's
// ownership model (§9's redesign note: no global handle table, ordinary Go
// values instead). Safe for concurrent Predict calls; Free must not race
// with them.
type Handle struct {
	mu  sync.RWMutex
	ens *Ensemble

	closed bool
}

// Train builds a Poisson Ensemble from grouped (bjid, freq) targets over
// the given inter/extra feature matrices, per §6/§4.7.
func Train(bjid []int32, freq []float64, inter, extra [][]float64, psi []float64, params Params) (*Handle, error) {
	x, err := dataset.NewMatrix(inter)
	if err != nil {
		return nil, err
	}
	z, err := dataset.NewMatrix(extra)
	if err != nil {
		return nil, err
	}
	ens, err := trainEnsemble(x, z, bjid, freq, psi, params)
	if err != nil {
		return nil, err
	}
	return &Handle{ens: ens}, nil
}

// Predict returns one expected-count prediction per row of inter/extra,
// using every tree, per §6.
func (h *Handle) Predict(inter, extra [][]float64) ([]float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrHandleClosed
	}

	x, err := dataset.NewMatrix(inter)
	if err != nil {
		return nil, err
	}
	z, err := dataset.NewMatrix(extra)
	if err != nil {
		return nil, err
	}
	return h.ens.Predict(x, z, 0)
}

// Export returns the handle's underlying Ensemble for callers that need to
// persist it (persist.SavePoisson/LoadPoisson operate on *Ensemble
// directly, since persist already depends on poisson and a Handle method
// importing persist back would cycle).
func (h *Handle) Export() (*Ensemble, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrHandleClosed
	}
	return h.ens, nil
}

// FromEnsemble wraps an already-built Ensemble (e.g. one just loaded by
// persist.LoadPoisson) in a fresh Handle.
func FromEnsemble(ens *Ensemble) *Handle {
	return &Handle{ens: ens}
}

// Free releases the handle's ensemble. Idempotent, safe to call repeatedly.
func (h *Handle) Free() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ens = nil
	h.closed = true
}
