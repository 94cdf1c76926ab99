package gbdt

import (
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/linalg"
)

// solveLeaf fits β ∈ ℝ^q minimizing Σ_{i∈rows}(r_i − z_iᵀβ)² + λ‖β‖², i.e.
// solves the normal equations (ZᵀZ + λI)β = Zᵀr restricted to rows.
//
// Returns (β, gain) where gain = (Zᵀr)ᵀβ − (λ/2)‖β‖² is the decrement in
// regularised SSE attributable to this leaf (§4.2).
//
// Failure mode: if the Gram matrix is singular even after the internally
// enforced λ ≥ 1e-12 floor, returns (zero vector, 0, false) — this is the
// NumericalDegeneracy local recovery of §7; it never surfaces as an error,
// but callers may fold the false into a Trace.
func solveLeaf(rows []int, z *dataset.Matrix, r []float64, lambda float64) (LeafCoeff, float64, bool) {
	q := z.Cols()
	gram, _ := linalg.NewDense(q, q)
	g := make([]float64, q)

	for _, i := range rows {
		zi := z.Row(i)
		ri := r[i]
		for a := 0; a < q; a++ {
			g[a] += zi[a] * ri
			for b := a; b < q; b++ {
				gram.AddAt(a, b, zi[a]*zi[b])
			}
		}
	}

	beta, ok := linalg.SolveSPD(gram, g, lambda)
	if !ok {
		return make(LeafCoeff, q), 0, false
	}

	gain := linalg.QuadForm(g, beta) - 0.5*lambda*linalg.NormSq(beta)
	if gain < 0 {
		gain = 0 // a degenerate fit should never report negative gain
	}
	return LeafCoeff(beta), gain, true
}
