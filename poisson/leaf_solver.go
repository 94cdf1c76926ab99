package poisson

import (
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/linalg"
)

// solveLeaf fits β ∈ ℝ^q by one Newton step on the Poisson negative
// log-likelihood, restricted to rows: solves (ZᵀWZ + λI)β = Zᵀg, where g_i
// is row i's gradient (weight_i·(freq_i−μ_i)) and W = diag(weight_i·μ_i) is
// the Hessian diagonal — the Hessian-weighted Gram replacing gbdt's plain
// ZᵀZ (§4.7: "split gain formulation is analogous with Hessian diag
// replacing Z's Gram").
//
// Failure mode matches gbdt.solveLeaf: a degenerate Gram returns (zero, 0)
// rather than surfacing an error.
func solveLeaf(rows []int, z *dataset.Matrix, grad, hess []float64, lambda float64) (LeafCoeff, float64) {
	q := z.Cols()
	gram, _ := linalg.NewDense(q, q)
	g := make([]float64, q)

	for _, i := range rows {
		zi := z.Row(i)
		gi := grad[i]
		hi := hess[i]
		for a := 0; a < q; a++ {
			g[a] += zi[a] * gi
			for b := a; b < q; b++ {
				gram.AddAt(a, b, zi[a]*zi[b]*hi)
			}
		}
	}

	beta, ok := linalg.SolveSPD(gram, g, lambda)
	if !ok {
		return make(LeafCoeff, q), 0
	}

	gain := linalg.QuadForm(g, beta) - 0.5*lambda*linalg.NormSq(beta)
	if gain < 0 {
		gain = 0
	}
	return LeafCoeff(beta), gain
}
