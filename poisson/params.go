package poisson

import "fmt"

// Params holds the validated training configuration of the Poisson variant,
// grounded on original_source/python/extra_boost_py/poisson_booster.py's
// parameter names (reg_lambda, max_depth, learning_rate, unbalanced_penalty,
// check_zero).
type Params struct {
	NStages      int
	RegLambda    float64
	MaxDepth     int
	LearningRate float64
	ThreadsNum   int

	// UnbalancedPenalty rescales each row's gradient and Hessian by how far
	// its bjid group's mean freq deviates from the overall mean: a row's
	// weight is 1 + penalty·|groupMean − mean|/mean, so rows of deviating
	// groups count more (original_source's unbalanced_penalty).
	UnbalancedPenalty float64

	// CheckZero skips split candidates that would leave either child with a
	// zero total freq (spec.md §9's resolution of check_zero's ambiguity).
	CheckZero bool

	MinRows int // min rows per leaf; defaults to 1 when ≤ 0
}

// Validate enumerates the BadParameter conditions, mirroring gbdt.Params.Validate.
func (p Params) Validate() error {
	if p.NStages <= 0 {
		return poissonErrorf("Params.Validate", fmt.Errorf("n_stages must be > 0: %w", ErrBadParameter))
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return poissonErrorf("Params.Validate", fmt.Errorf("learning_rate must be in (0,1]: %w", ErrBadParameter))
	}
	if p.MaxDepth < 1 || p.MaxDepth > 32 {
		return poissonErrorf("Params.Validate", fmt.Errorf("max_depth must be in [1,32]: %w", ErrBadParameter))
	}
	if p.RegLambda < 0 {
		return poissonErrorf("Params.Validate", fmt.Errorf("reg_lambda must be >= 0: %w", ErrBadParameter))
	}
	if p.UnbalancedPenalty < 0 {
		return poissonErrorf("Params.Validate", fmt.Errorf("unbalanced_penalty must be >= 0: %w", ErrBadParameter))
	}
	if p.ThreadsNum < 0 {
		return poissonErrorf("Params.Validate", fmt.Errorf("threads_num must be >= 0: %w", ErrBadParameter))
	}
	return nil
}

// normalized returns a copy with zero-value optional fields defaulted.
func (p Params) normalized() Params {
	if p.ThreadsNum <= 0 {
		p.ThreadsNum = 1
	}
	if p.MinRows <= 0 {
		p.MinRows = 1
	}
	return p
}
