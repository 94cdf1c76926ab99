package gbdt

import (
	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/internal/stats"
	"github.com/tarstars/gbdte/workerpool"
)

// MonitorRecord is one stage's metric snapshot across every configured
// monitor dataset (§3's MonitorRecord entity).
type MonitorRecord struct {
	Stage   int
	Metrics map[string]float64
}

// Ensemble is the trained, read-only model: an ordered list of Trees, the
// learning rate, loss kind, base prediction μ₀, feature dimensions, and the
// bucketiser thresholds kept for inference re-bucketing (§3's Ensemble
// entity; §4.6 persists every field here).
type Ensemble struct {
	Trees          []*Tree
	LearningRate   float64
	Loss           LossKind
	BasePrediction float64
	InterDim       int
	ExtraDim       int
	Buckets        *bucket.Bucketiser
	ThreadsNum     int
}

// Train grows an Ensemble from tm by running params.NStages boosting
// stages, per the driver loop of §4.5.
func Train(tm *dataset.TrainingMatrix, params Params, opts ...Option) (*Ensemble, []MonitorRecord, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	params = params.normalized()
	cfg := newTrainConfig(opts...)

	n := tm.N()
	if n < params.MaxDepth*params.MinRows {
		return nil, nil, gbdtErrorf("Train", ErrShapeMismatch)
	}

	buckets, err := bucket.Build(tm.X)
	if err != nil {
		return nil, nil, gbdtErrorf("Train", err)
	}

	base := basePrediction(params.Loss, tm.Y)
	yhat := make([]float64, n)
	for i := range yhat {
		yhat[i] = base
	}

	pool := workerpool.New(params.ThreadsNum)
	defer pool.Close()

	ens := &Ensemble{
		LearningRate:   params.LearningRate,
		Loss:           params.Loss,
		BasePrediction: base,
		InterDim:       tm.P(),
		ExtraDim:       tm.Q(),
		Buckets:        buckets,
		ThreadsNum:     params.ThreadsNum,
	}

	var monitors []MonitorRecord
	r := make([]float64, n)

	for stage := 0; stage < params.NStages; stage++ {
		computeResiduals(params.Loss, tm.Y, yhat, r)

		tree := growTree(tm.X, tm.Z, r, buckets, params, pool, cfg.trace)
		ens.Trees = append(ens.Trees, tree)

		updateYhat(yhat, tree, tm.X, tm.Z, params.LearningRate, pool)

		if len(cfg.monitors) > 0 {
			rec := MonitorRecord{Stage: stage, Metrics: make(map[string]float64, len(cfg.monitors))}
			for _, md := range cfg.monitors {
				pred, predErr := ens.Predict(md.Matrix.X, md.Matrix.Z, 0)
				if predErr != nil {
					return nil, nil, gbdtErrorf("Train", predErr)
				}
				rec.Metrics[md.Name] = metricFor(params.Loss, md.Matrix.Y, pred)
			}
			monitors = append(monitors, rec)
		}
	}

	return ens, monitors, nil
}

// basePrediction computes μ₀ per §4.5: mean(y) for mse, clamped logit(mean(y))
// for logloss.
func basePrediction(loss LossKind, y []float64) float64 {
	mean := stats.Mean(y)
	if loss == LossLogLoss {
		return stats.Logit(mean)
	}
	return mean
}

// computeResiduals fills out with the stage's residual vector, per §4.5 step 1.
func computeResiduals(loss LossKind, y, yhat, out []float64) {
	switch loss {
	case LossLogLoss:
		for i := range y {
			out[i] = y[i] - stats.Sigmoid(yhat[i])
		}
	default: // LossMSE
		for i := range y {
			out[i] = y[i] - yhat[i]
		}
	}
}

// metricFor scores a monitor dataset's predictions per the active loss:
// RMSE for mse, log-loss (against probabilities σ(pred)) for logloss.
func metricFor(loss LossKind, y, pred []float64) float64 {
	if loss == LossLogLoss {
		probs := make([]float64, len(pred))
		for i, v := range pred {
			probs[i] = stats.Sigmoid(v)
		}
		return stats.LogLoss(y, probs)
	}
	return stats.RMSE(y, pred)
}

// updateYhat adds η·z_iᵀβ_{leaf(tree,i)} to every row of yhat, per §4.5
// step 3, sharding rows across pool's workers (§5's second parallel site).
func updateYhat(yhat []float64, tree *Tree, x, z *dataset.Matrix, eta float64, pool *workerpool.Pool) {
	pool.RunRange(len(yhat), func(_ int, lo, hi int) {
		for i := lo; i < hi; i++ {
			yhat[i] += eta * tree.Contribution(x.Row(i), z.Row(i))
		}
	})
}
