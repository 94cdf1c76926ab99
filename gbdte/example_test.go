// Package gbdte_test holds runnable godoc examples demonstrating the
// library's train/predict surface. Each example is runnable via
// "go test -run Example", checking printed output against the comment.
package gbdte_test

import (
	"fmt"

	"github.com/tarstars/gbdte"
	"github.com/tarstars/gbdte/gbdt"
)

// ExampleTrain_stump trains a single-stump booster on strictly increasing
// data and predicts on the training rows, matching scenario S1.
func ExampleTrain_stump() {
	inter := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}}
	extra := [][]float64{{1}, {1}, {1}, {1}, {1}, {1}, {1}, {1}}
	target := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	params := gbdt.Params{
		NStages:      1,
		MaxDepth:     1,
		LearningRate: 1,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   1,
	}

	h, err := gbdte.Train(inter, extra, target, params)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer h.Free()

	pred, err := h.Predict(inter, extra, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.1f %.1f\n", pred[0], pred[7])
	// Output: 1.5 5.5
}
