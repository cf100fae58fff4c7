// Package linearsvm provides a multi-class linear Support Vector Machine for Go,
// trained with either L-BFGS or a lock-free parallel SGD, together with the
// linear_svm command line program.
//
// The library follows a scikit-learn-like shape: models are configured with
// functional options, data is held in gonum matrices with one sample per row,
// and errors carry cockroachdb/errors stack traces.
//
// # Features
//
// - Multi-class margin hinge loss with L2 regularization and optional intercept
// - L-BFGS training on gonum/optimize
// - Parallel (hogwild) SGD across all CPU cores with a constant step size
// - JSON model files with checksums, or gob for compact binary snapshots
// - Structured logging with zerolog
//
// # Installation
//
//	go install github.com/YuminosukeSato/linearsvm/cmd/linear_svm@latest
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/linearsvm/optimizer"
//	    "github.com/YuminosukeSato/linearsvm/svm"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 0, 1, 5, 5, 5, 6})
//	    labels := []int{0, 0, 1, 1}
//
//	    model := svm.NewLinearSVM(svm.WithLambda(1e-4))
//	    if _, err := model.Train(context.Background(), X, labels, 2, &optimizer.LBFGS{}); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    predictions, err := model.Classify(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", predictions)
//	}
//
// # Packages
//
//   - svm: the LinearSVM model, its objective and persistence
//   - optimizer: L-BFGS and ParallelSGD
//   - data: matrix and label file readers and writers
//   - metrics: accuracy and per-class accuracy
//   - cli: option validation and the training/testing pipeline
//   - plotting: objective history charts
//   - core/model: fitted state and model file helpers
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error handling and logging
//
// # License
//
// linearsvm is released under the MIT License.
package linearsvm
