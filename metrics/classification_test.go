package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

func TestAccuracyAndClassificationError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []int
		yPred   []int
		wantAcc float64
	}{
		{"all correct", []int{0, 1, 2, 2}, []int{0, 1, 2, 2}, 1},
		{"one of four wrong", []int{0, 1, 2, 2}, []int{0, 1, 2, 0}, 0.75},
		{"single class, all wrong", []int{1, 1}, []int{0, 2}, 0},
		{"predictions beyond the labelled classes", []int{0, 0, 1}, []int{0, 3, 1}, 2.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := Accuracy(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("Accuracy() error = %v", err)
			}
			if math.Abs(acc-tt.wantAcc) > 1e-12 {
				t.Errorf("Accuracy() = %v, want %v", acc, tt.wantAcc)
			}

			rate, err := ClassificationError(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("ClassificationError() error = %v", err)
			}
			if math.Abs(acc+rate-1) > 1e-12 {
				t.Errorf("Accuracy + ClassificationError = %v, want 1", acc+rate)
			}
		})
	}
}

// 全体の正解率はクラス別の集計と一致する
func TestAccuracyMatchesPerClassReport(t *testing.T) {
	errors.SetZerologWarnFunc(func(error) {})
	defer errors.SetZerologWarnFunc(nil)

	yTrue := []int{0, 0, 0, 1, 1, 2, 2, 2, 2}
	yPred := []int{0, 1, 0, 1, 2, 2, 2, 0, 2}

	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	report, err := PerClassAccuracy(yTrue, yPred, 3)
	if err != nil {
		t.Fatalf("PerClassAccuracy() error = %v", err)
	}
	if acc != report.Accuracy {
		t.Errorf("Accuracy() = %v, report.Accuracy = %v", acc, report.Accuracy)
	}
}

func TestAccuracyErrors(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []int
		yPred []int
		check func(error) bool
	}{
		{
			name:  "empty labels",
			yTrue: nil,
			yPred: nil,
			check: func(err error) bool {
				var valueErr *errors.ValueError
				return errors.As(err, &valueErr)
			},
		},
		{
			name:  "length mismatch",
			yTrue: []int{0, 1},
			yPred: []int{0},
			check: func(err error) bool {
				var dimErr *errors.DimensionError
				return errors.As(err, &dimErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Accuracy(tt.yTrue, tt.yPred); err == nil || !tt.check(err) {
				t.Errorf("Accuracy() error = %v", err)
			}
			if _, err := ClassificationError(tt.yTrue, tt.yPred); err == nil || !tt.check(err) {
				t.Errorf("ClassificationError() error = %v", err)
			}
		})
	}
}
