package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

func TestPerClassAccuracy(t *testing.T) {
	tests := []struct {
		name        string
		yTrue       []int
		yPred       []int
		numClasses  int
		wantCorrect []int
		wantTotal   []int
		wantAcc     float64
	}{
		{
			name:        "perfect",
			yTrue:       []int{0, 0, 1, 2},
			yPred:       []int{0, 0, 1, 2},
			numClasses:  3,
			wantCorrect: []int{2, 1, 1},
			wantTotal:   []int{2, 1, 1},
			wantAcc:     1.0,
		},
		{
			name:        "mixed",
			yTrue:       []int{0, 0, 1, 1, 2},
			yPred:       []int{0, 1, 1, 0, 0},
			numClasses:  3,
			wantCorrect: []int{1, 1, 0},
			wantTotal:   []int{2, 2, 1},
			wantAcc:     0.4,
		},
		{
			name:        "class without points",
			yTrue:       []int{0, 0, 2},
			yPred:       []int{0, 2, 2},
			numClasses:  3,
			wantCorrect: []int{1, 0, 1},
			wantTotal:   []int{2, 0, 1},
			wantAcc:     2.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := PerClassAccuracy(tt.yTrue, tt.yPred, tt.numClasses)
			if err != nil {
				t.Fatalf("PerClassAccuracy() error = %v", err)
			}

			sum := 0
			for c, class := range report.Classes {
				if class.Correct != tt.wantCorrect[c] || class.Total != tt.wantTotal[c] {
					t.Errorf("class %d = %d of %d, want %d of %d",
						c, class.Correct, class.Total, tt.wantCorrect[c], tt.wantTotal[c])
				}
				if class.Accuracy < 0 || class.Accuracy > 1 {
					t.Errorf("class %d accuracy %v outside [0, 1]", c, class.Accuracy)
				}
				sum += class.Correct
			}

			if sum != report.Correct {
				t.Errorf("sum of per-class correct = %d, overall = %d", sum, report.Correct)
			}
			if report.Total != len(tt.yTrue) {
				t.Errorf("Total = %d, want %d", report.Total, len(tt.yTrue))
			}
			if math.Abs(report.Accuracy-tt.wantAcc) > 1e-12 {
				t.Errorf("Accuracy = %v, want %v", report.Accuracy, tt.wantAcc)
			}
		})
	}
}

func TestPerClassAccuracyWarnsOnEmptyClass(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	defer errors.SetZerologWarnFunc(nil)

	if _, err := PerClassAccuracy([]int{0, 0}, []int{0, 0}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	var undefined *errors.UndefinedMetricWarning
	if !errors.As(warnings[0], &undefined) {
		t.Errorf("expected UndefinedMetricWarning, got %T", warnings[0])
	}
}

func TestPerClassAccuracyErrors(t *testing.T) {
	tests := []struct {
		name       string
		yTrue      []int
		yPred      []int
		numClasses int
	}{
		{"empty", nil, nil, 2},
		{"length mismatch", []int{0, 1}, []int{0}, 2},
		{"label out of range", []int{0, 3}, []int{0, 1}, 2},
		{"no classes", []int{0}, []int{0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PerClassAccuracy(tt.yTrue, tt.yPred, tt.numClasses); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
