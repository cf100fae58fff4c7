package errors

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Train",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "linearsvm: Train: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Classify",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "linearsvm: Classify: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Classify", 4, 3, 1)

	want := "linearsvm: Classify: dimension mismatch on axis 1 (features). Expected 4, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 4 || dimErr.Got != 3 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearSVM", "Classify")

	want := "linearsvm: LinearSVM: this model is not fitted yet. Call Train() before using Classify()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("tolerance", "tolerance must be positive or zero", -1.0)

	want := "linearsvm: invalid value of 'tolerance' specified (-1); tolerance must be positive or zero!"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "tolerance" {
		t.Errorf("ParamName = %q, want tolerance", valErr.ParamName)
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("ReadLabels", "labels must be non-negative integers")

	want := "linearsvm: ReadLabels: labels must be non-negative integers"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestWarningMessages(t *testing.T) {
	tests := []struct {
		name string
		warn error
		want string
	}{
		{
			name: "convergence with message",
			warn: NewConvergenceWarning("L-BFGS", 100, "line search failed"),
			want: "L-BFGS failed to converge after 100 iterations: line search failed",
		},
		{
			name: "undefined metric",
			warn: NewUndefinedMetricWarning("accuracy[2]", "no test points with label 2", 0),
			want: "'accuracy[2]' is ill-defined and being set to 0.000000 due to no test points with label 2.",
		},
		{
			name: "ignored param",
			warn: NewIgnoredParamWarning("step_size", "optimizer type is not 'psgd'"),
			want: "'--step_size' ignored because optimizer type is not 'psgd'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.warn.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.warn.Error(), tt.want)
			}
		})
	}
}

func TestWarnRouting(t *testing.T) {
	var (
		mu       sync.Mutex
		handled  []error
		zerologd []error
	)
	prev := warningHandler
	SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, w)
	})
	defer SetWarningHandler(prev)

	Warn(NewConvergenceWarning("ParallelSGD", 10, ""))
	if len(handled) != 1 {
		t.Fatalf("expected handler to receive 1 warning, got %d", len(handled))
	}

	SetZerologWarnFunc(func(w error) {
		zerologd = append(zerologd, w)
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewIgnoredParamWarning("shuffle", "optimizer type is not 'psgd'"))
	if len(zerologd) != 1 {
		t.Errorf("expected zerolog func to receive 1 warning, got %d", len(zerologd))
	}
	if len(handled) != 1 {
		t.Errorf("handler should not be called when zerolog func is set, got %d calls", len(handled))
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "reading %s", "train.csv")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	if !strings.Contains(wrapped.Error(), "reading train.csv") {
		t.Errorf("Expected wrapped error to contain %q, got %q", "reading train.csv", wrapped.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("objective", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("objective", []float64{1, math.NaN()}, 7)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if numErr.Iteration != 7 {
		t.Errorf("Iteration = %d, want 7", numErr.Iteration)
	}

	if err := CheckScalar("objective", math.Inf(1), 3); err == nil {
		t.Error("expected error for +Inf")
	}
}
