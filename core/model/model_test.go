package model

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()

	err := s.RequireFitted("LinearSVM", "Classify")
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
	if nf.ModelName != "LinearSVM" || nf.Method != "Classify" {
		t.Errorf("NotFittedError = %+v", nf)
	}

	s.SetDimensions(4, 100, 3)
	s.SetFitted()
	if err := s.RequireFitted("LinearSVM", "Classify"); err != nil {
		t.Errorf("RequireFitted() after SetFitted = %v", err)
	}
	if f, n, c := s.GetDimensions(); f != 4 || n != 100 || c != 3 {
		t.Errorf("GetDimensions() = %d, %d, %d", f, n, c)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("IsFitted() after Reset should be false")
	}
	if f, n, c := s.GetDimensions(); f != 0 || n != 0 || c != 0 {
		t.Errorf("GetDimensions() after Reset = %d, %d, %d", f, n, c)
	}
}

func sampleWeights() *ModelWeights {
	return &ModelWeights{
		ModelType:  "LinearSVM",
		Version:    "1.0",
		Rows:       2,
		Cols:       2,
		Parameters: []float64{0.5, -0.25, 1e-3, 2},
		Hyperparameters: map[string]interface{}{
			"lambda": 0.0001,
		},
		IsFitted: true,
	}
}

func TestModelWeightsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ModelWeights)
	}{
		{"missing type", func(mw *ModelWeights) { mw.ModelType = "" }},
		{"missing version", func(mw *ModelWeights) { mw.Version = "" }},
		{"shape mismatch", func(mw *ModelWeights) { mw.Rows = 3 }},
		{"fitted without parameters", func(mw *ModelWeights) {
			mw.Rows, mw.Cols, mw.Parameters = 0, 0, nil
		}},
		{"checksum mismatch", func(mw *ModelWeights) {
			mw.Seal()
			mw.Parameters[0] = 7
		}},
	}

	if err := sampleWeights().Validate(); err != nil {
		t.Fatalf("Validate() on valid weights = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := sampleWeights()
			tt.modify(mw)
			if err := mw.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestModelWeightsJSONRoundTrip(t *testing.T) {
	mw := sampleWeights()
	mw.Seal()

	var buf bytes.Buffer
	if err := mw.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, err := ReadModelWeights(&buf)
	if err != nil {
		t.Fatalf("ReadModelWeights() error = %v", err)
	}
	if got.Checksum() != mw.Checksum() {
		t.Error("checksum changed after round trip")
	}
	if got.Hyperparameters["lambda"] != 0.0001 {
		t.Errorf("lambda = %v", got.Hyperparameters["lambda"])
	}
}

func TestReadModelWeightsChecksumMismatch(t *testing.T) {
	mw := sampleWeights()
	mw.Seal()
	mw.Parameters[1] = 100

	var buf bytes.Buffer
	if err := mw.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadModelWeights(&buf); !errors.Is(err, errors.ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestSaveLoadModelGob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.gob")
	mw := sampleWeights()
	mw.Seal()

	if err := SaveModel(mw, path); err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}

	var got ModelWeights
	if err := LoadModel(&got, path); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() after gob round trip = %v", err)
	}
	if got.Rows != 2 || got.Cols != 2 || got.Parameters[3] != 2 {
		t.Errorf("loaded weights = %+v", got)
	}

	if err := LoadModel(&got, filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected error for a missing file")
	}
}
