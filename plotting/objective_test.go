package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

func TestObjectivePlot(t *testing.T) {
	p, err := ObjectivePlot("L-BFGS", []float64{3, 1.5, 0.7, 0.65})
	if err != nil {
		t.Fatalf("ObjectivePlot() error = %v", err)
	}
	if p.Title.Text != "L-BFGS" {
		t.Errorf("title = %q", p.Title.Text)
	}
	if p.X.Min > 1 || p.X.Max < 4 {
		t.Errorf("x range [%v, %v] does not cover the iterations", p.X.Min, p.X.Max)
	}

	if _, err := ObjectivePlot("empty", nil); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
}

func TestSaveObjectivePlot(t *testing.T) {
	dir := t.TempDir()
	values := []float64{2, 1, 0.5, 0.25}

	for _, name := range []string{"objective.png", "objective.svg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveObjectivePlot(path, "ParallelSGD", values); err != nil {
				t.Fatalf("SaveObjectivePlot() error = %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Error("plot file is empty")
			}
		})
	}

	if err := SaveObjectivePlot(filepath.Join(dir, "objective"), "x", values); err == nil {
		t.Error("expected error for a path without extension")
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := map[string]bool{
		"a.png": true,
		"a.SVG": true,
		"a.pdf": true,
		"a.txt": false,
		"a":     false,
	}
	for path, want := range tests {
		if got := SupportedExtension(path); got != want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", path, got, want)
		}
	}
}
