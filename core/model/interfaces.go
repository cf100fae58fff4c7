package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is the interface for fitted models that assign classes to points.
// X holds one sample per row.
type Classifier interface {
	// Classify returns the predicted class of every row of X.
	Classify(X mat.Matrix) ([]int, error)

	// Scores returns one row per sample and one column per class.
	Scores(X mat.Matrix) (*mat.Dense, error)

	// Dimensionality is the number of features the model was trained on.
	Dimensionality() int

	// NumClasses is the number of classes the model distinguishes.
	NumClasses() int
}

// WeightExporter is the interface for models that can be converted to and
// from a ModelWeights envelope.
type WeightExporter interface {
	Weights() (*ModelWeights, error)
	SetWeights(*ModelWeights) error
}

// Persistable is the interface for models that can be written to a file.
type Persistable interface {
	Save(path string) error
}
