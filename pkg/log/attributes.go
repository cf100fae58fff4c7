// Standard attribute keys for training and evaluation records. Using the
// same keys everywhere keeps the console and JSON output greppable.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "LinearSVM".
	ModelNameKey = "model.name"

	// EstimatorIDKey is the unique identifier of a model instance (a UUID
	// assigned when the model is created and persisted with it).
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "classify", "score", "load", "save"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging, e.g. "optimizer".
	ComponentKey = "ml.component"

	// OptimizerKey names the optimizer in use ("lbfgs" or "psgd").
	OptimizerKey = "ml.optimizer"

	// PathKey is the file a record refers to.
	PathKey = "io.path"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (points) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (dimensions) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of classes of the model.
	ClassesKey = "data.classes"

	// LabelKey is a class label a record refers to.
	LabelKey = "data.label"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// CorrectKey records the number of correctly classified points.
	CorrectKey = "metrics.correct"

	// TotalKey records the number of evaluated points.
	TotalKey = "metrics.total"

	// ErrorRateKey records the misclassification rate (1 - accuracy).
	ErrorRateKey = "metrics.error_rate"

	// ObjectiveKey records the value of the training objective.
	ObjectiveKey = "metrics.objective"

	// IterationKey records the current iteration number during optimization.
	IterationKey = "training.iteration"

	// WorkersKey records the number of parallel SGD workers.
	WorkersKey = "training.workers"
)

// Hyperparameters and Configuration
const (
	// RegularizationKey records the L2 regularization strength (lambda).
	RegularizationKey = "hyperparams.lambda"

	// DeltaKey records the margin between the correct class and the others.
	DeltaKey = "hyperparams.delta"

	// LearningRateKey records the SGD step size.
	LearningRateKey = "hyperparams.step_size"

	// ToleranceKey records the convergence tolerance.
	ToleranceKey = "hyperparams.tolerance"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationTrain    = "train"
	OperationClassify = "classify"
	OperationScore    = "score"
	OperationLoad     = "load"
	OperationSave     = "save"
)
