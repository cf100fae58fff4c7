// Package cli は linear_svm コマンドのオプション、検証ルール、
// 学習・テストのパイプラインを提供します。
package cli

import (
	"github.com/YuminosukeSato/linearsvm/optimizer"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
)

// 最適化アルゴリズムの名前
const (
	OptimizerLBFGS = "lbfgs"
	OptimizerPSGD  = "psgd"
)

// version は --version で表示されるバージョン
const version = "linear_svm 1.0.0"

// Options は linear_svm のコマンドラインオプションです（go-arg のタグで定義）。
type Options struct {
	Training        string   `arg:"-t,--training" help:"A matrix containing the training set (the matrix of predictors, X)." placeholder:"FILE"`
	Labels          string   `arg:"-l,--labels" help:"A matrix containing labels for the points in the training set (y)." placeholder:"FILE"`
	Lambda          float64  `arg:"-L,--lambda" default:"0.0001" help:"L2-regularization parameter for training."`
	Delta           float64  `arg:"-d,--delta" default:"1.0" help:"Margin of difference between correct class and other classes."`
	NumberOfClasses int      `arg:"-c,--number_of_classes" default:"0" help:"Number of classes for classification; if unspecified (or 0), the number of classes found in the labels will be used."`
	NoIntercept     bool     `arg:"-N,--no_intercept" help:"Do not add the intercept term to the model."`
	Optimizer       string   `arg:"-O,--optimizer" default:"lbfgs" help:"Optimizer to use for training ('lbfgs' or 'psgd')."`
	Tolerance       float64  `arg:"-e,--tolerance" default:"1e-10" help:"Convergence tolerance for optimizer."`
	MaxIterations   int      `arg:"-n,--max_iterations" default:"10000" help:"Maximum iterations for optimizer (0 indicates no limit)."`
	StepSize        *float64 `arg:"-s,--step_size" help:"Step size for parallel SGD optimizer. [default: 0.01]"`
	Shuffle         bool     `arg:"-S,--shuffle" help:"Don't shuffle the order in which data points are visited for parallel SGD."`
	InputModel      string   `arg:"-m,--input_model" help:"Existing model (parameters)." placeholder:"FILE"`
	OutputModel     string   `arg:"-M,--output_model" help:"Output for trained linear svm model. Files ending in .gob are written in gob format, anything else as JSON." placeholder:"FILE"`
	Test            string   `arg:"-T,--test" help:"Matrix containing test dataset." placeholder:"FILE"`
	TestLabels      string   `arg:"-A,--test_labels" help:"Matrix containing test labels." placeholder:"FILE"`
	Predictions     string   `arg:"-P,--predictions" help:"If test data is specified, this matrix is where the predictions for the test set will be saved." placeholder:"FILE"`
	Score           string   `arg:"-p,--score" help:"If test data is specified, this matrix is where the class score for the test set will be saved." placeholder:"FILE"`

	Seed          int64  `arg:"--seed" default:"0" help:"Random seed (if 0, a time-based seed is used)."`
	Verbose       bool   `arg:"-v,--verbose" help:"Display informational messages."`
	LogFormat     string `arg:"--log_format" default:"console" help:"Log output format ('console' or 'json')."`
	ObjectivePlot string `arg:"--objective_plot" help:"Save a chart of the training objective per iteration (.png, .svg, .pdf)." placeholder:"FILE"`
	Progress      bool   `arg:"--progress" help:"Show a progress bar while training."`
}

// Description は --help の先頭に表示される説明です。
func (Options) Description() string {
	return `An implementation of linear SVMs that uses either L-BFGS or parallel SGD (stochastic gradient descent) to train the model.

This program allows loading a linear SVM model (via --input_model) or training a linear SVM model given training data (--training), or both. Labels may be given in a separate file (--labels) or as the last column of the training data.

The trained model may be saved (--output_model), and it may be used to classify test points (--test). Predictions are written to --predictions and per-class scores to --score; if --test_labels is given, the accuracy for each class and in total is reported with --verbose.`
}

// Version は --version で表示されます。
func (Options) Version() string {
	return version
}

// DefaultOptions returns Options filled with the same defaults the go-arg
// tags apply, for callers that build Options without parsing a command line.
func DefaultOptions() Options {
	return Options{
		Lambda:        1e-4,
		Delta:         1.0,
		Optimizer:     OptimizerLBFGS,
		Tolerance:     1e-10,
		MaxIterations: 10000,
		LogFormat:     log.FormatConsole,
	}
}

// StepSizeValue は --step_size の値を返します（未指定なら既定値）。
func (o *Options) StepSizeValue() float64 {
	if o.StepSize == nil {
		return optimizer.DefaultStepSize
	}
	return *o.StepSize
}

// LogLevel は --verbose に応じたログレベルを返します。
// 情報メッセージは --verbose のときだけ表示します。
func (o *Options) LogLevel() log.Level {
	if o.Verbose {
		return log.LevelInfo
	}
	return log.LevelWarn
}
