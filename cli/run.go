package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"gonum.org/v1/gonum/mat"

	coremodel "github.com/YuminosukeSato/linearsvm/core/model"
	"github.com/YuminosukeSato/linearsvm/data"
	"github.com/YuminosukeSato/linearsvm/metrics"
	"github.com/YuminosukeSato/linearsvm/optimizer"
	"github.com/YuminosukeSato/linearsvm/pkg/errors"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
	"github.com/YuminosukeSato/linearsvm/plotting"
	"github.com/YuminosukeSato/linearsvm/svm"
)

// Runner は検証済みのオプションに従って学習・分類・保存を行います。
type Runner struct {
	Logger log.Logger
	// ProgressOutput は --progress のときに進捗バーを書き出す先
	ProgressOutput io.Writer
}

// Run は linear_svm の処理全体を実行します。
//
//  1. オプションの検証
//  2. 学習データとラベルの読み込み
//  3. モデルの作成または読み込み
//  4. 学習（L-BFGS または ParallelSGD）
//  5. テストデータの分類と正解率の出力
//  6. スコア、予測、目的関数のグラフ、モデルの保存
//
// ファイルへの出力はすべての検査が通った後にだけ行う。
func (r *Runner) Run(ctx context.Context, o *Options) error {
	logger := r.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	if err := o.Validate(); err != nil {
		return err
	}

	var (
		X      *mat.Dense
		labels []int
	)
	if o.Training != "" {
		var err error
		X, labels, err = loadTraining(o)
		if err != nil {
			return err
		}
	}

	model, err := r.model(o, logger)
	if err != nil {
		return err
	}

	var objectives []float64
	numClasses := model.NumClasses()
	switch {
	case X != nil:
		numClasses = NumberOfClasses(o.NumberOfClasses, labels)
		objectives, err = r.train(ctx, o, model, X, labels, numClasses, logger)
		if err != nil {
			return err
		}
	case o.NumberOfClasses > 0:
		numClasses = o.NumberOfClasses
	}

	var result *testResult
	if o.Test != "" {
		result, err = r.test(o, model, numClasses, logger)
		if err != nil {
			return err
		}
	}

	return r.save(o, model, result, objectives, logger)
}

// loadTraining は学習データとラベルを読み込む。--labels がなければ最後の列をラベルとして使う
func loadTraining(o *Options) (*mat.Dense, []int, error) {
	X, err := data.LoadMatrix(o.Training)
	if err != nil {
		return nil, nil, err
	}
	rows, cols := X.Dims()

	if o.Labels != "" {
		labels, err := data.LoadLabels(o.Labels)
		if err != nil {
			return nil, nil, err
		}
		if len(labels) != rows {
			return nil, nil, errors.Wrap(
				errors.NewDimensionError("labels", rows, len(labels), 0),
				"The labels must have the same number of points as the training dataset.")
		}
		return X, labels, nil
	}

	if cols < 2 {
		return nil, nil, errors.Wrap(
			errors.NewDimensionError("training", 2, cols, 1),
			"Can't get labels from training data since it has less than 2 rows.")
	}
	return data.SplitLabels(X)
}

func (r *Runner) model(o *Options, logger log.Logger) (*svm.LinearSVM, error) {
	if o.InputModel == "" {
		return svm.NewLinearSVM(svm.WithLogger(logger)), nil
	}

	model, err := svm.Load(o.InputModel, svm.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded model.",
		log.OperationKey, log.OperationLoad,
		log.PathKey, o.InputModel,
		log.FeaturesKey, model.Dimensionality(),
		log.ClassesKey, model.NumClasses(),
	)
	return model, nil
}

func (r *Runner) train(ctx context.Context, o *Options, model *svm.LinearSVM, X *mat.Dense, labels []int, numClasses int, logger log.Logger) ([]float64, error) {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if seed < 0 {
		seed = -seed
	}

	model.Configure(
		svm.WithLambda(o.Lambda),
		svm.WithDelta(o.Delta),
		svm.WithFitIntercept(!o.NoIntercept),
		svm.WithNumClasses(numClasses),
		svm.WithRandomState(seed),
	)

	recorder := &optimizer.Recorder{}
	var progress optimizer.Progress
	if o.Progress && r.ProgressOutput != nil {
		progress = newProgressBar(r.ProgressOutput)
	}

	rows, _ := X.Dims()
	workers := runtime.NumCPU()
	opt := newOptimizer(o, rows, workers, seed, recorder, progress, logger.With(log.OptimizerKey, o.Optimizer))
	switch o.Optimizer {
	case OptimizerLBFGS:
		logger.Info("Training model with L-BFGS optimizer.")
	case OptimizerPSGD:
		logger.Info("Training model with ParallelSGD optimizer.",
			log.WorkersKey, workers,
			log.LearningRateKey, o.StepSizeValue(),
		)
	}

	objective, err := model.Train(ctx, X, labels, numClasses, opt)
	if err != nil {
		return nil, err
	}
	logger.Info("Trained model.",
		log.ObjectiveKey, objective,
		log.IterationKey, recorder.Len(),
	)
	return recorder.Values(), nil
}

// newOptimizer は --optimizer に対応する最適化器を組み立てる。
// --shuffle は指定されたときに走査順のシャッフルを止める。
func newOptimizer(o *Options, rows, workers int, seed int64, recorder *optimizer.Recorder, progress optimizer.Progress, logger log.Logger) optimizer.Optimizer {
	if o.Optimizer == OptimizerPSGD {
		return &optimizer.ParallelSGD{
			MaxIterations:   o.MaxIterations,
			ThreadShareSize: int(math.Ceil(float64(rows) / float64(workers))),
			Tolerance:       o.Tolerance,
			Shuffle:         !o.Shuffle,
			Decay:           optimizer.ConstantStep{StepSize: o.StepSizeValue()},
			Workers:         workers,
			RandomState:     seed,
			Recorder:        recorder,
			Progress:        progress,
			Logger:          logger,
		}
	}
	return &optimizer.LBFGS{
		MaxIterations:   o.MaxIterations,
		MinGradientNorm: o.Tolerance,
		Recorder:        recorder,
		Progress:        progress,
		Logger:          logger,
	}
}

// testResult はテストデータの分類結果。保存は save でまとめて行う
type testResult struct {
	scores      *mat.Dense
	predictions []int
}

func (r *Runner) test(o *Options, model coremodel.Classifier, numClasses int, logger log.Logger) (*testResult, error) {
	testSet, err := data.LoadMatrix(o.Test)
	if err != nil {
		return nil, err
	}
	rows, cols := testSet.Dims()

	if dim := model.Dimensionality(); cols != dim {
		return nil, errors.Wrap(
			errors.NewDimensionError("test", dim, cols, 1),
			fmt.Sprintf("Test data dimensionality (%d) must be the same as the dimensionality of the training data (%d)!", cols, dim))
	}

	var testLabels []int
	if o.TestLabels != "" {
		testLabels, err = data.LoadLabels(o.TestLabels)
		if err != nil {
			return nil, err
		}
		if len(testLabels) != rows {
			return nil, errors.Wrap(
				errors.NewDimensionError("test_labels", rows, len(testLabels), 0),
				fmt.Sprintf("Test data given with '--test' has %d points, but labels in '--test_labels' have %d labels!", rows, len(testLabels)))
		}
	}

	result := &testResult{}
	if o.Score != "" {
		logger.Info(fmt.Sprintf("Calculating class score of points in '%s'.", o.Test), log.OperationKey, log.OperationScore)
		if result.scores, err = model.Scores(testSet); err != nil {
			return nil, err
		}
	}

	if o.Predictions != "" {
		logger.Info(fmt.Sprintf("Predicting classes of points in '%s'.", o.Test), log.OperationKey, log.OperationClassify)
	}
	if result.predictions, err = model.Classify(testSet); err != nil {
		return nil, err
	}

	if testLabels != nil {
		if err := reportAccuracy(testLabels, result.predictions, numClasses, logger); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// save は要求された出力をすべて書き出す
func (r *Runner) save(o *Options, model *svm.LinearSVM, result *testResult, objectives []float64, logger log.Logger) error {
	if result != nil && o.Score != "" {
		if err := data.SaveMatrix(o.Score, result.scores); err != nil {
			return err
		}
	}
	if result != nil && o.Predictions != "" {
		if err := data.SaveLabels(o.Predictions, result.predictions); err != nil {
			return err
		}
	}

	if objectives != nil && o.ObjectivePlot != "" {
		title := fmt.Sprintf("LinearSVM objective (%s)", o.Optimizer)
		if err := plotting.SaveObjectivePlot(o.ObjectivePlot, title, objectives); err != nil {
			return err
		}
		logger.Info("Saved objective plot.", log.PathKey, o.ObjectivePlot)
	}

	if o.OutputModel != "" {
		if err := model.Save(o.OutputModel); err != nil {
			return err
		}
		logger.Info("Saved model.", log.OperationKey, log.OperationSave, log.PathKey, o.OutputModel)
	}
	return nil
}

// reportAccuracy はクラスごとと全体の正解率をログに出す
func reportAccuracy(testLabels, predictions []int, numClasses int, logger log.Logger) error {
	report, err := metrics.PerClassAccuracy(testLabels, predictions, numClasses)
	if err != nil {
		return err
	}
	errorRate, err := metrics.ClassificationError(testLabels, predictions)
	if err != nil {
		return err
	}

	for _, class := range report.Classes {
		logger.Info(
			fmt.Sprintf("Accuracy for points with label %d is %v (%d of %d).", class.Label, class.Accuracy, class.Correct, class.Total),
			log.LabelKey, class.Label,
			log.AccuracyKey, class.Accuracy,
			log.CorrectKey, class.Correct,
			log.TotalKey, class.Total,
		)
	}
	logger.Info(
		fmt.Sprintf("Total accuracy for all points is %v (%d of %d).", report.Accuracy, report.Correct, report.Total),
		log.AccuracyKey, report.Accuracy,
		log.ErrorRateKey, errorRate,
		log.CorrectKey, report.Correct,
		log.TotalKey, report.Total,
	)
	return nil
}
