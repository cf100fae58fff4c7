// Package svm は多クラス線形サポートベクターマシンを提供します。
package svm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/linearsvm/core/model"
	"github.com/YuminosukeSato/linearsvm/core/parallel"
	"github.com/YuminosukeSato/linearsvm/optimizer"
	"github.com/YuminosukeSato/linearsvm/pkg/errors"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
)

// ModelName は LinearSVM のモデル名（ログ・エラーメッセージ・モデルファイル用）
const ModelName = "LinearSVM"

// 既定のハイパーパラメータ
const (
	DefaultLambda = 1e-4
	DefaultDelta  = 1.0
)

// initScale は初期パラメータの標準偏差
const initScale = 0.005

// LinearSVM は多クラスマージン・ヒンジ損失で学習する線形SVMです。
//
// パラメータ行列は (dim[+1]) × numClasses で、各列が1クラスの重みです。
// 切片を学習する場合は最後の行が切片になります。
type LinearSVM struct {
	state *model.StateManager

	// ハイパーパラメータ
	lambda       float64 // L2 正則化の強さ
	delta        float64 // 正解クラスと他クラスのスコアのマージン
	fitIntercept bool    // 切片を学習するか
	numClasses   int     // クラス数（0 は学習時のラベルから決定）
	randomState  int64   // 初期値の乱数シード（負の値は非決定的）

	// 学習パラメータ
	parameters  *mat.Dense
	estimatorID string

	logger log.Logger
	mu     sync.RWMutex
}

// Option は LinearSVM の設定オプション
type Option func(*LinearSVM)

// WithLambda は L2 正則化の強さを設定
func WithLambda(lambda float64) Option {
	return func(m *LinearSVM) { m.lambda = lambda }
}

// WithDelta はマージンを設定
func WithDelta(delta float64) Option {
	return func(m *LinearSVM) { m.delta = delta }
}

// WithFitIntercept は切片学習の有無を設定
func WithFitIntercept(fit bool) Option {
	return func(m *LinearSVM) { m.fitIntercept = fit }
}

// WithNumClasses はクラス数を設定
func WithNumClasses(n int) Option {
	return func(m *LinearSVM) { m.numClasses = n }
}

// WithRandomState は初期値の乱数シードを設定
func WithRandomState(seed int64) Option {
	return func(m *LinearSVM) { m.randomState = seed }
}

// WithLogger はロガーを設定
func WithLogger(logger log.Logger) Option {
	return func(m *LinearSVM) {
		if logger == nil {
			logger = log.NewNopLogger()
		}
		m.logger = logger
	}
}

// NewLinearSVM は新しい LinearSVM を作成します。
func NewLinearSVM(opts ...Option) *LinearSVM {
	m := &LinearSVM{
		state:        model.NewStateManager(),
		lambda:       DefaultLambda,
		delta:        DefaultDelta,
		fitIntercept: true,
		randomState:  -1,
		estimatorID:  uuid.NewString(),
		logger:       log.NewNopLogger(),
	}
	m.Configure(opts...)
	return m
}

// Configure applies options to an existing model, e.g. one loaded from disk
// before it is trained further.
func (m *LinearSVM) Configure(opts ...Option) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, opt := range opts {
		opt(m)
	}
}

// Lambda returns the L2 regularization strength.
func (m *LinearSVM) Lambda() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lambda
}

// Delta returns the margin.
func (m *LinearSVM) Delta() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delta
}

// FitIntercept reports whether the model learns an intercept row.
func (m *LinearSVM) FitIntercept() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fitIntercept
}

// NumClasses returns the number of classes.
func (m *LinearSVM) NumClasses() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.numClasses
}

// EstimatorID returns the unique identifier of this model instance.
func (m *LinearSVM) EstimatorID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.estimatorID
}

// IsFitted reports whether the model has parameters from training or a model file.
func (m *LinearSVM) IsFitted() bool {
	return m.state.IsFitted()
}

// Dimensionality は学習時の特徴量の次元数を返します（切片の行は含みません）。
// 未学習の場合は 0 です。
func (m *LinearSVM) Dimensionality() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensionality()
}

func (m *LinearSVM) dimensionality() int {
	if m.parameters == nil {
		return 0
	}
	rows, _ := m.parameters.Dims()
	if m.fitIntercept {
		return rows - 1
	}
	return rows
}

// Parameters はパラメータ行列のコピーを返します。未学習の場合は nil です。
func (m *LinearSVM) Parameters() *mat.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.parameters == nil {
		return nil
	}
	return mat.DenseCopyOf(m.parameters)
}

// InitialPoint は 0.005·N(0,1) で初期化した (dim[+1]) × numClasses の行列を返します。
func (m *LinearSVM) InitialPoint(dim int) *mat.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialPoint(dim, m.numClasses)
}

func (m *LinearSVM) initialPoint(dim, numClasses int) *mat.Dense {
	normal := distuv.Normal{Mu: 0, Sigma: initScale}
	if m.randomState >= 0 {
		normal.Src = rand.NewPCG(uint64(m.randomState), 0)
	}

	rows := parameterRows(dim, m.fitIntercept)
	data := make([]float64, rows*numClasses)
	for i := range data {
		data[i] = normal.Rand()
	}
	return mat.NewDense(rows, numClasses, data)
}

// Train はデータ X（行がサンプル）とラベルでモデルを学習し、最終的な目的関数値を返します。
//
// パラメータ:
//   - X: 学習データ（n × dim）
//   - labels: 各サンプルのクラス（0 <= label < numClasses）
//   - numClasses: クラス数
//   - opt: 最適化アルゴリズム
//
// 既存のパラメータが同じ形状を持つ場合はそこから学習を再開し、
// そうでなければ InitialPoint から開始します。
func (m *LinearSVM) Train(ctx context.Context, X mat.Matrix, labels []int, numClasses int, opt optimizer.Optimizer) (objective float64, err error) {
	defer errors.Recover(&err, "LinearSVM.Train")

	if X == nil {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	if len(labels) != rows {
		return 0, errors.NewDimensionError("LinearSVM.Train", rows, len(labels), 0)
	}
	if numClasses < 1 {
		return 0, errors.NewValidationError("number_of_classes", "number of classes must be positive to train", numClasses)
	}
	for _, label := range labels {
		if label < 0 || label >= numClasses {
			return 0, errors.NewValidationError("labels",
				fmt.Sprintf("labels must be in [0, %d)", numClasses), label)
		}
	}
	if opt == nil {
		return 0, errors.NewValueError("LinearSVM.Train", "optimizer is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := X.(*mat.Dense)
	if !ok {
		data = mat.DenseCopyOf(X)
	}

	start := m.startingPoint(cols, numClasses)
	pr, pc := start.Dims()
	w := make([]float64, pr*pc)
	for r := 0; r < pr; r++ {
		copy(w[r*pc:(r+1)*pc], start.RawRowView(r))
	}

	fn := NewHingeFunction(data, labels, numClasses, m.lambda, m.delta, m.fitIntercept)

	logger := m.logger.With(log.ModelNameKey, ModelName, log.EstimatorIDKey, m.estimatorID)
	logger.Info("Training model.",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, numClasses,
		log.RegularizationKey, m.lambda,
		log.DeltaKey, m.delta,
	)
	began := time.Now()

	objective, err = opt.Optimize(ctx, fn, w)
	if err != nil {
		return 0, errors.Wrap(err, "LinearSVM training failed")
	}

	m.parameters = mat.NewDense(pr, pc, w)
	m.numClasses = numClasses
	m.state.SetDimensions(cols, rows, numClasses)
	m.state.SetFitted()

	logger.Info("Training finished.",
		log.OperationKey, log.OperationTrain,
		log.ObjectiveKey, objective,
		log.DurationMsKey, time.Since(began).Milliseconds(),
	)
	return objective, nil
}

// startingPoint は形状が一致する既存パラメータのコピー、または新しい初期値を返す
func (m *LinearSVM) startingPoint(dim, numClasses int) *mat.Dense {
	if m.parameters != nil {
		rows, cols := m.parameters.Dims()
		if rows == parameterRows(dim, m.fitIntercept) && cols == numClasses {
			m.logger.Debug("Warm-starting from existing parameters.")
			return mat.DenseCopyOf(m.parameters)
		}
	}
	return m.initialPoint(dim, numClasses)
}

// Scores は各サンプルの各クラスのスコア（n × numClasses）を返します。
func (m *LinearSVM) Scores(X mat.Matrix) (*mat.Dense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scores(X, "Scores")
}

func (m *LinearSVM) scores(X mat.Matrix, method string) (*mat.Dense, error) {
	if err := m.state.RequireFitted(ModelName, method); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	rows, cols := X.Dims()
	dim := m.dimensionality()
	if cols != dim {
		return nil, errors.NewDimensionError("LinearSVM."+method, dim, cols, 1)
	}

	_, k := m.parameters.Dims()
	out := mat.NewDense(rows, k, nil)
	out.Mul(X, m.parameters.Slice(0, dim, 0, k))
	if m.fitIntercept {
		intercept := m.parameters.RawRowView(dim)
		for i := 0; i < rows; i++ {
			row := out.RawRowView(i)
			for c := range row {
				row[c] += intercept[c]
			}
		}
	}
	return out, nil
}

// Classify は各サンプルの予測クラス（最大スコアのクラス）を返します。
// 同点の場合は番号の小さいクラスを選びます。
func (m *LinearSVM) Classify(X mat.Matrix) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scores, err := m.scores(X, "Classify")
	if err != nil {
		return nil, err
	}

	rows, _ := scores.Dims()
	predictions := make([]int, rows)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			predictions[i] = argmax(scores.RawRowView(i))
		}
	})
	return predictions, nil
}

func argmax(row []float64) int {
	best := 0
	for c := 1; c < len(row); c++ {
		if row[c] > row[best] {
			best = c
		}
	}
	return best
}

var (
	_ model.Classifier     = (*LinearSVM)(nil)
	_ model.WeightExporter = (*LinearSVM)(nil)
	_ model.Persistable    = (*LinearSVM)(nil)
)
