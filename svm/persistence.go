package svm

import (
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linearsvm/core/model"
	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

// weightsVersion はモデルファイルのフォーマットバージョン
const weightsVersion = "1.0"

// Weights はモデルを ModelWeights 形式で返します（チェックサム付き）。
func (m *LinearSVM) Weights() (*model.ModelWeights, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.state.RequireFitted(ModelName, "Weights"); err != nil {
		return nil, err
	}

	rows, cols := m.parameters.Dims()
	params := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		params = append(params, m.parameters.RawRowView(r)...)
	}
	nFeatures, nSamples, _ := m.state.GetDimensions()

	mw := &model.ModelWeights{
		ModelType:   ModelName,
		Version:     weightsVersion,
		EstimatorID: m.estimatorID,
		Rows:        rows,
		Cols:        cols,
		Parameters:  params,
		Hyperparameters: map[string]interface{}{
			"lambda":        m.lambda,
			"delta":         m.delta,
			"fit_intercept": m.fitIntercept,
			"num_classes":   m.numClasses,
		},
		Metadata: map[string]interface{}{
			"n_features": nFeatures,
			"n_samples":  nSamples,
		},
		IsFitted: true,
	}
	mw.Seal()
	return mw, nil
}

// SetWeights は ModelWeights からモデルを復元します。
func (m *LinearSVM) SetWeights(mw *model.ModelWeights) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != ModelName {
		return errors.NewModelError("LinearSVM.SetWeights", "unexpected model type "+mw.ModelType, nil)
	}
	if !mw.IsFitted || mw.Rows == 0 || mw.Cols == 0 {
		return errors.NewModelError("LinearSVM.SetWeights", "model file has no parameters", nil)
	}

	fitIntercept, ok := mw.Hyperparameters["fit_intercept"].(bool)
	if !ok {
		return errors.NewModelError("LinearSVM.SetWeights", "missing hyperparameter fit_intercept", nil)
	}
	lambda, err := floatParam(mw.Hyperparameters, "lambda")
	if err != nil {
		return err
	}
	delta, err := floatParam(mw.Hyperparameters, "delta")
	if err != nil {
		return err
	}
	numClasses, err := floatParam(mw.Hyperparameters, "num_classes")
	if err != nil {
		return err
	}
	if int(numClasses) != mw.Cols {
		return errors.NewDimensionError("LinearSVM.SetWeights", int(numClasses), mw.Cols, 1)
	}

	nFeatures := mw.Rows
	if fitIntercept {
		nFeatures--
	}
	nSamples, _ := floatParam(mw.Metadata, "n_samples")

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lambda = lambda
	m.delta = delta
	m.fitIntercept = fitIntercept
	m.numClasses = mw.Cols
	if mw.EstimatorID != "" {
		m.estimatorID = mw.EstimatorID
	}
	m.parameters = mat.NewDense(mw.Rows, mw.Cols, append([]float64(nil), mw.Parameters...))
	m.state.SetDimensions(nFeatures, int(nSamples), mw.Cols)
	m.state.SetFitted()
	return nil
}

// floatParam は JSON（float64）と gob（int, float64）のどちらで保存された数値も読む
func floatParam(values map[string]interface{}, key string) (float64, error) {
	switch v := values[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.NewModelError("LinearSVM.SetWeights", "missing hyperparameter "+key, nil)
	}
}

// Save はモデルをファイルに保存します。拡張子が .gob の場合は gob 形式、
// それ以外はチェックサム付きの JSON 形式で書き出します。
func (m *LinearSVM) Save(path string) error {
	mw, err := m.Weights()
	if err != nil {
		return err
	}

	if isGob(path) {
		return model.SaveModel(mw, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := mw.WriteJSON(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Load はファイルからモデルを読み込みます。opts は読み込み後に適用されます
// （ロガーの設定など）。
func Load(path string, opts ...Option) (*LinearSVM, error) {
	var mw *model.ModelWeights
	if isGob(path) {
		mw = &model.ModelWeights{}
		if err := model.LoadModel(mw, path); err != nil {
			return nil, err
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		defer file.Close()

		mw, err = model.ReadModelWeights(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
	}

	m := NewLinearSVM()
	if err := m.SetWeights(mw); err != nil {
		return nil, errors.Wrapf(err, "invalid model in %s", path)
	}
	m.Configure(opts...)
	return m, nil
}

func isGob(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gob")
}
