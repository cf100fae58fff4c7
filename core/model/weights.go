package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

// ModelWeights はモデルの重みを表す構造体（JSONシリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（LinearSVM等）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// EstimatorID はモデルインスタンスの識別子
	EstimatorID string `json:"estimator_id,omitempty"`

	// Rows, Cols はパラメータ行列の形状
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// Parameters はパラメータ行列（行優先）
	Parameters []float64 `json:"parameters"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の統計、チェックサム等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// Checksum はパラメータのSHA-256チェックサムを計算する
func (mw *ModelWeights) Checksum() string {
	data, _ := json.Marshal(mw.Parameters)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Seal はチェックサムをメタデータに書き込む
func (mw *ModelWeights) Seal() {
	if mw.Metadata == nil {
		mw.Metadata = make(map[string]interface{})
	}
	mw.Metadata["checksum"] = mw.Checksum()
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValueError("ModelWeights.Validate", "model_type is required")
	}
	if mw.Version == "" {
		return errors.NewValueError("ModelWeights.Validate", "version is required")
	}
	if mw.Rows < 0 || mw.Cols < 0 || mw.Rows*mw.Cols != len(mw.Parameters) {
		return errors.NewDimensionError("ModelWeights.Validate", mw.Rows*mw.Cols, len(mw.Parameters), 0)
	}
	if mw.IsFitted && len(mw.Parameters) == 0 {
		return errors.NewValueError("ModelWeights.Validate", "fitted model must have parameters")
	}
	if sum, ok := mw.Metadata["checksum"].(string); ok && sum != mw.Checksum() {
		return errors.WithStack(errors.ErrChecksumMismatch)
	}
	return nil
}

// WriteJSON はModelWeightsをインデント付きJSONで書き出す
func (mw *ModelWeights) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(mw); err != nil {
		return errors.Wrap(err, "failed to encode model weights")
	}
	return nil
}

// ReadModelWeights はJSONからModelWeightsを読み込み、検証する
func ReadModelWeights(r io.Reader) (*ModelWeights, error) {
	mw := &ModelWeights{}
	if err := json.NewDecoder(r).Decode(mw); err != nil {
		return nil, errors.Wrap(err, "failed to decode model weights")
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return mw, nil
}
