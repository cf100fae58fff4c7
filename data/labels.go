package data

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

// LoadLabels はラベルファイルを読み込みます。ファイルは1行または1列で、
// 各値は非負の整数でなければなりません。
func LoadLabels(path string) ([]int, error) {
	m, err := LoadMatrix(path)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	var values []float64
	switch {
	case cols == 1:
		values = mat.Col(nil, 0, m)
	case rows == 1:
		values = mat.Row(nil, 0, m)
	default:
		return nil, errors.NewValueError("LoadLabels",
			fmt.Sprintf("%s must have a single row or a single column, got %dx%d", path, rows, cols))
	}
	return ToLabels(values)
}

// ToLabels は数値を非負の整数ラベルに変換します。
func ToLabels(values []float64) ([]int, error) {
	labels := make([]int, len(values))
	for i, v := range values {
		if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, errors.NewValidationError("labels", "labels must be non-negative integers", v)
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// SplitLabels は最後の列をラベルとして取り出し、残りの列を特徴量として返します。
func SplitLabels(X *mat.Dense) (*mat.Dense, []int, error) {
	rows, cols := X.Dims()
	if cols < 2 {
		return nil, nil, errors.NewValueError("SplitLabels", "need at least 2 columns to take labels from the last one")
	}

	labels, err := ToLabels(mat.Col(nil, cols-1, X))
	if err != nil {
		return nil, nil, err
	}
	features := mat.DenseCopyOf(X.Slice(0, rows, 0, cols-1))
	return features, labels, nil
}

// SaveLabels はラベルを1行に1つずつ書き出します。
func SaveLabels(path string, labels []int) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := WriteLabels(file, labels); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return file.Close()
}

// WriteLabels はラベルを w に1行に1つずつ書き出します。
func WriteLabels(w io.Writer, labels []int) error {
	bw := bufio.NewWriter(w)
	for _, label := range labels {
		if _, err := bw.WriteString(strconv.Itoa(label) + "\n"); err != nil {
			return errors.Wrap(err, "failed to write labels")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to write labels")
}
