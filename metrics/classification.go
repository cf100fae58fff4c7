package metrics

import (
	"fmt"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

// Accuracy は正解率（予測ラベルが正解ラベルと一致する割合）を計算する
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.NewValueError("Accuracy", "empty labels")
	}
	if len(yPred) != len(yTrue) {
		return 0, errors.NewDimensionError("Accuracy", len(yTrue), len(yPred), 0)
	}

	correct := 0
	for i, label := range yTrue {
		if yPred[i] == label {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ClassificationError は誤分類率（1 - 正解率）を計算する
func ClassificationError(yTrue, yPred []int) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ClassAccuracy は1クラス分の集計結果
type ClassAccuracy struct {
	Label    int     // クラスラベル
	Correct  int     // 正しく分類された点の数
	Total    int     // このラベルを持つ点の数
	Accuracy float64 // Correct / Total（Total が 0 の場合は 0）
}

// AccuracyReport はクラス別および全体の正解率
type AccuracyReport struct {
	Classes  []ClassAccuracy
	Correct  int
	Total    int
	Accuracy float64
}

// PerClassAccuracy はクラスごとの正解率と全体の正解率を一回の走査で計算する
//
// パラメータ:
//   - yTrue: 正解ラベル（0 <= label < numClasses）
//   - yPred: 予測ラベル
//   - numClasses: クラス数
//
// 点を持たないクラスの正解率は 0 とし、UndefinedMetricWarning を発生させる。
// クラス別の Correct の合計は常に全体の Correct と一致する。
func PerClassAccuracy(yTrue, yPred []int, numClasses int) (*AccuracyReport, error) {
	if len(yTrue) == 0 {
		return nil, errors.NewValueError("PerClassAccuracy", "empty labels")
	}
	if len(yPred) != len(yTrue) {
		return nil, errors.NewDimensionError("PerClassAccuracy", len(yTrue), len(yPred), 0)
	}
	if numClasses <= 0 {
		return nil, errors.NewValidationError("number_of_classes", "number of classes must be positive to compute accuracy", numClasses)
	}

	report := &AccuracyReport{
		Classes: make([]ClassAccuracy, numClasses),
		Total:   len(yTrue),
	}
	for c := range report.Classes {
		report.Classes[c].Label = c
	}

	for i, label := range yTrue {
		if label < 0 || label >= numClasses {
			return nil, errors.NewValidationError("test_labels",
				fmt.Sprintf("label must be in [0, %d)", numClasses), label)
		}
		report.Classes[label].Total++
		if yPred[i] == label {
			report.Classes[label].Correct++
			report.Correct++
		}
	}

	for c := range report.Classes {
		class := &report.Classes[c]
		if class.Total == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning(
				fmt.Sprintf("accuracy[%d]", c),
				fmt.Sprintf("no points with label %d", c),
				0,
			))
			continue
		}
		class.Accuracy = float64(class.Correct) / float64(class.Total)
	}
	report.Accuracy = float64(report.Correct) / float64(report.Total)

	return report, nil
}
