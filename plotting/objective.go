// Package plotting は学習の目的関数値の推移をグラフとして保存します。
package plotting

import (
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

// 出力画像のサイズ
const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// ObjectivePlot はイテレーションごとの目的関数値の折れ線グラフを作成します。
func ObjectivePlot(title string, values []float64) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	points := make(plotter.XYs, len(values))
	for i, v := range values {
		points[i].X = float64(i + 1)
		points[i].Y = v
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "objective"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create objective line")
	}
	p.Add(line)
	return p, nil
}

// SaveObjectivePlot は目的関数値の推移を path に保存します。
// 形式は拡張子（.png, .svg, .pdf など gonum/plot が扱えるもの）で決まります。
func SaveObjectivePlot(path, title string, values []float64) error {
	if filepath.Ext(path) == "" {
		return errors.NewValueError("SaveObjectivePlot", "plot file needs an extension such as .png or .svg")
	}

	p, err := ObjectivePlot(title, values)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}

// SupportedExtension reports whether gonum/plot can write files with the
// extension of path.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff", ".tex":
		return true
	default:
		return false
	}
}
