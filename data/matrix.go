// Package data はデータ行列とラベルのファイル入出力を提供します。
//
// ファイルは1行が1サンプルです。拡張子で区切り文字を決めます:
// .csv はカンマ、.tsv はタブ、それ以外（.txt など）は空白文字。
package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

// Format はファイルの区切り形式
type Format int

const (
	// Whitespace は空白区切り（.txt など）
	Whitespace Format = iota
	// CSV はカンマ区切り
	CSV
	// TSV はタブ区切り
	TSV
)

// FormatOf はパスの拡張子から形式を判定します。
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV
	case ".tsv":
		return TSV
	default:
		return Whitespace
	}
}

func (f Format) comma() rune {
	if f == TSV {
		return '\t'
	}
	return ','
}

// LoadMatrix はファイルから行列（行がサンプル）を読み込みます。
func LoadMatrix(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	m, err := ReadMatrix(file, FormatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return m, nil
}

// ReadMatrix は r から行列を読み込みます。空行は無視し、全ての行が
// 同じ列数を持つ必要があります。
func ReadMatrix(r io.Reader, format Format) (*mat.Dense, error) {
	records, err := readRecords(r, format)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	cols := len(records[0].fields)
	data := make([]float64, 0, len(records)*cols)
	for _, rec := range records {
		if len(rec.fields) != cols {
			return nil, errors.NewValueError("ReadMatrix",
				fmt.Sprintf("line %d has %d columns, expected %d", rec.line, len(rec.fields), cols))
		}
		for _, field := range rec.fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.NewValueError("ReadMatrix",
					fmt.Sprintf("line %d: cannot parse %q as a number", rec.line, field))
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(len(records), cols, data), nil
}

type record struct {
	line   int
	fields []string
}

func readRecords(r io.Reader, format Format) ([]record, error) {
	var records []record

	if format == Whitespace {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			records = append(records, record{line: line, fields: fields})
		}
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "failed to read data")
		}
		return records, nil
	}

	reader := csv.NewReader(r)
	reader.Comma = format.comma()
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read data")
		}
		line, _ := reader.FieldPos(0)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		records = append(records, record{line: line, fields: fields})
	}
	return records, nil
}

// SaveMatrix は行列をファイルに書き出します（1行1サンプル）。
func SaveMatrix(path string, m mat.Matrix) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := WriteMatrix(file, m, FormatOf(path)); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return file.Close()
}

// WriteMatrix は行列を w に書き出します。
func WriteMatrix(w io.Writer, m mat.Matrix, format Format) error {
	rows, cols := m.Dims()
	row := make([]string, cols)

	if format == Whitespace {
		bw := bufio.NewWriter(w)
		for i := 0; i < rows; i++ {
			for j := range row {
				row[j] = formatFloat(m.At(i, j))
			}
			if _, err := bw.WriteString(strings.Join(row, " ") + "\n"); err != nil {
				return errors.Wrap(err, "failed to write data")
			}
		}
		return errors.Wrap(bw.Flush(), "failed to write data")
	}

	writer := csv.NewWriter(w)
	writer.Comma = format.comma()
	for i := 0; i < rows; i++ {
		for j := range row {
			row[j] = formatFloat(m.At(i, j))
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "failed to write data")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to write data")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
