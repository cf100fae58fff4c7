package svm

import (
	"runtime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linearsvm/core/parallel"
)

// parallelThreshold 未満の点数では目的関数と勾配を逐次計算する
const parallelThreshold = 1000

// HingeFunction は多クラスマージン・ヒンジ損失と L2 正則化からなる目的関数です。
//
// パラメータ w は (dim[+1]) × k の行列を行優先で平坦化したもので、
// 切片を学習する場合は最後の行が切片になります。点 i のクラス c のスコアは
//
//	s_c = Σ_j x_ij w[j, c] (+ w[dim, c])
//
// で、目的関数は f(w) = (1/n) Σ_i f_i(w),
//
//	f_i(w) = Σ_{c≠y_i} max(0, s_c − s_{y_i} + Δ) + (λ/2)‖w‖²
//
// です。optimizer.SeparableFunction を満たします。
type HingeFunction struct {
	x            *mat.Dense
	labels       []int
	numClasses   int
	lambda       float64
	delta        float64
	fitIntercept bool
	dim          int
}

// NewHingeFunction は学習データ X（行がサンプル）とラベルから目的関数を作成します。
// 入力の検証は呼び出し側で行います。
func NewHingeFunction(X *mat.Dense, labels []int, numClasses int, lambda, delta float64, fitIntercept bool) *HingeFunction {
	_, dim := X.Dims()
	return &HingeFunction{
		x:            X,
		labels:       labels,
		numClasses:   numClasses,
		lambda:       lambda,
		delta:        delta,
		fitIntercept: fitIntercept,
		dim:          dim,
	}
}

// NumParameters returns the length of the flattened parameter vector.
func (f *HingeFunction) NumParameters() int {
	return parameterRows(f.dim, f.fitIntercept) * f.numClasses
}

// NumFunctions returns the number of training points.
func (f *HingeFunction) NumFunctions() int {
	return len(f.labels)
}

// Evaluate returns the mean hinge loss plus the L2 penalty.
func (f *HingeFunction) Evaluate(w []float64) float64 {
	n := len(f.labels)
	workers := f.workers(n)
	partial := make([]float64, workers)

	parallel.ParallelizeWorkers(workers, n, func(worker, start, end int) {
		scores := make([]float64, f.numClasses)
		var sum float64
		for i := start; i < end; i++ {
			f.scores(w, i, scores)
			sum += f.hinge(i, scores)
		}
		partial[worker] = sum
	})

	return floats.Sum(partial)/float64(n) + f.penalty(w)
}

// Gradient writes ∇f(w) into grad.
func (f *HingeFunction) Gradient(w, grad []float64) {
	n := len(f.labels)
	workers := f.workers(n)
	buffers := make([][]float64, workers)

	parallel.ParallelizeWorkers(workers, n, func(worker, start, end int) {
		buf := make([]float64, len(w))
		scores := make([]float64, f.numClasses)
		coef := make([]float64, f.numClasses)
		for i := start; i < end; i++ {
			f.scores(w, i, scores)
			f.addHingeGradient(i, scores, coef, buf)
		}
		buffers[worker] = buf
	})

	clear(grad)
	for _, buf := range buffers {
		if buf != nil {
			floats.Add(grad, buf)
		}
	}
	floats.Scale(1/float64(n), grad)
	floats.AddScaled(grad, f.lambda, w)
}

// EvaluatePoint returns f_i(w).
func (f *HingeFunction) EvaluatePoint(w []float64, i int) float64 {
	scores := make([]float64, f.numClasses)
	f.scores(w, i, scores)
	return f.hinge(i, scores) + f.penalty(w)
}

// GradientPoint writes ∇f_i(w) into grad. It is safe for concurrent use.
func (f *HingeFunction) GradientPoint(w []float64, i int, grad []float64) {
	scores := make([]float64, f.numClasses)
	coef := make([]float64, f.numClasses)
	clear(grad)
	f.scores(w, i, scores)
	f.addHingeGradient(i, scores, coef, grad)
	floats.AddScaled(grad, f.lambda, w)
}

func (f *HingeFunction) workers(n int) int {
	if n < parallelThreshold {
		return 1
	}
	return runtime.NumCPU()
}

func (f *HingeFunction) penalty(w []float64) float64 {
	return 0.5 * f.lambda * floats.Dot(w, w)
}

// scores は点 i の各クラスのスコアを s に書き込む
func (f *HingeFunction) scores(w []float64, i int, s []float64) {
	k := f.numClasses
	clear(s)
	for j, v := range f.x.RawRowView(i) {
		if v == 0 {
			continue
		}
		floats.AddScaled(s, v, w[j*k:(j+1)*k])
	}
	if f.fitIntercept {
		floats.Add(s, w[f.dim*k:(f.dim+1)*k])
	}
}

func (f *HingeFunction) hinge(i int, s []float64) float64 {
	y := f.labels[i]
	var loss float64
	for c, score := range s {
		if c == y {
			continue
		}
		if margin := score - s[y] + f.delta; margin > 0 {
			loss += margin
		}
	}
	return loss
}

// addHingeGradient は点 i のヒンジ項の勾配を grad に加算する。
// 正のマージンごとにクラス c へ +x、正解クラスへ −x。
func (f *HingeFunction) addHingeGradient(i int, s, coef, grad []float64) {
	k := f.numClasses
	y := f.labels[i]

	clear(coef)
	active := false
	for c, score := range s {
		if c == y {
			continue
		}
		if score-s[y]+f.delta > 0 {
			coef[c]++
			coef[y]--
			active = true
		}
	}
	if !active {
		return
	}

	for j, v := range f.x.RawRowView(i) {
		if v == 0 {
			continue
		}
		floats.AddScaled(grad[j*k:(j+1)*k], v, coef)
	}
	if f.fitIntercept {
		floats.Add(grad[f.dim*k:(f.dim+1)*k], coef)
	}
}

func parameterRows(dim int, fitIntercept bool) int {
	if fitIntercept {
		return dim + 1
	}
	return dim
}
