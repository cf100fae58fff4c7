// Package optimizer は LinearSVM の学習に使う最適化アルゴリズムを提供します。
//
// パラメータは平坦な []float64 として扱い、目的関数は Function インターフェースで
// 受け取ります。LBFGS は gonum/optimize に委譲し、ParallelSGD は全 CPU コアで
// ロックなし (hogwild) の確率的勾配降下を行います。
package optimizer

import (
	"context"
	"sync"
)

// Function は微分可能な目的関数です。
type Function interface {
	// Evaluate は x における目的関数値を返します。
	Evaluate(x []float64) float64
	// Gradient は x における勾配を grad に書き込みます。
	Gradient(x, grad []float64)
}

// SeparableFunction は点ごとの項の平均として書ける目的関数です。
// f(x) = (1/n) Σ_i f_i(x)
//
// EvaluatePoint と GradientPoint は複数のゴルーチンから同時に呼ばれます。
// GradientPoint は grad を上書きします（加算ではありません）。
type SeparableFunction interface {
	Function
	NumFunctions() int
	EvaluatePoint(x []float64, i int) float64
	GradientPoint(x []float64, i int, grad []float64)
}

// Optimizer は x を初期値として fn を最小化し、x を解で上書きします。
// 戻り値は最終的な目的関数値です。
type Optimizer interface {
	Optimize(ctx context.Context, fn Function, x []float64) (float64, error)
}

// Progress receives one tick per outer iteration. total is 0 when the number
// of iterations is not bounded.
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

// Recorder は外側のイテレーションごとの目的関数値を保存します。
// ゼロ値のまま使用できます。
type Recorder struct {
	mu     sync.Mutex
	values []float64
}

// Record appends the objective value reached at an iteration.
func (r *Recorder) Record(objective float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, objective)
}

// Values returns a copy of the recorded objective history.
func (r *Recorder) Values() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of recorded iterations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Reset clears the history.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = r.values[:0]
}

// observe は nil 許容の Recorder / Progress にまとめて通知する
func observe(rec *Recorder, progress Progress, objective float64) {
	if rec != nil {
		rec.Record(objective)
	}
	if progress != nil {
		progress.Increment()
	}
}
