package optimizer

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync/atomic"

	"github.com/YuminosukeSato/linearsvm/core/parallel"
	"github.com/YuminosukeSato/linearsvm/pkg/errors"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
)

// DecayPolicy はイテレーションごとの学習率を決めます。
type DecayPolicy interface {
	Step(iteration int) float64
}

// ConstantStep は常に同じ学習率を返す DecayPolicy です。
type ConstantStep struct {
	StepSize float64
}

// Step implements DecayPolicy.
func (c ConstantStep) Step(int) float64 {
	return c.StepSize
}

// ParallelSGD は hogwild 方式の並列確率的勾配降下法です。
//
// 外側のイテレーションごとに全体の目的関数値を計算し、前回との差が Tolerance
// 未満になった時点で停止します。その後、訪問順をシャッフルし、各ワーカーが
// 担当する点について x -= step * ∇f_i をロックなしのアトミック加算で適用します。
type ParallelSGD struct {
	// MaxIterations は外側のイテレーションの上限（0 は無制限）
	MaxIterations int
	// ThreadShareSize は1ワーカーが1イテレーションで処理する点の数
	// （0 は ceil(n / Workers)）
	ThreadShareSize int
	// Tolerance は目的関数値の変化による停止閾値
	Tolerance float64
	// Shuffle は各イテレーションで訪問順をシャッフルするか
	Shuffle bool
	// Decay は学習率ポリシー（nil は ConstantStep{0.01}）
	Decay DecayPolicy
	// Workers はワーカー数（0 は runtime.NumCPU()）
	Workers int
	// RandomState はシャッフル用の乱数シード
	RandomState int64

	Recorder *Recorder
	Progress Progress
	Logger   log.Logger
}

// DefaultStepSize is used when no DecayPolicy is configured.
const DefaultStepSize = 0.01

// Optimize implements Optimizer. fn must implement SeparableFunction.
func (p *ParallelSGD) Optimize(ctx context.Context, fn Function, x []float64) (float64, error) {
	sep, ok := fn.(SeparableFunction)
	if !ok {
		return 0, errors.NewValueError("ParallelSGD.Optimize", "objective is not separable into per-point functions")
	}
	n := sep.NumFunctions()
	if n == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	if len(x) == 0 {
		return 0, errors.NewValueError("ParallelSGD.Optimize", "empty parameter vector")
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	share := p.ThreadShareSize
	if share <= 0 {
		share = parallel.ChunkSize(n, workers)
	}
	chunks := parallel.ChunkSize(n, share)

	decay := p.Decay
	if decay == nil {
		decay = ConstantStep{StepSize: DefaultStepSize}
	}

	shared := newAtomicVector(x)
	snapshot := make([]float64, len(x))

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(p.RandomState))

	if p.Progress != nil {
		p.Progress.Start(p.MaxIterations)
		defer p.Progress.Finish()
	}
	if p.Logger != nil {
		p.Logger.Debug("ParallelSGD started",
			log.WorkersKey, chunks,
			log.SamplesKey, n,
			log.ToleranceKey, p.Tolerance,
		)
	}

	last := math.MaxFloat64
	for iter := 1; p.MaxIterations == 0 || iter <= p.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return 0, errors.Wrap(err, "ParallelSGD optimization cancelled")
		}

		shared.load(snapshot)
		current := fn.Evaluate(snapshot)
		observe(p.Recorder, p.Progress, current)
		if err := errors.CheckScalar("ParallelSGD objective", current, iter); err != nil {
			return 0, err
		}
		if p.Logger != nil {
			p.Logger.Debug("ParallelSGD iteration",
				log.IterationKey, iter,
				log.ObjectiveKey, current,
			)
		}

		if math.Abs(last-current) < p.Tolerance {
			copy(x, snapshot)
			return current, nil
		}
		last = current

		if p.Shuffle {
			rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		step := decay.Step(iter)
		parallel.ParallelizeWorkers(chunks, n, func(_, start, end int) {
			local := make([]float64, len(x))
			grad := make([]float64, len(x))
			for k := start; k < end; k++ {
				if k%1024 == 0 && ctx.Err() != nil {
					return
				}
				shared.load(local)
				sep.GradientPoint(local, order[k], grad)
				for j, g := range grad {
					if g != 0 {
						shared.add(j, -step*g)
					}
				}
			}
		})
	}

	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "ParallelSGD optimization cancelled")
	}

	shared.load(x)
	objective := fn.Evaluate(x)
	if err := errors.CheckScalar("ParallelSGD objective", objective, p.MaxIterations); err != nil {
		return 0, err
	}
	errors.Warn(errors.NewConvergenceWarning("ParallelSGD", p.MaxIterations, ""))
	return objective, nil
}

// atomicVector は float64 のビット列を uint64 として保持し、
// ワーカー間でロックなしに読み書きする
type atomicVector []uint64

func newAtomicVector(x []float64) atomicVector {
	v := make(atomicVector, len(x))
	for i, value := range x {
		v[i] = math.Float64bits(value)
	}
	return v
}

func (v atomicVector) load(dst []float64) {
	for i := range v {
		dst[i] = math.Float64frombits(atomic.LoadUint64(&v[i]))
	}
}

func (v atomicVector) add(i int, delta float64) {
	for {
		old := atomic.LoadUint64(&v[i])
		updated := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(&v[i], old, updated) {
			return
		}
	}
}
