package optimizer

import (
	"context"

	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
)

// LBFGS は gonum/optimize の L-BFGS による準ニュートン最適化です。
type LBFGS struct {
	// MaxIterations は外側のイテレーションの上限（0 は無制限）
	MaxIterations int
	// MinGradientNorm は勾配ノルムの停止閾値（0 は gonum の既定値 1e-12）
	MinGradientNorm float64
	// Memory は保持する過去の更新の数（0 は gonum の既定値）
	Memory int

	Recorder *Recorder
	Progress Progress
	Logger   log.Logger
}

// Optimize implements Optimizer.
//
// gonum がラインサーチの失敗などで止まった場合でも、それまでに得られた最良点を
// x に書き込み ConvergenceWarning を発生させます。
func (l *LBFGS) Optimize(ctx context.Context, fn Function, x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, errors.NewValueError("LBFGS.Optimize", "empty parameter vector")
	}

	problem := optimize.Problem{
		Func: fn.Evaluate,
		Grad: func(grad, at []float64) {
			fn.Gradient(at, grad)
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: l.MinGradientNorm,
		MajorIterations:   l.MaxIterations,
		Recorder:          &iterationRecorder{ctx: ctx, opt: l},
	}

	if l.Progress != nil {
		l.Progress.Start(l.MaxIterations)
		defer l.Progress.Finish()
	}

	result, err := optimize.Minimize(problem, x, settings, &optimize.LBFGS{Store: l.Memory})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, errors.Wrap(ctxErr, "L-BFGS optimization cancelled")
	}
	if result == nil || len(result.X) != len(x) {
		if err == nil {
			err = errors.New("optimizer returned no location")
		}
		return 0, errors.Wrap(err, "L-BFGS optimization failed")
	}
	if checkErr := errors.CheckScalar("L-BFGS objective", result.F, result.MajorIterations); checkErr != nil {
		return 0, checkErr
	}

	copy(x, result.X)

	switch {
	case err != nil:
		errors.Warn(errors.NewConvergenceWarning("L-BFGS", result.MajorIterations, err.Error()))
	case result.Status == optimize.IterationLimit:
		errors.Warn(errors.NewConvergenceWarning("L-BFGS", result.MajorIterations, ""))
	}

	if l.Logger != nil {
		l.Logger.Debug("L-BFGS finished",
			log.IterationKey, result.MajorIterations,
			log.ObjectiveKey, result.F,
			"status", result.Status.String(),
		)
	}
	return result.F, nil
}

// iterationRecorder は gonum の Recorder として各メジャーイテレーションを受け取る
type iterationRecorder struct {
	ctx context.Context
	opt *LBFGS
}

func (r *iterationRecorder) Init() error {
	return r.ctx.Err()
}

func (r *iterationRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if op != optimize.MajorIteration {
		return nil
	}
	observe(r.opt.Recorder, r.opt.Progress, loc.F)
	if r.opt.Logger != nil {
		r.opt.Logger.Debug("L-BFGS iteration",
			log.IterationKey, stats.MajorIterations,
			log.ObjectiveKey, loc.F,
		)
	}
	return nil
}
