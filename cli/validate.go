package cli

import (
	"github.com/YuminosukeSato/linearsvm/pkg/errors"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
	"github.com/YuminosukeSato/linearsvm/plotting"
)

// ErrNoInput は --training と --input_model のどちらも指定されていない場合のエラーです。
var ErrNoInput = errors.New("at least one of '--training' or '--input_model' must be specified")

// Validate はオプションを検証します。致命的な問題はエラーとして返し、
// 無視されるオプションなどは errors.Warn で通知します。
func (o *Options) Validate() error {
	if o.Training == "" && o.InputModel == "" {
		return errors.WithStack(ErrNoInput)
	}

	if o.OutputModel == "" && o.Predictions == "" && o.Score == "" {
		errors.Warn(errors.New("none of '--output_model', '--predictions', or '--score' is specified; no output will be saved"))
	}

	if o.Test == "" {
		for _, param := range []struct {
			name, value string
		}{
			{"predictions", o.Predictions},
			{"score", o.Score},
			{"test_labels", o.TestLabels},
		} {
			if param.value != "" {
				errors.Warn(errors.NewIgnoredParamWarning(param.name, "'--test' is not specified"))
			}
		}
	}

	if o.MaxIterations < 0 {
		return errors.NewValidationError("max_iterations", "max_iterations must be positive or zero", o.MaxIterations)
	}
	if o.Tolerance < 0 {
		return errors.NewValidationError("tolerance", "tolerance must be positive or zero", o.Tolerance)
	}
	if o.Optimizer != OptimizerLBFGS && o.Optimizer != OptimizerPSGD {
		return errors.NewValidationError("optimizer", "unknown optimizer", o.Optimizer)
	}
	if o.Lambda < 0 {
		return errors.NewValidationError("lambda", "lambda must be positive or zero", o.Lambda)
	}
	if o.NumberOfClasses < 0 {
		return errors.NewValidationError("number_of_classes",
			"number of classes must be greater than or equal to 0 (equal to 0 in case of unspecified.)", o.NumberOfClasses)
	}
	if o.Delta < 0 {
		return errors.NewValidationError("delta", "Margin of difference between correct class and other classes", o.Delta)
	}
	if o.StepSizeValue() < 0 {
		return errors.NewValidationError("step_size", "step size must be positive", o.StepSizeValue())
	}

	if o.Optimizer != OptimizerPSGD {
		if o.StepSize != nil {
			errors.Warn(errors.NewIgnoredParamWarning("step_size", "optimizer type is not 'psgd'"))
		}
		if o.Shuffle {
			errors.Warn(errors.NewIgnoredParamWarning("shuffle", "optimizer type is not 'psgd'"))
		}
	}

	if o.LogFormat != log.FormatConsole && o.LogFormat != log.FormatJSON {
		return errors.NewValidationError("log_format", "log format must be 'console' or 'json'", o.LogFormat)
	}
	if o.ObjectivePlot != "" {
		if o.Training == "" {
			errors.Warn(errors.NewIgnoredParamWarning("objective_plot", "'--training' is not specified"))
		} else if !plotting.SupportedExtension(o.ObjectivePlot) {
			return errors.NewValidationError("objective_plot", "plot file must end in .png, .svg, .pdf, .eps, .jpg, .tif or .tex", o.ObjectivePlot)
		}
	}
	return nil
}
