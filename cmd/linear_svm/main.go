package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"

	"github.com/YuminosukeSato/linearsvm/cli"
	"github.com/YuminosukeSato/linearsvm/pkg/errors"
	"github.com/YuminosukeSato/linearsvm/pkg/log"
)

func main() {
	var opts cli.Options
	arg.MustParse(&opts)

	logger := log.NewZerologLogger(os.Stderr, opts.LogFormat, opts.LogLevel())
	errors.SetZerologWarnFunc(log.WarnFunc(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &cli.Runner{Logger: logger, ProgressOutput: os.Stderr}
	if err := runner.Run(ctx, &opts); err != nil {
		logger.Error("linear_svm failed", err)
		stop()
		os.Exit(1)
	}
}
