package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/toaaa/apparatus-dl/pkg/cli/config"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
	"github.com/toaaa/apparatus-dl/pkg/infra/console"
	"github.com/urfave/cli/v3"
)

type options struct {
	out    io.Writer
	errOut io.Writer
}

// Option is a functional option for Run
type Option func(*options)

// WithOutput sets where status lines are written
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithErrorOutput sets where the final error report is written
func WithErrorOutput(w io.Writer) Option {
	return func(o *options) {
		o.errOut = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	o := &options{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	var (
		loggerCfg   config.Logger
		sourceCfg   config.Source
		downloadCfg config.Download
		logger      *slog.Logger
	)

	flags := append(loggerCfg.Flags(), sourceCfg.Flags()...)
	flags = append(flags, downloadCfg.Flags()...)

	reporter := console.NewReporter(o.out)

	app := &cli.Command{
		Name:    "apparatus-dl",
		Usage:   "Download and extract a Project Apparatus release",
		Version: types.Version,
		Flags:   flags,
		Writer:  o.out,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			logger = logger.With("run_id", uuid.NewString())
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runFetch(ctx, &sourceCfg, &downloadCfg, reporter)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("CLI execution failed",
			slog.Any("error", err),
			slog.String("kind", types.KindOf(err)),
		)
		console.NewReporter(o.errOut).Failed(err)
		return err
	}

	return nil
}
