package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/toaaa/apparatus-dl/pkg/cli/config"
	"github.com/toaaa/apparatus-dl/pkg/infra/archive"
	"github.com/toaaa/apparatus-dl/pkg/infra/console"
	"github.com/toaaa/apparatus-dl/pkg/infra/fetcher"
	"github.com/toaaa/apparatus-dl/pkg/usecase"
)

func runFetch(ctx context.Context, sourceCfg *config.Source, downloadCfg *config.Download, reporter *console.Reporter) error {
	logger := ctxlog.From(ctx)

	src, err := sourceCfg.Load()
	if err != nil {
		return err
	}

	req, err := usecase.ResolveRequest(src, downloadCfg.Version, downloadCfg.Path)
	if err != nil {
		return err
	}
	if !src.IsSemanticVersion(downloadCfg.Version) {
		logger.Warn("Download version is not a semantic version, using it verbatim",
			"version", downloadCfg.Version,
		)
	}

	logger.Info("Resolved download",
		"url", req.URL,
		"destination", req.Destination,
		"version", downloadCfg.Version,
	)
	reporter.Resolved(req)

	if downloadCfg.DryRun {
		logger.Info("Dry run, skipping download")
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	installUC := usecase.NewInstall(
		fetcher.NewClient(fetcher.WithUserAgent(src.UserAgent)),
		archive.NewExtractor(archive.WithEntryHook(reporter.EntryExtracted)),
		usecase.WithReporter(reporter),
	)

	result, err := installUC.Install(ctx, req)
	if err != nil {
		return err
	}

	reporter.Completed(result)
	return nil
}
