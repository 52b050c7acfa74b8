package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/interfaces"
	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

type installUseCase struct {
	fetcher   interfaces.Fetcher
	extractor interfaces.Extractor
	reporter  interfaces.Reporter
}

type nopReporter struct{}

func (nopReporter) Overwriting(string)               {}
func (nopReporter) Downloaded(string, string, int64) {}

// InstallOption is a functional option for the install use case
type InstallOption func(*installUseCase)

// WithReporter sets where human-facing progress is sent
func WithReporter(reporter interfaces.Reporter) InstallOption {
	return func(uc *installUseCase) {
		uc.reporter = reporter
	}
}

// NewInstall creates a new instance of InstallUseCase
func NewInstall(fetcher interfaces.Fetcher, extractor interfaces.Extractor, opts ...InstallOption) interfaces.InstallUseCase {
	uc := &installUseCase{
		fetcher:   fetcher,
		extractor: extractor,
		reporter:  nopReporter{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Install removes any earlier archive at req.Destination, downloads req.URL there and
// extracts it into the archive's directory. The first failing step aborts the rest.
func (uc *installUseCase) Install(ctx context.Context, req *model.DownloadRequest) (*model.InstallResult, error) {
	logger := ctxlog.From(ctx)

	logger.Info("Processing archive download",
		"url", req.URL,
		"destination", req.Destination,
	)

	targetDir := filepath.Dir(req.Destination)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create destination directory",
			goerr.V("dir", targetDir),
			goerr.T(types.ErrTagIO))
	}

	overwrote, err := uc.removeExisting(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	size, err := uc.fetcher.Fetch(ctx, req.URL, req.Destination)
	if err != nil {
		logger.Debug("Download step failed",
			"error", err,
			"url", req.URL,
		)
		return nil, goerr.Wrap(err, "failed to download from "+req.URL)
	}
	uc.reporter.Downloaded(req.URL, req.Destination, size)

	logger.Info("Downloaded archive",
		"size_bytes", size,
		"destination", req.Destination,
	)

	job := &model.ExtractionJob{
		Archive:   req.Destination,
		TargetDir: targetDir,
	}
	extracted, err := uc.extractor.Extract(ctx, job)
	if err != nil {
		logger.Debug("Extraction step failed",
			"error", err,
			"archive", job.Archive,
		)
		return nil, goerr.Wrap(err, "failed to extract "+job.Archive)
	}

	logger.Info("Extracted archive",
		"target_dir", extracted.TargetDir,
		"file_count", len(extracted.Files),
		"total_size_bytes", extracted.Size,
		"archive_removed", extracted.ArchiveRemoved,
	)

	return &model.InstallResult{
		Request:    *req,
		Downloaded: size,
		Overwrote:  overwrote,
		Extract:    extracted,
	}, nil
}

// removeExisting deletes a file left by an earlier run so the download starts clean
func (uc *installUseCase) removeExisting(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to inspect destination",
			goerr.V("path", path),
			goerr.T(types.ErrTagIO))
	}
	if info.IsDir() {
		return false, goerr.New("destination is a directory",
			goerr.V("path", path),
			goerr.T(types.ErrTagPath))
	}

	uc.reporter.Overwriting(path)
	if err := os.Remove(path); err != nil {
		return false, goerr.Wrap(err, "failed to remove existing archive",
			goerr.V("path", path),
			goerr.T(types.ErrTagIO))
	}

	ctxlog.From(ctx).Debug("Removed existing archive", "path", path)
	return true, nil
}
