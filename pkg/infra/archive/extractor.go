package archive

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/interfaces"
	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

// EntryHook is called after each archive entry has been written
type EntryHook func(name string, isDir bool)

type extractor struct {
	onEntry EntryHook
}

// Option is a functional option for the ZIP extractor
type Option func(*extractor)

// WithEntryHook sets a callback invoked once per extracted entry
func WithEntryHook(hook EntryHook) Option {
	return func(x *extractor) {
		x.onEntry = hook
	}
}

// NewExtractor creates a ZIP extractor
func NewExtractor(opts ...Option) interfaces.Extractor {
	x := &extractor{
		onEntry: func(string, bool) {},
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract recreates every entry of job.Archive under job.TargetDir in stored order,
// then deletes the archive. A failed deletion is logged and does not fail the extraction.
func (x *extractor) Extract(ctx context.Context, job *model.ExtractionJob) (*model.ExtractResult, error) {
	logger := ctxlog.From(ctx)

	root, err := filepath.Abs(job.TargetDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve target directory",
			goerr.V("target_dir", job.TargetDir),
			goerr.T(types.ErrTagPath))
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create target directory",
			goerr.V("target_dir", root),
			goerr.T(types.ErrTagIO))
	}

	archivePath, err := filepath.Abs(job.Archive)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve archive path",
			goerr.V("archive", job.Archive),
			goerr.T(types.ErrTagPath))
	}

	result, err := x.extractEntries(ctx, archivePath, root)
	if err != nil {
		return nil, err
	}

	logger.Debug("Extracted archive",
		"archive", job.Archive,
		"target_dir", root,
		"file_count", len(result.Files),
		"dir_count", len(result.Dirs),
		"total_size_bytes", result.Size,
	)

	if _, err := os.Stat(job.Archive); err == nil {
		if err := os.Remove(job.Archive); err != nil {
			logger.Warn("Failed to remove archive after extraction",
				"archive", job.Archive,
				"error", err,
			)
		} else {
			result.ArchiveRemoved = true
		}
	}

	return result, nil
}

func (x *extractor) extractEntries(ctx context.Context, archivePath, root string) (*model.ExtractResult, error) {
	zipReader, err := zip.OpenReader(archivePath)
	// Insecure names are sanitized per entry below
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zipReader != nil) {
		return nil, goerr.Wrap(err, "failed to open zip archive",
			goerr.V("archive", archivePath),
			goerr.T(types.ErrTagInvalidArchive))
	}
	defer zipReader.Close()

	result := &model.ExtractResult{
		TargetDir: root,
	}

	for _, file := range zipReader.File {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "extraction cancelled", goerr.V("entry", file.Name))
		}

		rel, isDir, err := extractFile(file, root, archivePath)
		if err != nil {
			return nil, err
		}
		if rel == "" {
			continue
		}

		if isDir {
			result.Dirs = append(result.Dirs, rel)
		} else {
			result.Files = append(result.Files, rel)
			result.Size += int64(file.UncompressedSize64)
		}
		x.onEntry(rel, isDir)
	}

	return result, nil
}

// extractFile writes a single entry below root and returns its sanitized relative name.
// An entry landing on the archive being read is rejected.
func extractFile(file *zip.File, root, archivePath string) (string, bool, error) {
	destPath, rel, err := resolvePath(root, file.Name)
	if err != nil {
		return "", false, err
	}
	if destPath == archivePath {
		return "", false, goerr.New("entry would overwrite the archive being extracted",
			goerr.V("entry", file.Name),
			goerr.V("archive", archivePath),
			goerr.T(types.ErrTagPath))
	}

	isDir := file.FileInfo().IsDir()
	if isDir {
		if rel == "" {
			return "", true, nil
		}
		if err := os.MkdirAll(destPath, 0755); err != nil {
			return "", true, goerr.Wrap(err, "failed to create directory",
				goerr.V("path", destPath),
				goerr.T(types.ErrTagIO))
		}
		return rel, true, nil
	}

	if rel == "" {
		return "", false, goerr.New("file entry has no usable name",
			goerr.V("entry", file.Name),
			goerr.T(types.ErrTagPath))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", false, goerr.Wrap(err, "failed to create parent directories",
			goerr.V("path", filepath.Dir(destPath)),
			goerr.T(types.ErrTagIO))
	}

	rc, err := file.Open()
	if err != nil {
		return "", false, goerr.Wrap(err, "failed to open entry in zip",
			goerr.V("entry", file.Name),
			goerr.T(types.ErrTagInvalidArchive))
	}
	defer rc.Close()

	if err := makeWritable(destPath); err != nil {
		return "", false, err
	}

	// Stored permissions are ignored so a later run can always truncate the file
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", false, goerr.Wrap(err, "failed to create destination file",
			goerr.V("path", destPath),
			goerr.T(types.ErrTagIO))
	}

	if _, err := io.Copy(destFile, rc); err != nil {
		_ = destFile.Close()
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return "", false, goerr.Wrap(err, "failed to write destination file",
				goerr.V("path", destPath),
				goerr.T(types.ErrTagIO))
		}
		return "", false, goerr.Wrap(err, "failed to decompress entry",
			goerr.V("entry", file.Name),
			goerr.T(types.ErrTagInvalidArchive))
	}

	if err := destFile.Close(); err != nil {
		return "", false, goerr.Wrap(err, "failed to close destination file",
			goerr.V("path", destPath),
			goerr.T(types.ErrTagIO))
	}

	return rel, false, nil
}

// makeWritable restores owner write permission on a read-only file left by an earlier run
func makeWritable(path string) error {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0200 != 0 {
		return nil
	}
	if err := os.Chmod(path, info.Mode().Perm()|0200); err != nil {
		return goerr.Wrap(err, "failed to make existing file writable",
			goerr.V("path", path),
			goerr.T(types.ErrTagIO))
	}
	return nil
}
