package interfaces

import (
	"context"

	"github.com/toaaa/apparatus-dl/pkg/domain/model"
)

// Fetcher downloads a remote archive to a local file
type Fetcher interface {
	// Fetch streams the body of url into destination and returns the number of bytes written.
	// destination is only created after a success status has been received.
	Fetch(ctx context.Context, url, destination string) (int64, error)
}

// Extractor unpacks a downloaded archive
type Extractor interface {
	// Extract recreates the archive's entries under job.TargetDir and removes job.Archive afterwards
	Extract(ctx context.Context, job *model.ExtractionJob) (*model.ExtractResult, error)
}

// Reporter receives human-facing progress of an install
type Reporter interface {
	Overwriting(path string)
	Downloaded(url, path string, size int64)
}
