package interfaces

import (
	"context"

	"github.com/toaaa/apparatus-dl/pkg/domain/model"
)

// InstallUseCase defines the download-then-extract pipeline
type InstallUseCase interface {
	// Install downloads req.URL to req.Destination and extracts it next to the archive
	Install(ctx context.Context, req *model.DownloadRequest) (*model.InstallResult, error)
}
