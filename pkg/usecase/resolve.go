package usecase

import (
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

// ResolveRequest builds the download request for version. The archive is saved under
// dir, which defaults to the current working directory when empty.
func ResolveRequest(src model.Source, version, dir string) (*model.DownloadRequest, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	archiveURL, err := src.ArchiveURL(version)
	if err != nil {
		return nil, err
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get working directory", goerr.T(types.ErrTagPath))
		}
		dir = wd
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve destination directory",
			goerr.V("path", dir),
			goerr.T(types.ErrTagPath))
	}

	u, err := url.Parse(archiveURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse archive URL",
			goerr.V("url", archiveURL),
			goerr.T(types.ErrTagInvalidArgument))
	}

	return &model.DownloadRequest{
		URL:         archiveURL,
		Destination: filepath.Join(absDir, path.Base(u.Path)),
	}, nil
}
