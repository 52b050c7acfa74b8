package usecase_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
	"github.com/toaaa/apparatus-dl/pkg/usecase"
)

func TestResolveRequest(t *testing.T) {
	t.Run("versioned download into explicit path", func(t *testing.T) {
		req, err := usecase.ResolveRequest(model.DefaultSource(), "1.0", "/tmp/out")
		gt.NoError(t, err)
		gt.Value(t, req.URL).Equal("https://pa.toaaa.de/1.0/Project-Apparatus.zip")
		gt.Value(t, req.Destination).Equal(filepath.Join("/tmp/out", "Project-Apparatus.zip"))
	})

	t.Run("latest download into working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		gt.NoError(t, err)

		req, err := usecase.ResolveRequest(model.DefaultSource(), "", "")
		gt.NoError(t, err)
		gt.Value(t, req.URL).Equal("https://pa.toaaa.de/latest/Project-Apparatus-latest.zip")
		gt.Value(t, req.Destination).Equal(filepath.Join(wd, "Project-Apparatus-latest.zip"))
	})

	t.Run("relative path is made absolute", func(t *testing.T) {
		wd, err := os.Getwd()
		gt.NoError(t, err)

		req, err := usecase.ResolveRequest(model.DefaultSource(), "latest", "out")
		gt.NoError(t, err)
		gt.Value(t, req.Destination).Equal(filepath.Join(wd, "out", "Project-Apparatus-latest.zip"))
	})

	t.Run("invalid version", func(t *testing.T) {
		_, err := usecase.ResolveRequest(model.DefaultSource(), "not/a/version", "/tmp/out")
		gt.Error(t, err)
		gt.True(t, types.HasKind(err, types.ErrTagInvalidArgument))
	})

	t.Run("invalid source", func(t *testing.T) {
		src := model.DefaultSource()
		src.BaseURL = "file:///etc"
		_, err := usecase.ResolveRequest(src, "", "/tmp/out")
		gt.Error(t, err)
		gt.True(t, types.HasKind(err, types.ErrTagInvalidArgument))
	})
}
