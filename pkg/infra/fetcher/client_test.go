package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/toaaa/apparatus-dl/pkg/domain/types"
	"github.com/toaaa/apparatus-dl/pkg/infra/fetcher"
)

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{
			name:       "successful download",
			statusCode: http.StatusOK,
			body:       "fake zip content",
		},
		{
			name:       "404 not found",
			statusCode: http.StatusNotFound,
			body:       "not found",
			wantErr:    true,
		},
		{
			name:       "500 server error",
			statusCode: http.StatusInternalServerError,
			body:       "server error",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gt.Value(t, r.Header.Get("User-Agent")).Equal("apparatus-test")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			dest := filepath.Join(t.TempDir(), "archive.zip")
			client := fetcher.NewClient(fetcher.WithUserAgent("apparatus-test"))

			n, err := client.Fetch(context.Background(), server.URL+"/latest/a.zip", dest)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, types.HasKind(err, types.ErrTagHTTPStatus))

				var statusErr *types.StatusError
				gt.True(t, errors.As(err, &statusErr))
				gt.Value(t, statusErr.Code).Equal(tt.statusCode)

				// Nothing is written for a rejected download
				_, statErr := os.Stat(dest)
				gt.True(t, os.IsNotExist(statErr))
				return
			}

			gt.NoError(t, err)
			gt.Value(t, n).Equal(int64(len(tt.body)))

			content, err := os.ReadFile(dest)
			gt.NoError(t, err)
			gt.Value(t, string(content)).Equal(tt.body)
		})
	}
}

func TestClient_Fetch_StatusKeepsExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	gt.NoError(t, os.WriteFile(dest, []byte("previous"), 0644))

	_, err := fetcher.NewClient().Fetch(context.Background(), server.URL, dest)
	gt.Error(t, err)

	content, err := os.ReadFile(dest)
	gt.NoError(t, err)
	gt.Value(t, string(content)).Equal("previous")
}

func TestClient_Fetch_Twice(t *testing.T) {
	bodies := []string{"first download", "second"}
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bodies[calls]))
		calls++
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "archive.zip")
	client := fetcher.NewClient()

	for range bodies {
		_, err := client.Fetch(context.Background(), server.URL, dest)
		gt.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.Value(t, len(entries)).Equal(1)

	content, err := os.ReadFile(dest)
	gt.NoError(t, err)
	gt.Value(t, string(content)).Equal("second")
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	_, err := fetcher.NewClient().Fetch(context.Background(), url, dest)

	gt.Error(t, err)
	gt.True(t, types.HasKind(err, types.ErrTagNetwork))
	_, statErr := os.Stat(dest)
	gt.True(t, os.IsNotExist(statErr))
}

func TestClient_Fetch_UnwritableDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing", "archive.zip")
	_, err := fetcher.NewClient().Fetch(context.Background(), server.URL, dest)

	gt.Error(t, err)
	gt.True(t, types.HasKind(err, types.ErrTagIO))
}

func TestClient_Fetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.NewClient().Fetch(ctx, server.URL, filepath.Join(t.TempDir(), "a.zip"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.Canceled))
}
