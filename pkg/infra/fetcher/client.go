package fetcher

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/interfaces"
	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

type client struct {
	httpClient *http.Client
	userAgent  string
}

// Option is a functional option for the HTTP fetcher
type Option func(*client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) Option {
	return func(c *client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a new HTTP archive fetcher
func NewClient(opts ...Option) interfaces.Fetcher {
	c := &client{
		httpClient: http.DefaultClient,
		userAgent:  model.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads url into destination, streaming the body to disk
func (c *client) Fetch(ctx context.Context, url, destination string) (int64, error) {
	logger := ctxlog.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create download request",
			goerr.V("url", url),
			goerr.T(types.ErrTagInvalidArgument))
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to send download request",
			goerr.V("url", url),
			goerr.T(types.ErrTagNetwork))
	}
	defer resp.Body.Close()

	logger.Debug("Received download response",
		"url", url,
		"status", resp.StatusCode,
		"content_length", resp.ContentLength,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, goerr.Wrap(&types.StatusError{Code: resp.StatusCode, URL: url}, "download rejected by server",
			goerr.V("status", resp.Status),
			goerr.T(types.ErrTagHTTPStatus))
	}

	file, err := os.Create(destination)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create archive file",
			goerr.V("path", destination),
			goerr.T(types.ErrTagIO))
	}

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		_ = file.Close()
		// os.File reports write failures as *fs.PathError; anything else came from the body
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return written, goerr.Wrap(err, "failed to write archive file",
				goerr.V("path", destination),
				goerr.T(types.ErrTagIO))
		}
		return written, goerr.Wrap(err, "failed to read response body",
			goerr.V("url", url),
			goerr.V("written", written),
			goerr.T(types.ErrTagNetwork))
	}

	if err := file.Close(); err != nil {
		return written, goerr.Wrap(err, "failed to close archive file",
			goerr.V("path", destination),
			goerr.T(types.ErrTagIO))
	}

	return written, nil
}
