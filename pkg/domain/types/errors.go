package types

import (
	"errors"
	"fmt"
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// Error kinds attached to every error returned by the download pipeline
var (
	ErrTagNetwork         = goerr.NewTag("network")
	ErrTagHTTPStatus      = goerr.NewTag("http_status")
	ErrTagInvalidArchive  = goerr.NewTag("invalid_archive")
	ErrTagIO              = goerr.NewTag("io")
	ErrTagPath            = goerr.NewTag("path")
	ErrTagInvalidArgument = goerr.NewTag("invalid_argument")
)

var kinds = []fmt.Stringer{
	ErrTagNetwork,
	ErrTagHTTPStatus,
	ErrTagInvalidArchive,
	ErrTagIO,
	ErrTagPath,
	ErrTagInvalidArgument,
}

// HasKind reports whether any error in err's chain carries tag
func HasKind(err error, tag fmt.Stringer) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if slices.Contains(goerr.Tags(e), tag.String()) {
			return true
		}
	}
	return false
}

// KindOf returns the name of the innermost error kind found in err's chain,
// or "unknown" when err carries none.
func KindOf(err error) string {
	kind := "unknown"
	for e := err; e != nil; e = errors.Unwrap(e) {
		tags := goerr.Tags(e)
		for _, k := range kinds {
			if slices.Contains(tags, k.String()) {
				kind = k.String()
			}
		}
	}
	return kind
}

// StatusError is returned when the remote host answers with a non-success status
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.Code, e.URL)
}
