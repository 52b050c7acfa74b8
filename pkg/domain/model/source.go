package model

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

const (
	// DefaultBaseURL is the host serving Project Apparatus archives
	DefaultBaseURL = "https://pa.toaaa.de"
	// DefaultArchiveName is the archive base name shared by every release
	DefaultArchiveName = "Project-Apparatus"
	// DefaultLatestTag selects the rolling latest archive instead of a versioned one
	DefaultLatestTag = "latest"
	// DefaultUserAgent is the User-Agent header sent with downloads
	DefaultUserAgent = "apparatus-dl"
)

// Source describes where archives are published
type Source struct {
	BaseURL     string `toml:"base_url"`
	ArchiveName string `toml:"archive_name"`
	LatestTag   string `toml:"latest_tag"`
	UserAgent   string `toml:"user_agent"`
}

// DefaultSource returns the built-in archive source
func DefaultSource() Source {
	return Source{
		BaseURL:     DefaultBaseURL,
		ArchiveName: DefaultArchiveName,
		LatestTag:   DefaultLatestTag,
		UserAgent:   DefaultUserAgent,
	}
}

// Validate checks that the source can produce download URLs
func (s Source) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return goerr.Wrap(err, "invalid base URL",
			goerr.V("base_url", s.BaseURL),
			goerr.T(types.ErrTagInvalidArgument))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return goerr.New("base URL must use http or https",
			goerr.V("base_url", s.BaseURL),
			goerr.T(types.ErrTagInvalidArgument))
	}
	if u.Host == "" {
		return goerr.New("base URL has no host",
			goerr.V("base_url", s.BaseURL),
			goerr.T(types.ErrTagInvalidArgument))
	}
	if s.ArchiveName == "" || strings.ContainsAny(s.ArchiveName, `/\`) {
		return goerr.New("archive name must be a single path segment",
			goerr.V("archive_name", s.ArchiveName),
			goerr.T(types.ErrTagInvalidArgument))
	}
	if s.LatestTag == "" || strings.ContainsAny(s.LatestTag, `/\`) {
		return goerr.New("latest tag must be a single path segment",
			goerr.V("latest_tag", s.LatestTag),
			goerr.T(types.ErrTagInvalidArgument))
	}
	return nil
}

// IsLatest reports whether version selects the rolling latest archive.
// An empty version means latest.
func (s Source) IsLatest(version string) bool {
	return version == "" || version == s.LatestTag
}

// ArchiveURL builds the download URL for version.
//
//	latest:    <base>/latest/<name>-latest.zip
//	versioned: <base>/<version>/<name>.zip
//
// The version is an opaque identifier used verbatim in the URL. It only has to
// be a single path segment.
func (s Source) ArchiveURL(version string) (string, error) {
	base := strings.TrimRight(s.BaseURL, "/")

	if s.IsLatest(version) {
		return base + "/" + s.LatestTag + "/" + s.ArchiveName + "-" + s.LatestTag + ".zip", nil
	}

	if version == "." || version == ".." || strings.ContainsAny(version, `/\`) ||
		strings.ContainsFunc(version, unicode.IsControl) {
		return "", goerr.New("download version must be a single path segment",
			goerr.V("version", version),
			goerr.T(types.ErrTagInvalidArgument))
	}

	return base + "/" + url.PathEscape(version) + "/" + s.ArchiveName + ".zip", nil
}

// IsSemanticVersion reports whether version is the latest tag or parses as a
// semantic version. Other identifiers are still downloadable.
func (s Source) IsSemanticVersion(version string) bool {
	if s.IsLatest(version) {
		return true
	}
	_, err := semver.NewVersion(version)
	return err == nil
}
