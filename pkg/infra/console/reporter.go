package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

const prefix = "[apparatus]"

var (
	notice  = color.New(color.FgYellow)
	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
	dim     = color.New(color.Faint)
)

// Reporter prints human-readable status lines. Output is informational only.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out, or os.Stdout when out is nil
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

// Resolved prints the download plan
func (r *Reporter) Resolved(req *model.DownloadRequest) {
	fmt.Fprintf(r.out, "%s Downloading: %s\n", prefix, req.URL)
	fmt.Fprintf(r.out, "%s Destination: %s\n", prefix, req.Destination)
}

// Overwriting announces that an earlier archive is about to be replaced
func (r *Reporter) Overwriting(path string) {
	notice.Fprintf(r.out, "%s %s already exists, overwriting...\n", prefix, path)
}

// Downloaded reports a finished download
func (r *Reporter) Downloaded(url, path string, size int64) {
	fmt.Fprintf(r.out, "%s Downloaded %s (%s)\n", prefix, path, FormatBytes(size))
}

// EntryExtracted prints one line per archive entry
func (r *Reporter) EntryExtracted(name string, isDir bool) {
	if isDir {
		name += "/"
	}
	dim.Fprintf(r.out, "%s   extracting %s\n", prefix, name)
}

// Completed prints the final summary
func (r *Reporter) Completed(result *model.InstallResult) {
	ext := result.Extract
	success.Fprintf(r.out, "%s Extracted %d files (%s) into %s\n",
		prefix, len(ext.Files), FormatBytes(ext.Size), ext.TargetDir)
	if !ext.ArchiveRemoved {
		notice.Fprintf(r.out, "%s Archive %s was left in place\n", prefix, result.Request.Destination)
	}
}

// Failed prints the top-level error report
func (r *Reporter) Failed(err error) {
	failure.Fprintf(r.out, "%s Failed (%s): %v\n", prefix, types.KindOf(err), err)
}

// FormatBytes formats bytes as a human-readable string
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
