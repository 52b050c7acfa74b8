package model

// DownloadRequest is a resolved archive download
type DownloadRequest struct {
	URL         string // Archive URL
	Destination string // Local path the archive is written to
}

// ExtractionJob describes one archive extraction
type ExtractionJob struct {
	Archive   string // Path to the downloaded archive
	TargetDir string // Directory entries are recreated under
}

// ExtractResult represents the result of a ZIP extraction
type ExtractResult struct {
	TargetDir      string   // Absolute extraction root
	Files          []string // Extracted file entries, slash separated and relative to TargetDir
	Dirs           []string // Directory entries created
	Size           int64    // Total uncompressed size in bytes
	ArchiveRemoved bool     // Whether the source archive was deleted afterwards
}

// InstallResult represents the result of a download followed by extraction
type InstallResult struct {
	Request    DownloadRequest
	Downloaded int64 // Archive size in bytes
	Overwrote  bool  // Whether a previous archive was removed first
	Extract    *ExtractResult
}
