package config

import "github.com/urfave/cli/v3"

// Download holds download target configuration
type Download struct {
	Path    string
	Version string
	DryRun  bool
}

// Flags returns CLI flags for download configuration
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "path",
			Usage:       "Directory the archive is downloaded to and extracted into (default: current directory)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("APPARATUS_PATH"),
		},
		&cli.StringFlag{
			Name:        "download-version",
			Usage:       "Version to download (e.g. 1.0), or \"latest\"; any single path segment is accepted",
			Value:       "latest",
			Destination: &c.Version,
			Sources:     cli.EnvVars("APPARATUS_DOWNLOAD_VERSION"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the resolved URL and destination without downloading",
			Destination: &c.DryRun,
		},
	}
}
