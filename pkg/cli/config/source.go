package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/model"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Source holds archive source configuration
type Source struct {
	File string
}

// Flags returns CLI flags for archive source configuration
func (c *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "TOML file overriding base_url, archive_name, latest_tag and user_agent",
			Destination: &c.File,
			Sources:     cli.EnvVars("APPARATUS_CONFIG"),
		},
	}
}

// Load returns the built-in source with any fields from the config file applied
func (c *Source) Load() (model.Source, error) {
	src := model.DefaultSource()
	if c.File == "" {
		return src, nil
	}

	f, err := os.Open(c.File)
	if err != nil {
		return src, goerr.Wrap(err, "failed to open config file",
			goerr.V("path", c.File),
			goerr.T(types.ErrTagIO))
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&src); err != nil {
		return src, goerr.Wrap(err, "failed to parse config file",
			goerr.V("path", c.File),
			goerr.T(types.ErrTagInvalidArgument))
	}

	if err := src.Validate(); err != nil {
		return src, goerr.Wrap(err, "invalid config file", goerr.V("path", c.File))
	}

	return src, nil
}
