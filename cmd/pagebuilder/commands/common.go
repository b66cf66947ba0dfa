// Package commands implements the pagebuilder subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
)

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"pagebuilder.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format: text or json (overrides logging.format)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render all configured pages once"`
	Serve ServeCmd `cmd:"" help:"Serve the HTTP render trigger and optional scheduled rebuilds"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing and installs a logger from the flags
// alone; loadConfig refines it once the config file is known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.setupLogger(nil)
	return nil
}

func (c *CLI) setupLogger(cfg *config.Config) {
	level := string(config.LogLevelInfo)
	format := string(config.LogFormatText)
	if cfg != nil {
		level = string(cfg.Logging.Level)
		format = string(cfg.Logging.Format)
	}
	if c.Verbose {
		level = string(config.LogLevelDebug)
	}
	if c.LogFormat != "" {
		format = string(config.NormalizeLogFormat(c.LogFormat))
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, format))
}

// loadConfig loads the config file and reconfigures logging from it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	c.setupLogger(cfg)
	return cfg, nil
}
