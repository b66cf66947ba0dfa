package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Pages string `short:"p" help:"YAML or JSON page list to render instead of the configured pages" type:"existingfile"`
}

func (b *BuildCmd) Run(root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	pages := cfg.Pages
	if b.Pages != "" {
		if pages, err = config.LoadPages(b.Pages); err != nil {
			return err
		}
	}

	a, err := newApp(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := a.service.Run(ctx, build.Request{Pages: pages, Hooks: a.hooks})
	if err != nil {
		return err
	}
	slog.Info("Build completed",
		logfields.BuildID(res.BuildID),
		logfields.Path(res.OutputPath),
		slog.Int("pages", res.Pages),
		slog.Int("rendered", res.FilesRendered),
		slog.Int("skipped", res.FilesSkipped),
		slog.Int("failed", res.FilesFailed),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return nil
}
