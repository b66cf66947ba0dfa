package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/api"
	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
	"git.home.luguber.info/inful/pagebuilder/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string        `help:"Listen address (overrides server.addr)"`
	Every time.Duration `help:"Rebuild all pages on this interval (overrides server.rebuild_interval)"`
	Cron  string        `help:"Rebuild all pages on this cron schedule (overrides server.rebuild_cron)"`
}

func (s *ServeCmd) Run(root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s.applyOverrides(cfg)

	reg := metrics.NewRegistry()
	a, err := newApp(cfg, reg)
	if err != nil {
		return err
	}

	// Pages are re-read per trigger so config edits apply without a restart.
	pages := func() (page.List, error) {
		fresh, err := config.Load(root.Config)
		if err != nil {
			return nil, err
		}
		return fresh.Pages, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := scheduleRebuilds(cfg.Server, a, pages)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	srv := api.NewServer(api.Options{
		Addr:     cfg.Server.Addr,
		Pages:    pages,
		Hooks:    a.hooks,
		Registry: reg,
		Logger:   slog.Default(),
	}, a.service)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	slog.Info("Listening", slog.String("addr", cfg.Server.Addr))

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *ServeCmd) applyOverrides(cfg *config.Config) {
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Every > 0 {
		cfg.Server.RebuildInterval = s.Every
	}
	if s.Cron != "" {
		cfg.Server.RebuildCron = s.Cron
	}
}

// scheduleRebuilds registers the periodic full rebuilds. It returns nil when
// neither an interval nor a cron expression is configured.
func scheduleRebuilds(sc config.ServerConfig, a *app, pages func() (page.List, error)) (*scheduler.Scheduler, error) {
	if sc.RebuildInterval <= 0 && sc.RebuildCron == "" {
		return nil, nil
	}
	sched, err := scheduler.NewScheduler()
	if err != nil {
		return nil, err
	}
	rebuild := func(ctx context.Context) {
		list, err := pages()
		if err != nil {
			slog.Error("Scheduled rebuild skipped", logfields.Error(err))
			return
		}
		if _, err := a.service.Run(ctx, build.Request{Pages: list, Hooks: a.hooks}); err != nil {
			slog.Error("Scheduled rebuild failed", logfields.Error(err))
		}
	}
	if sc.RebuildInterval > 0 {
		if _, err := sched.ScheduleEvery("rebuild-interval", sc.RebuildInterval, rebuild); err != nil {
			_ = sched.Stop()
			return nil, err
		}
	}
	if sc.RebuildCron != "" {
		if _, err := sched.ScheduleCron("rebuild-cron", sc.RebuildCron, rebuild); err != nil {
			_ = sched.Stop()
			return nil, err
		}
	}
	return sched, nil
}
