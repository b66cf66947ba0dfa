package commands

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagebuilder/internal/analysis"
	"git.home.luguber.info/inful/pagebuilder/internal/assets"
	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/images"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/minifier"
	"git.home.luguber.info/inful/pagebuilder/internal/render"
	"git.home.luguber.info/inful/pagebuilder/internal/retry"
	"git.home.luguber.info/inful/pagebuilder/internal/templatesource"
)

// app bundles the build service and hook set assembled from a config.
type app struct {
	service *build.Service
	hooks   hooks.Set
}

// newApp wires the build pipeline from cfg. A nil registry disables metrics.
func newApp(cfg *config.Config, reg *prom.Registry) (*app, error) {
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if reg != nil {
		rec = metrics.NewPrometheusRecorder(reg)
	}

	m := minifier.New()
	pipeline := assets.NewPipeline(assets.Options{
		OutputRoot: cfg.Paths.Output,
		Match:      assets.MatchMode(cfg.Assets.Match),
		Workers:    cfg.Assets.Workers,
	}, m, rec)

	engine := render.NewTemplateEngine(render.TemplateOptions{
		LeftDelim:   cfg.Render.LeftDelim,
		RightDelim:  cfg.Render.RightDelim,
		PartialsDir: cfg.Render.PartialsDir,
	})
	renderer := render.NewFileRenderer(render.Options{
		OutputRoot:    cfg.Paths.Output,
		TemplatesRoot: cfg.Paths.Templates,
		Strict:        cfg.Render.Strict,
	}, engine, m, rec)

	deps := build.Dependencies{
		Assets:   pipeline,
		Resolver: render.NewResolver(cfg.Paths.Templates),
		Renderer: renderer,
		Recorder: rec,
	}
	if cfg.TemplatesGit.Enabled() {
		deps.Syncer = templatesource.NewGitSyncer(*cfg.TemplatesGit, cfg.Paths.Templates, retry.FromConfig(cfg.Retry))
	}

	h, err := hookSet(cfg, rec)
	if err != nil {
		return nil, err
	}

	svc := build.NewService(build.Options{
		TemplatesRoot:   cfg.Paths.Templates,
		GlobalAssetsDir: cfg.Paths.GlobalAssets,
		OutputRoot:      cfg.Paths.Output,
		Extension:       cfg.Render.Extension,
	}, deps)
	return &app{service: svc, hooks: h}, nil
}

// hookSet composes the built-in hooks enabled in cfg, in a fixed order:
// logo resolution, file exclusion, analysis, pretty URLs.
func hookSet(cfg *config.Config, rec metrics.Recorder) (hooks.Set, error) {
	var sets []hooks.Set
	if len(cfg.Hooks.LogoFields) > 0 {
		opt := images.NewOptimizer(images.Options{
			CacheDir:  cfg.Images.CacheDir,
			Timeout:   cfg.Images.Timeout,
			MaxBytes:  cfg.Images.MaxBytes,
			UserAgent: cfg.Images.UserAgent,
		}, nil, images.WebPTranscoder{MaxWidth: cfg.Images.MaxWidth}, rec)
		sets = append(sets, images.LogoHooks(opt, cfg.Hooks.LogoFields))
	}
	if len(cfg.Hooks.ExcludeFiles) > 0 {
		ex, err := hooks.ExcludeFiles(cfg.Hooks.ExcludeFiles)
		if err != nil {
			return hooks.Set{}, err
		}
		sets = append(sets, ex)
	}
	if cfg.Hooks.AnalyzeFiles {
		sets = append(sets, analysis.Hooks())
	}
	if cfg.Hooks.PrettyURLs {
		sets = append(sets, hooks.PrettyURLs())
	}
	return hooks.Compose(sets...), nil
}
