package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagebuilder/internal/assets"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/minifier"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
	"git.home.luguber.info/inful/pagebuilder/internal/render"
)

// Options holds the filesystem roots and render settings of a Service.
type Options struct {
	TemplatesRoot   string
	GlobalAssetsDir string
	OutputRoot      string
	// Extension selects template files; default ".html".
	Extension string
}

// Dependencies are the collaborators of a Service. Nil fields get defaults
// built from Options.
type Dependencies struct {
	Assets   AssetCopier
	Resolver FileResolver
	Renderer PageRenderer
	Syncer   Syncer
	Recorder metrics.Recorder
}

// Service runs builds. It is safe for concurrent use; runs are serialized.
type Service struct {
	mu       sync.Mutex
	opts     Options
	assets   AssetCopier
	resolver FileResolver
	renderer PageRenderer
	syncer   Syncer
	recorder metrics.Recorder
}

// NewService creates a Service.
func NewService(opts Options, deps Dependencies) *Service {
	if opts.Extension == "" {
		opts.Extension = render.DefaultExtension
	}
	rec := metrics.OrNoop(deps.Recorder)
	s := &Service{
		opts:     opts,
		assets:   deps.Assets,
		resolver: deps.Resolver,
		renderer: deps.Renderer,
		syncer:   deps.Syncer,
		recorder: rec,
	}
	if s.assets == nil {
		s.assets = assets.NewPipeline(assets.Options{OutputRoot: opts.OutputRoot}, minifier.New(), rec)
	}
	if s.resolver == nil {
		s.resolver = render.NewResolver(opts.TemplatesRoot)
	}
	if s.renderer == nil {
		s.renderer = render.NewFileRenderer(render.Options{
			OutputRoot:    opts.OutputRoot,
			TemplatesRoot: opts.TemplatesRoot,
		}, render.NewTemplateEngine(render.TemplateOptions{}), minifier.New(), rec)
	}
	return s
}

// Run executes one build. Page configs are processed in order; the first
// fatal error aborts the remaining ones and is returned with the partial result.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := &Result{
		BuildID:    req.BuildID,
		StartTime:  start,
		OutputPath: s.opts.OutputRoot,
	}
	if result.BuildID == "" {
		result.BuildID = uuid.NewString()
	}
	ctx = observability.WithBuildID(ctx, result.BuildID)
	observability.InfoContext(ctx, "Build started", logfields.Count(len(req.Pages)))

	err := s.run(ctx, req, result)

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)
	s.recorder.ObserveBuildDuration(result.Duration)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		s.recorder.IncBuildOutcome(metrics.ResultSuccess)
		observability.InfoContext(ctx, "Build completed",
			logfields.Count(result.Pages),
			slog.Int("rendered", result.FilesRendered),
			slog.Int("skipped", result.FilesSkipped),
			slog.Int("failed", result.FilesFailed),
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
	case errors.HasCategory(err, errors.CategoryCanceled):
		result.Status = StatusCanceled
		s.recorder.IncBuildOutcome(metrics.ResultCanceled)
		observability.WarnContext(ctx, "Build canceled", logfields.Error(err))
	default:
		result.Status = StatusFailed
		s.recorder.IncBuildOutcome(metrics.ResultFailed)
		observability.ErrorContext(ctx, "Build failed", logfields.Error(err))
	}
	return result, err
}

func (s *Service) run(ctx context.Context, req Request, result *Result) error {
	if s.syncer != nil {
		if err := s.stage(ctx, StageTemplateSync, func(ctx context.Context) error {
			return s.syncer.Sync(ctx)
		}); err != nil {
			return err
		}
	}

	if err := s.stage(ctx, StageGlobalAssets, s.globalAssets); err != nil {
		return err
	}

	if len(req.Pages) == 0 {
		observability.WarnContext(ctx, "No pages configured for build")
		return nil
	}

	for i, cfg := range req.Pages {
		if err := ctx.Err(); err != nil {
			return canceled(err)
		}
		pageCtx := observability.WithPage(ctx, cfg.TargetFolder)
		observability.InfoContext(pageCtx, fmt.Sprintf("Writing %d of %d", i+1, len(req.Pages)), logfields.Template(cfg.Template))

		err := s.stage(pageCtx, StagePage, func(ctx context.Context) error {
			stats, err := s.renderPage(ctx, cfg, req.Hooks)
			result.addStats(stats)
			return err
		})
		if err != nil {
			return err
		}
		result.Pages++
	}
	return nil
}

func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx = observability.WithStage(ctx, name)
	err := fn(ctx)
	s.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		if ctx.Err() != nil && !errors.HasCategory(err, errors.CategoryCanceled) {
			return canceled(ctx.Err())
		}
		return err
	}
	return nil
}

func (s *Service) globalAssets(ctx context.Context) error {
	dest := filepath.Join(s.opts.OutputRoot, GlobalAssetsDir)
	if _, err := assets.EmptyDir(dest); err != nil {
		return err
	}
	return s.assets.CopyAssets(ctx, s.opts.GlobalAssetsDir, GlobalAssetsDir)
}

func (s *Service) renderPage(ctx context.Context, cfg page.Config, h hooks.Set) (render.Stats, error) {
	cfg, err := h.BeforeItemRender(ctx, cfg)
	if err != nil {
		return render.Stats{}, hooks.WrapError(err, "OnBeforeItemRender")
	}
	if err := cfg.Validate(); err != nil {
		return render.Stats{}, err
	}

	target := filepath.Join(s.opts.OutputRoot, cfg.TargetFolder)
	if _, err := assets.EmptyDir(target); err != nil {
		return render.Stats{}, err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return render.Stats{}, errors.FileSystemError("create page directory").WithCause(err).WithContext("path", target).Build()
	}

	src := filepath.Join(s.opts.TemplatesRoot, cfg.Template, "assets")
	if err := s.assets.CopyAssets(ctx, src, filepath.Join(cfg.TargetFolder, "assets")); err != nil {
		return render.Stats{}, err
	}

	files, err := s.resolver.List(ctx, cfg, s.opts.Extension, h)
	if err != nil {
		return render.Stats{}, err
	}
	return s.renderer.RenderAll(ctx, cfg, files, h)
}

func canceled(err error) error {
	return errors.WrapError(err, errors.CategoryCanceled, "build canceled").Build()
}
