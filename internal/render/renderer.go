package render

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/minifier"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// Options configures a FileRenderer.
type Options struct {
	OutputRoot    string
	TemplatesRoot string
	// Strict turns template failures into build failures.
	Strict bool
}

// Stats counts what happened to the files of one page.
type Stats struct {
	Rendered int
	Skipped  int
	Failed   int
}

// FileRenderer renders resolved template files and writes them to the output tree.
type FileRenderer struct {
	opts     Options
	engine   Engine
	minifier minifier.Minifier
	recorder metrics.Recorder
}

// NewFileRenderer returns a FileRenderer. A nil minifier writes output as
// rendered and a nil recorder records nothing.
func NewFileRenderer(opts Options, engine Engine, m minifier.Minifier, rec metrics.Recorder) *FileRenderer {
	if m == nil {
		m = minifier.Nop{}
	}
	return &FileRenderer{opts: opts, engine: engine, minifier: m, recorder: metrics.OrNoop(rec)}
}

// RenderAll renders files for cfg in order. FilesAnalize runs once up front.
// A file whose OnRenderFile result is empty is skipped. Template failures are
// counted and skipped unless Strict is set; hook and write failures abort.
func (r *FileRenderer) RenderAll(ctx context.Context, cfg page.Config, files []string, h hooks.Set) (Stats, error) {
	var stats Stats
	cfg.EnsureData()

	analyzed, err := h.Analyze(ctx, files, cfg, hooks.AnalyzeOptions{
		TemplateDir: filepath.Join(r.opts.TemplatesRoot, cfg.Template),
	})
	if err != nil {
		return stats, hooks.WrapError(err, "FilesAnalize")
	}
	if analyzed == nil {
		analyzed = []any{}
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, errors.WrapError(err, errors.CategoryCanceled, "render canceled").Build()
		}

		name := filepath.Base(file)
		target := filepath.Join(r.opts.OutputRoot, cfg.TargetFolder, name)

		data := cfg.TemplateData
		data[page.KeyFiles] = files
		data[page.KeyFilesAnalyzed] = analyzed
		data[page.KeyPageTitle] = page.Title(name, data)
		data[page.KeyTemplate] = cfg.Template

		out, err := r.engine.RenderFile(file, data)
		if err != nil {
			if r.opts.Strict {
				return stats, err
			}
			observability.WarnContext(ctx, "Template render failed, skipping file", logfields.File(file), logfields.Error(err))
			stats.Failed++
			r.recorder.IncFileResult(metrics.FileFailed)
			continue
		}

		target, err = h.RenderFile(ctx, target, cfg, file)
		if err != nil {
			return stats, hooks.WrapError(err, "OnRenderFile")
		}
		if target == "" {
			observability.DebugContext(ctx, "Write vetoed by hook", logfields.File(file))
			stats.Skipped++
			r.recorder.IncFileResult(metrics.FileSkipped)
			continue
		}

		if minified, err := r.minifier.HTML(out); err != nil {
			observability.WarnContext(ctx, "HTML minification failed, writing unminified output", logfields.File(file), logfields.Error(err))
		} else {
			out = minified
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return stats, errors.FileSystemError("create output directory").WithCause(err).WithContext("path", filepath.Dir(target)).Build()
		}
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return stats, errors.FileSystemError("write rendered file").WithCause(err).WithContext("target", target).Build()
		}
		observability.DebugContext(ctx, "Rendered file", logfields.File(file), logfields.Target(target))
		stats.Rendered++
		r.recorder.IncFileResult(metrics.FileRendered)
	}
	return stats, nil
}
