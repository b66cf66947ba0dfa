// Package hooks defines the four interception points of a page build and the
// ways to combine them.
//
// Every hook receives the value it may replace and returns a value of the same
// shape. A zero result aborts the item: an empty target path skips the write
// and a nil file list renders nothing.
package hooks

import (
	"context"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// AnalyzeOptions is passed to FilesAnalize.
type AnalyzeOptions struct {
	// TemplateDir is the directory the files were resolved from.
	TemplateDir string
}

// Set holds the optional hooks for one build. A nil field is the identity.
type Set struct {
	OnBeforeItemRender func(ctx context.Context, cfg page.Config) (page.Config, error)
	OnFilesList        func(ctx context.Context, files []string, cfg page.Config) ([]string, error)
	FilesAnalize       func(ctx context.Context, files []string, cfg page.Config, opts AnalyzeOptions) (any, error)
	OnRenderFile       func(ctx context.Context, target string, cfg page.Config, file string) (string, error)
}

// BeforeItemRender runs OnBeforeItemRender or returns cfg unchanged.
func (s Set) BeforeItemRender(ctx context.Context, cfg page.Config) (page.Config, error) {
	if s.OnBeforeItemRender == nil {
		return cfg, nil
	}
	return s.OnBeforeItemRender(ctx, cfg)
}

// FilesList runs OnFilesList or returns files unchanged.
func (s Set) FilesList(ctx context.Context, files []string, cfg page.Config) ([]string, error) {
	if s.OnFilesList == nil {
		return files, nil
	}
	return s.OnFilesList(ctx, files, cfg)
}

// Analyze runs FilesAnalize. Without an analyzer it returns an empty slice so
// templates can always range over the result.
func (s Set) Analyze(ctx context.Context, files []string, cfg page.Config, opts AnalyzeOptions) (any, error) {
	if s.FilesAnalize == nil {
		return []any{}, nil
	}
	return s.FilesAnalize(ctx, files, cfg, opts)
}

// RenderFile runs OnRenderFile or returns target unchanged.
func (s Set) RenderFile(ctx context.Context, target string, cfg page.Config, file string) (string, error) {
	if s.OnRenderFile == nil {
		return target, nil
	}
	return s.OnRenderFile(ctx, target, cfg, file)
}

// Compose chains sets in order. Each hook sees the previous hook's output.
// An empty target from OnRenderFile stops the chain. For FilesAnalize the last
// non-nil result wins.
func Compose(sets ...Set) Set {
	var out Set

	var before []func(context.Context, page.Config) (page.Config, error)
	var lists []func(context.Context, []string, page.Config) ([]string, error)
	var analyzers []func(context.Context, []string, page.Config, AnalyzeOptions) (any, error)
	var renders []func(context.Context, string, page.Config, string) (string, error)
	for _, s := range sets {
		if s.OnBeforeItemRender != nil {
			before = append(before, s.OnBeforeItemRender)
		}
		if s.OnFilesList != nil {
			lists = append(lists, s.OnFilesList)
		}
		if s.FilesAnalize != nil {
			analyzers = append(analyzers, s.FilesAnalize)
		}
		if s.OnRenderFile != nil {
			renders = append(renders, s.OnRenderFile)
		}
	}

	if len(before) > 0 {
		out.OnBeforeItemRender = func(ctx context.Context, cfg page.Config) (page.Config, error) {
			var err error
			for _, fn := range before {
				if cfg, err = fn(ctx, cfg); err != nil {
					return cfg, err
				}
			}
			return cfg, nil
		}
	}
	if len(lists) > 0 {
		out.OnFilesList = func(ctx context.Context, files []string, cfg page.Config) ([]string, error) {
			var err error
			for _, fn := range lists {
				if files, err = fn(ctx, files, cfg); err != nil {
					return nil, err
				}
			}
			return files, nil
		}
	}
	if len(analyzers) > 0 {
		out.FilesAnalize = func(ctx context.Context, files []string, cfg page.Config, opts AnalyzeOptions) (any, error) {
			var result any
			for _, fn := range analyzers {
				r, err := fn(ctx, files, cfg, opts)
				if err != nil {
					return nil, err
				}
				if r != nil {
					result = r
				}
			}
			return result, nil
		}
	}
	if len(renders) > 0 {
		out.OnRenderFile = func(ctx context.Context, target string, cfg page.Config, file string) (string, error) {
			var err error
			for _, fn := range renders {
				if target, err = fn(ctx, target, cfg, file); err != nil {
					return "", err
				}
				if target == "" {
					return "", nil
				}
			}
			return target, nil
		}
	}
	return out
}

// WrapError classifies a hook failure as CategoryHook unless the hook already
// returned a classified error.
func WrapError(err error, hook string) error {
	if err == nil || errors.IsClassified(err) {
		return err
	}
	return errors.WrapError(err, errors.CategoryHook, "hook failed").
		Fatal().
		WithContext("hook", hook).
		Build()
}
