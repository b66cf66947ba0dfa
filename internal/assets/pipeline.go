package assets

import (
	"context"
	stdErrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/minifier"
)

// MatchMode selects how file names are classified for minification.
type MatchMode string

const (
	// MatchSubstring treats any name containing ".js" as a script and any
	// name containing ".css" as a stylesheet (so "app.js.map" is a script).
	MatchSubstring MatchMode = "substring"
	// MatchSuffix only considers the file extension.
	MatchSuffix MatchMode = "suffix"
)

// Kind is the minification class of an asset.
type Kind string

const (
	KindJS    Kind = "js"
	KindCSS   Kind = "css"
	KindOther Kind = ""
)

// Classify returns the minification kind for a file name under mode.
func Classify(name string, mode MatchMode) Kind {
	base := filepath.Base(name)
	if mode == MatchSuffix {
		switch strings.ToLower(filepath.Ext(base)) {
		case ".js", ".mjs":
			return KindJS
		case ".css":
			return KindCSS
		}
		return KindOther
	}
	switch {
	case strings.Contains(base, ".js"):
		return KindJS
	case strings.Contains(base, ".css"):
		return KindCSS
	}
	return KindOther
}

// Options configures a Pipeline.
type Options struct {
	OutputRoot string
	Match      MatchMode
	// Workers bounds the concurrent minify pass; values below 1 mean 1.
	Workers int
}

// Pipeline copies asset trees under OutputRoot and minifies them.
type Pipeline struct {
	opts     Options
	minifier minifier.Minifier
	recorder metrics.Recorder
}

// NewPipeline returns a Pipeline. A nil minifier disables minification and a
// nil recorder records nothing.
func NewPipeline(opts Options, m minifier.Minifier, rec metrics.Recorder) *Pipeline {
	if opts.Match == "" {
		opts.Match = MatchSubstring
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if m == nil {
		m = minifier.Nop{}
	}
	return &Pipeline{opts: opts, minifier: m, recorder: metrics.OrNoop(rec)}
}

// CopyAssets copies sourceDir into <OutputRoot>/<destName> and then minifies
// every script and stylesheet found under the destination. A missing source
// directory is logged and ignored.
func (p *Pipeline) CopyAssets(ctx context.Context, sourceDir, destName string) error {
	dest := filepath.Join(p.opts.OutputRoot, destName)

	info, err := os.Stat(sourceDir)
	switch {
	case stdErrors.Is(err, fs.ErrNotExist):
		slog.Warn("Asset source missing, nothing to copy", logfields.Path(sourceDir))
		return nil
	case err != nil:
		return errors.FileSystemError("stat asset source").WithCause(err).WithContext("path", sourceDir).Build()
	case !info.IsDir():
		return errors.AssetError("asset source is not a directory").WithContext("path", sourceDir).Build()
	}

	slog.Debug("Copying assets", logfields.Path(sourceDir), logfields.Target(dest))
	if err := copyTree(ctx, sourceDir, dest); err != nil {
		return err
	}
	return p.MinifyTree(ctx, dest)
}

// copyTree copies src into dst, overwriting existing files. Symlinks to
// files are copied as the file they point to; symlinked directories and
// dangling links are skipped with a warning.
func copyTree(ctx context.Context, src, dst string) error {
	stack := []string{"."}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return errors.WrapError(err, errors.CategoryCanceled, "asset copy canceled").Build()
		}
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		srcDir := filepath.Join(src, rel)
		dstDir := filepath.Join(dst, rel)
		if err := os.MkdirAll(dstDir, 0o755); err != nil {
			return errors.FileSystemError("create asset directory").WithCause(err).WithContext("path", dstDir).Build()
		}
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			return errors.FileSystemError("read asset directory").WithCause(err).WithContext("path", srcDir).Build()
		}
		for _, e := range entries {
			child := filepath.Join(rel, e.Name())
			switch {
			case e.IsDir():
				stack = append(stack, child)
			case e.Type().IsRegular():
				if err := copyFile(filepath.Join(src, child), filepath.Join(dst, child)); err != nil {
					return err
				}
			case e.Type()&fs.ModeSymlink != 0:
				if err := copyLink(filepath.Join(src, child), filepath.Join(dst, child)); err != nil {
					return err
				}
			default:
				slog.Debug("Skipping non-regular asset", logfields.Path(filepath.Join(src, child)))
			}
		}
	}
	return nil
}

func copyLink(src, dst string) error {
	info, err := os.Stat(src)
	switch {
	case err != nil:
		slog.Warn("Skipping dangling asset symlink", logfields.Path(src), logfields.Error(err))
		return nil
	case !info.Mode().IsRegular():
		slog.Warn("Skipping symlinked asset directory", logfields.Path(src))
		return nil
	}
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.FileSystemError("open asset").WithCause(err).WithContext("path", src).Build()
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.FileSystemError("create asset").WithCause(err).WithContext("path", dst).Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.FileSystemError("copy asset").WithCause(err).WithContext("path", dst).Build()
	}
	if err := out.Close(); err != nil {
		return errors.FileSystemError("close asset").WithCause(err).WithContext("path", dst).Build()
	}
	return nil
}

// ListFiles returns every regular file under root.
func ListFiles(root string) ([]string, error) {
	var files []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.FileSystemError("read directory").WithCause(err).WithContext("path", dir).Build()
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				stack = append(stack, full)
			} else if e.Type().IsRegular() {
				files = append(files, full)
			}
		}
	}
	return files, nil
}

// MinifyTree minifies scripts and stylesheets under root in place. Each file
// is handled by exactly one worker. Minifier failures keep the original
// bytes; read and write failures abort.
func (p *Pipeline) MinifyTree(ctx context.Context, root string) error {
	files, err := ListFiles(root)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	counts := map[Kind]int{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for _, f := range files {
		kind := Classify(f, p.opts.Match)
		if kind == KindOther {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.WrapError(err, errors.CategoryCanceled, "minify canceled").Build()
			}
			ok, err := p.minifyFile(f, kind)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				counts[kind]++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for kind, n := range counts {
		p.recorder.AddMinifiedAssets(string(kind), n)
	}
	slog.Debug("Minified assets", logfields.Path(root), logfields.Count(counts[KindJS]+counts[KindCSS]))
	return nil
}

func (p *Pipeline) minifyFile(path string, kind Kind) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, errors.FileSystemError("read asset for minification").WithCause(err).WithContext("path", path).Build()
	}
	var out []byte
	if kind == KindJS {
		out, err = p.minifier.JS(src)
	} else {
		out, err = p.minifier.CSS(src)
	}
	if err != nil {
		slog.Warn("Minification failed, keeping original", logfields.File(path), logfields.Error(err))
		return false, nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, errors.FileSystemError("write minified asset").WithCause(err).WithContext("path", path).Build()
	}
	return true, nil
}
