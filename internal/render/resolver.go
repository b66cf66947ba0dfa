package render

import (
	"context"
	stdErrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// DefaultExtension selects which files of a template set are rendered.
const DefaultExtension = ".html"

// Resolver finds the template files of a template set.
type Resolver struct {
	root string
}

// NewResolver returns a Resolver for template sets under root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Dir returns the directory of the named template set.
func (r *Resolver) Dir(template string) string {
	return filepath.Join(r.root, template)
}

// List returns the files directly inside the template set whose names end
// with ext, in name order, after OnFilesList. Symlinks to regular files are
// included. A missing template set is
// logged and yields an empty list without consulting the hook.
func (r *Resolver) List(ctx context.Context, cfg page.Config, ext string, h hooks.Set) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	dir := r.Dir(cfg.Template)

	entries, err := os.ReadDir(dir)
	if stdErrors.Is(err, fs.ErrNotExist) {
		observability.WarnContext(ctx, "Template set not found", logfields.Template(cfg.Template), logfields.Path(dir))
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.FileSystemError("read template set").WithCause(err).WithContext("path", dir).Build()
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if strings.HasSuffix(e.Name(), ext) && isRegular(e, full) {
			files = append(files, full)
		}
	}

	files, err = h.FilesList(ctx, files, cfg)
	if err != nil {
		return nil, hooks.WrapError(err, "OnFilesList")
	}
	return files, nil
}

func isRegular(e fs.DirEntry, full string) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}
