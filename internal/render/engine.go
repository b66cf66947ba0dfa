package render

import (
	"bytes"
	stdErrors "errors"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// Engine renders a single template file against data.
type Engine interface {
	RenderFile(path string, data map[string]any) ([]byte, error)
}

// TemplateOptions configures NewTemplateEngine.
type TemplateOptions struct {
	LeftDelim  string
	RightDelim string
	// PartialsDir is resolved against the template file's directory. Every
	// *.html file in it is available to {{ template "name.html" . }}.
	PartialsDir string
	// Funcs is merged over the default function map.
	Funcs template.FuncMap
}

// TemplateEngine renders files with html/template.
type TemplateEngine struct {
	opts  TemplateOptions
	funcs template.FuncMap
}

// NewTemplateEngine returns an Engine backed by html/template.
func NewTemplateEngine(opts TemplateOptions) *TemplateEngine {
	if opts.PartialsDir == "" {
		opts.PartialsDir = "partials"
	}
	funcs := DefaultFuncs()
	for k, v := range opts.Funcs {
		funcs[k] = v
	}
	return &TemplateEngine{opts: opts, funcs: funcs}
}

func (e *TemplateEngine) RenderFile(path string, data map[string]any) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemError("read template").WithCause(err).WithContext("file", path).Build()
	}

	name := filepath.Base(path)
	t := template.New(name).Delims(e.opts.LeftDelim, e.opts.RightDelim).Funcs(e.funcs)
	if err := e.parsePartials(t, filepath.Join(filepath.Dir(path), e.opts.PartialsDir)); err != nil {
		return nil, err
	}
	if _, err := t.Parse(string(src)); err != nil {
		return nil, errors.TemplateError("parse template").WithCause(err).WithContext("file", path).Build()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.RenderError("execute template").WithCause(err).WithContext("file", path).Build()
	}
	return buf.Bytes(), nil
}

func (e *TemplateEngine) parsePartials(t *template.Template, dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return errors.TemplateError("list partials").WithCause(err).WithContext("path", dir).Build()
	}
	sort.Strings(matches)
	for _, m := range matches {
		src, err := os.ReadFile(m)
		if stdErrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return errors.FileSystemError("read partial").WithCause(err).WithContext("file", m).Build()
		}
		if _, err := t.New(filepath.Base(m)).Parse(string(src)); err != nil {
			return errors.TemplateError("parse partial").WithCause(err).WithContext("file", m).Build()
		}
	}
	return nil
}
