package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/minifier"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

type fixture struct {
	templates string
	out       string
	set       string
}

func newFixture(t *testing.T, files map[string]string) fixture {
	t.Helper()
	f := fixture{templates: t.TempDir(), out: t.TempDir()}
	f.set = filepath.Join(f.templates, "basic")
	for name, content := range files {
		writeFile(t, filepath.Join(f.set, name), content)
	}
	return f
}

func (f fixture) renderer(strict bool) *FileRenderer {
	return NewFileRenderer(Options{OutputRoot: f.out, TemplatesRoot: f.templates, Strict: strict}, NewTemplateEngine(TemplateOptions{}), minifier.New(), nil)
}

func (f fixture) files(t *testing.T) []string {
	t.Helper()
	files, err := NewResolver(f.templates).List(context.Background(), page.Config{Template: "basic"}, ".html", hooks.Set{})
	require.NoError(t, err)
	return files
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRenderAllUsesPageTitles(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.html": "<html><head><title>{{ .pageTitle }}</title></head><body></body></html>",
		"about.html": "<html><head><title>{{ .pageTitle }}</title></head><body>{{ .template }}</body></html>",
	})
	cfg := page.Config{
		Template:     "basic",
		TargetFolder: "output",
		TemplateData: map[string]any{
			"title":      "Test Page",
			"pageTitles": map[string]any{"index.html": "Custom Title"},
		},
	}

	stats, err := f.renderer(false).RenderAll(context.Background(), cfg, f.files(t), hooks.Set{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Rendered: 2}, stats)

	assert.Contains(t, read(t, filepath.Join(f.out, "output", "index.html")), "<title>Custom Title</title>")
	about := read(t, filepath.Join(f.out, "output", "about.html"))
	assert.Contains(t, about, "<title>Test Page</title>")
	assert.Contains(t, about, "basic")
}

func TestRenderAllMutatesTemplateDataInPlace(t *testing.T) {
	f := newFixture(t, map[string]string{"index.html": "<p>{{ len .__files }}</p>"})
	data := map[string]any{"title": "T"}
	cfg := page.Config{Template: "basic", TargetFolder: "o", TemplateData: data}
	files := f.files(t)

	_, err := f.renderer(false).RenderAll(context.Background(), cfg, files, hooks.Set{})
	require.NoError(t, err)

	assert.Equal(t, "T", data[page.KeyPageTitle])
	assert.Equal(t, "basic", data[page.KeyTemplate])
	assert.Equal(t, files, data[page.KeyFiles])
	assert.Equal(t, []any{}, data[page.KeyFilesAnalyzed])
}

func TestRenderAllSoftAndStrictFailures(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.html": "<p>{{ .broken </p>",
		"b.html": "<p>ok</p>",
	})
	cfg := page.Config{Template: "basic", TargetFolder: "o", TemplateData: map[string]any{}}

	stats, err := f.renderer(false).RenderAll(context.Background(), cfg, f.files(t), hooks.Set{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Rendered: 1, Failed: 1}, stats)
	assert.NoFileExists(t, filepath.Join(f.out, "o", "a.html"))
	assert.FileExists(t, filepath.Join(f.out, "o", "b.html"))

	_, err = f.renderer(true).RenderAll(context.Background(), cfg, f.files(t), hooks.Set{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
}

func TestRenderAllVetoAndRedirect(t *testing.T) {
	f := newFixture(t, map[string]string{
		"draft.html": "<p>draft</p>",
		"index.html": "<p>index</p>",
		"about.html": "<p>about</p>",
	})
	cfg := page.Config{Template: "basic", TargetFolder: "o"}
	h := hooks.Compose(
		hooks.Set{OnRenderFile: func(_ context.Context, target string, _ page.Config, file string) (string, error) {
			if filepath.Base(file) == "draft.html" {
				return "", nil
			}
			return target, nil
		}},
		hooks.PrettyURLs(),
	)

	stats, err := f.renderer(false).RenderAll(context.Background(), cfg, f.files(t), h)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rendered: 2, Skipped: 1}, stats)

	assert.NoFileExists(t, filepath.Join(f.out, "o", "draft.html"))
	assert.NoDirExists(t, filepath.Join(f.out, "o", "draft"))
	assert.FileExists(t, filepath.Join(f.out, "o", "index.html"))
	assert.FileExists(t, filepath.Join(f.out, "o", "about", "index.html"))
}

func TestRenderAllHookErrorAborts(t *testing.T) {
	f := newFixture(t, map[string]string{"index.html": "<p>x</p>"})
	h := hooks.Set{OnRenderFile: func(context.Context, string, page.Config, string) (string, error) {
		return "", assert.AnError
	}}

	_, err := f.renderer(false).RenderAll(context.Background(), page.Config{Template: "basic", TargetFolder: "o"}, f.files(t), h)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryHook))
}

func TestRenderAllMinifiesOutput(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.html": "<html>\n  <body>\n    <style>\n      p { color: red; }\n    </style>\n    <p>hi</p>\n  </body>\n</html>\n",
	})

	_, err := f.renderer(false).RenderAll(context.Background(), page.Config{Template: "basic", TargetFolder: "o"}, f.files(t), hooks.Set{})
	require.NoError(t, err)

	out := read(t, filepath.Join(f.out, "o", "index.html"))
	assert.Contains(t, out, "p{color:red}")
	assert.NotContains(t, out, "\n  ")
}

func TestRenderAllCanceled(t *testing.T) {
	f := newFixture(t, map[string]string{"index.html": "<p>x</p>"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.renderer(false).RenderAll(ctx, page.Config{Template: "basic", TargetFolder: "o"}, f.files(t), hooks.Set{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryCanceled))
}
