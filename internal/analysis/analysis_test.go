package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

const doc = `<!DOCTYPE html>
<html>
<head>
  <title> {{ .pageTitle }} </title>
  <link rel="stylesheet" href="assets/site.css">
  <link rel="icon" href="favicon.ico">
  <script src="assets/app.js"></script>
  <script>inline()</script>
</head>
<body><img src="{{ .logo }}" alt="logo"><img alt="empty"></body>
</html>`

func TestAnalyze(t *testing.T) {
	r, err := Analyze(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "{{ .pageTitle }}", r.Title)
	assert.Equal(t, []string{"assets/site.css"}, r.Stylesheets)
	assert.Equal(t, []string{"assets/app.js"}, r.Scripts)
	assert.Equal(t, []string{"{{ .logo }}"}, r.Images)
}

func TestHooksReportsEveryFileInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.html")
	b := filepath.Join(dir, "b.html")
	require.NoError(t, os.WriteFile(a, []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("<p>no head</p>"), 0o644))

	got, err := Hooks().Analyze(context.Background(), []string{a, b}, page.Config{}, hooks.AnalyzeOptions{TemplateDir: dir})
	require.NoError(t, err)

	reports, ok := got.([]FileReport)
	require.True(t, ok)
	require.Len(t, reports, 2)
	assert.Equal(t, "a.html", reports[0].Name)
	assert.Equal(t, "b.html", reports[1].Name)
	assert.Empty(t, reports[1].Title)
}

func TestHooksMissingFile(t *testing.T) {
	_, err := Hooks().Analyze(context.Background(), []string{filepath.Join(t.TempDir(), "nope.html")}, page.Config{}, hooks.AnalyzeOptions{})
	assert.Error(t, err)
}
