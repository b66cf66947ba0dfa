package hooks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

func TestSetIdentityDefaults(t *testing.T) {
	ctx := context.Background()
	var s Set
	cfg := page.Config{Template: "basic", TargetFolder: "out"}

	got, err := s.BeforeItemRender(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	files, err := s.FilesList(ctx, []string{"a.html"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.html"}, files)

	analysis, err := s.Analyze(ctx, files, cfg, AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, analysis)

	target, err := s.RenderFile(ctx, "out/a.html", cfg, "a.html")
	require.NoError(t, err)
	assert.Equal(t, "out/a.html", target)
}

func TestComposeChainsInOrder(t *testing.T) {
	ctx := context.Background()
	appendFolder := func(suffix string) Set {
		return Set{OnBeforeItemRender: func(_ context.Context, c page.Config) (page.Config, error) {
			c.TargetFolder += suffix
			return c, nil
		}}
	}

	s := Compose(appendFolder("-a"), Set{}, appendFolder("-b"))
	got, err := s.BeforeItemRender(ctx, page.Config{TargetFolder: "out"})
	require.NoError(t, err)
	assert.Equal(t, "out-a-b", got.TargetFolder)
}

func TestComposeRenderVetoShortCircuits(t *testing.T) {
	ctx := context.Background()
	called := false
	s := Compose(
		Set{OnRenderFile: func(context.Context, string, page.Config, string) (string, error) { return "", nil }},
		Set{OnRenderFile: func(_ context.Context, target string, _ page.Config, _ string) (string, error) {
			called = true
			return target, nil
		}},
	)

	target, err := s.RenderFile(ctx, "out/a.html", page.Config{}, "a.html")
	require.NoError(t, err)
	assert.Empty(t, target)
	assert.False(t, called)
}

func TestComposeAnalyzeLastNonNilWins(t *testing.T) {
	ctx := context.Background()
	s := Compose(
		Set{FilesAnalize: func(context.Context, []string, page.Config, AnalyzeOptions) (any, error) { return "first", nil }},
		Set{FilesAnalize: func(context.Context, []string, page.Config, AnalyzeOptions) (any, error) { return nil, nil }},
	)

	got, err := s.Analyze(ctx, nil, page.Config{}, AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestComposePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	s := Compose(Set{OnFilesList: func(context.Context, []string, page.Config) ([]string, error) { return nil, boom }})

	_, err := s.FilesList(context.Background(), []string{"a.html"}, page.Config{})
	assert.ErrorIs(t, err, boom)
}

func TestExcludeFiles(t *testing.T) {
	s, err := ExcludeFiles([]string{"_*.html", "draft-*"})
	require.NoError(t, err)

	files, err := s.FilesList(context.Background(), []string{
		filepath.Join("t", "index.html"),
		filepath.Join("t", "_layout.html"),
		filepath.Join("t", "draft-post.html"),
	}, page.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("t", "index.html")}, files)

	_, err = ExcludeFiles([]string{"[bad"})
	assert.Error(t, err)
}

func TestPrettyURLs(t *testing.T) {
	s := PrettyURLs()
	ctx := context.Background()

	cases := map[string]string{
		filepath.Join("out", "about.html"): filepath.Join("out", "about", "index.html"),
		filepath.Join("out", "index.html"): filepath.Join("out", "index.html"),
		filepath.Join("out", "feed.xml"):   filepath.Join("out", "feed.xml"),
		"":                                 "",
	}
	for in, want := range cases {
		got, err := s.RenderFile(ctx, in, page.Config{}, "")
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
