package assets

import (
	"context"
	stdErrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/minifier"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) AddMinifiedAssets(kind string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[kind] += n
}

type failingMinifier struct{ minifier.Nop }

func (failingMinifier) CSS([]byte) ([]byte, error) { return nil, stdErrors.New("bad css") }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		mode MatchMode
		want Kind
	}{
		{"app.js", MatchSubstring, KindJS},
		{"app.js.map", MatchSubstring, KindJS},
		{"data.json", MatchSubstring, KindJS},
		{"site.css", MatchSubstring, KindCSS},
		{"logo.png", MatchSubstring, KindOther},
		{"app.js.map", MatchSuffix, KindOther},
		{"data.json", MatchSuffix, KindOther},
		{"APP.JS", MatchSuffix, KindJS},
		{"mod.mjs", MatchSuffix, KindJS},
		{"site.css", MatchSuffix, KindCSS},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.name, c.mode), "%s/%s", c.mode, c.name)
	}
}

func TestCopyAssetsCopiesAndMinifies(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	css := "body {\n  color: red;\n}\n"
	png := "\x89PNG\r\n\x1a\nbinary  content"
	writeFile(t, filepath.Join(src, "css", "site.css"), css)
	writeFile(t, filepath.Join(src, "js", "deep", "app.js"), "function f() {\n  return 1;\n}\n")
	writeFile(t, filepath.Join(src, "img", "logo.png"), png)

	rec := &countingRecorder{}
	p := NewPipeline(Options{OutputRoot: out, Workers: 4}, minifier.New(), rec)
	require.NoError(t, p.CopyAssets(context.Background(), src, filepath.Join("site", "assets")))

	dest := filepath.Join(out, "site", "assets")
	gotCSS := readFile(t, filepath.Join(dest, "css", "site.css"))
	assert.NotEqual(t, css, gotCSS)
	assert.Less(t, len(gotCSS), len(css))
	assert.Equal(t, png, readFile(t, filepath.Join(dest, "img", "logo.png")))
	assert.FileExists(t, filepath.Join(dest, "js", "deep", "app.js"))
	assert.Equal(t, 1, rec.counts["css"])
	assert.Equal(t, 1, rec.counts["js"])
}

func TestCopyAssetsOverwrites(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(out, "dest", "a.txt"), "old content that is longer")
	writeFile(t, filepath.Join(out, "dest", "keep.txt"), "kept")

	p := NewPipeline(Options{OutputRoot: out}, nil, nil)
	require.NoError(t, p.CopyAssets(context.Background(), src, "dest"))

	assert.Equal(t, "new", readFile(t, filepath.Join(out, "dest", "a.txt")))
	assert.Equal(t, "kept", readFile(t, filepath.Join(out, "dest", "keep.txt")))
}

func TestCopyAssetsMissingSourceIsNoop(t *testing.T) {
	out := t.TempDir()
	p := NewPipeline(Options{OutputRoot: out}, nil, nil)

	require.NoError(t, p.CopyAssets(context.Background(), filepath.Join(out, "nope"), "dest"))
	assert.NoDirExists(t, filepath.Join(out, "dest"))
}

func TestMinifyFailureKeepsContent(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "site.css"), "body { color: red; }")

	p := NewPipeline(Options{OutputRoot: out}, failingMinifier{}, nil)
	require.NoError(t, p.CopyAssets(context.Background(), src, "dest"))
	assert.Equal(t, "body { color: red; }", readFile(t, filepath.Join(out, "dest", "site.css")))
}

func TestCopyAssetsCanceled(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.css"), "a{}")
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	p := NewPipeline(Options{OutputRoot: t.TempDir()}, nil, nil)
	assert.Error(t, p.CopyAssets(ctx, src, "dest"))
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "")
	writeFile(t, filepath.Join(root, "x", "y", "z.txt"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	files, err := ListFiles(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "x", "y", "z.txt"),
	}, files)
}

func TestCopyAssetsSymlinks(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	out := t.TempDir()
	writeFile(t, filepath.Join(base, "shared", "logo.txt"), "logo")
	writeFile(t, filepath.Join(src, "own.txt"), "own")
	require.NoError(t, os.Symlink(filepath.Join(base, "shared", "logo.txt"), filepath.Join(src, "logo.txt")))
	require.NoError(t, os.Symlink(filepath.Join(base, "shared"), filepath.Join(src, "linked-dir")))
	require.NoError(t, os.Symlink(filepath.Join(base, "missing.txt"), filepath.Join(src, "dangling.txt")))

	p := NewPipeline(Options{OutputRoot: out}, nil, nil)
	require.NoError(t, p.CopyAssets(context.Background(), src, "dest"))

	dest := filepath.Join(out, "dest")
	assert.Equal(t, "own", readFile(t, filepath.Join(dest, "own.txt")))
	assert.Equal(t, "logo", readFile(t, filepath.Join(dest, "logo.txt")))
	info, err := os.Lstat(filepath.Join(dest, "logo.txt"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "linked files are copied by content")
	assert.NoFileExists(t, filepath.Join(dest, "linked-dir"))
	assert.NoDirExists(t, filepath.Join(dest, "linked-dir"))
	assert.NoFileExists(t, filepath.Join(dest, "dangling.txt"))
}
