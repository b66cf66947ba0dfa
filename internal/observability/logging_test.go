package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")
	ctx = WithStage(ctx, "page")
	ctx = WithPage(ctx, "output")

	lc := GetContext(ctx)
	assert.Equal(t, "build-123", lc.BuildID)
	assert.Equal(t, "page", lc.Stage)
	assert.Equal(t, "output", lc.Page)
}

func TestWarnContextCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithPage(WithBuildID(context.Background(), "b-1"), "output")
	WarnContext(ctx, "template directory missing", slog.String("template", "basic"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "b-1", rec["build_id"])
	assert.Equal(t, "output", rec["page"])
	assert.Equal(t, "basic", rec["template"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.True(t, strings.HasPrefix(out, "{"), "json handler expected, got %q", out)

	buf.Reset()
	NewLogger(&buf, "debug", "text").Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
