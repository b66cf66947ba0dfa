package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPage       = "page"
	KeyTemplate   = "template"
	KeyTarget     = "target"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Page(target string) slog.Attr     { return slog.String(KeyPage, target) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Target(path string) slog.Attr     { return slog.String(KeyTarget, path) }
func File(path string) slog.Attr       { return slog.String(KeyFile, path) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
