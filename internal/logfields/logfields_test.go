package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies helper key stability; key drift breaks log queries.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, BuildID("b1")},
		{"Stage", KeyStage, Stage("page")},
		{"Page", KeyPage, Page("output")},
		{"Template", KeyTemplate, Template("basic")},
		{"Target", KeyTarget, Target("dist/output/index.html")},
		{"File", KeyFile, File("index.html")},
		{"Path", KeyPath, Path("/tmp/x")},
		{"URL", KeyURL, URL("https://example.com/a.png")},
		{"Status", KeyStatus, Status(404)},
		{"Count", KeyCount, Count(3)},
		{"DurationMS", KeyDurationMS, DurationMS(1.5)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty value for nil error, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected attr %v", a)
	}
}
