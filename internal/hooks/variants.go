package hooks

import (
	"context"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// ExcludeFiles drops template files whose base name matches any of the glob
// patterns. Patterns are checked up front so a typo fails the first build
// rather than silently matching nothing.
func ExcludeFiles(patterns []string) (Set, error) {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return Set{}, errors.WrapError(err, errors.CategoryConfig, "invalid exclude pattern").
				WithContext("pattern", p).
				Build()
		}
	}
	if len(patterns) == 0 {
		return Set{}, nil
	}
	return Set{
		OnFilesList: func(_ context.Context, files []string, _ page.Config) ([]string, error) {
			kept := make([]string, 0, len(files))
			for _, f := range files {
				if !matchAny(patterns, filepath.Base(f)) {
					kept = append(kept, f)
				}
			}
			return kept, nil
		},
	}, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// PrettyURLs writes about.html as about/index.html. index.html and files
// without an .html extension keep their target.
func PrettyURLs() Set {
	return Set{
		OnRenderFile: func(_ context.Context, target string, _ page.Config, _ string) (string, error) {
			if target == "" {
				return "", nil
			}
			base := filepath.Base(target)
			if base == "index.html" || !strings.HasSuffix(base, ".html") {
				return target, nil
			}
			stem := strings.TrimSuffix(base, ".html")
			return filepath.Join(filepath.Dir(target), stem, "index.html"), nil
		},
	}
}
