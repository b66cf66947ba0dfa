package assets

import (
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// removeEntry deletes a single file or empty directory.
var removeEntry = os.Remove

// Failure is one entry EmptyDir could not remove.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes an EmptyDir call.
type Report struct {
	Removed  int
	Failures []Failure
}

// OK reports whether every entry was removed.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// EmptyDir deletes everything inside path and leaves path itself in place.
// A missing path is a no-op. Entries are removed independently: a failure is
// recorded in the report and does not stop the siblings. The error is non-nil
// only when path itself cannot be read.
func EmptyDir(path string) (Report, error) {
	var report Report

	entries, err := os.ReadDir(path)
	if stdErrors.Is(err, fs.ErrNotExist) {
		return report, nil
	}
	if err != nil {
		return report, errors.FileSystemError("read directory to empty").WithCause(err).WithContext("path", path).Build()
	}

	type item struct {
		path     string
		expanded bool
	}
	stack := make([]item, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, item{path: filepath.Join(path, entries[i].Name())})
	}

	fail := func(p string, err error) {
		slog.Warn("Failed to remove entry", logfields.Path(p), logfields.Error(err))
		report.Failures = append(report.Failures, Failure{Path: p, Err: err})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Lstat(it.path)
		if err != nil {
			fail(it.path, err)
			continue
		}
		if !info.IsDir() {
			if err := removeEntry(it.path); err != nil {
				fail(it.path, err)
				continue
			}
			report.Removed++
			continue
		}
		if !it.expanded {
			children, err := os.ReadDir(it.path)
			if err != nil {
				fail(it.path, err)
				continue
			}
			// Revisit the directory once its children are gone.
			stack = append(stack, item{path: it.path, expanded: true})
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, item{path: filepath.Join(it.path, children[i].Name())})
			}
			continue
		}
		if err := removeEntry(it.path); err != nil {
			fail(it.path, err)
			continue
		}
		report.Removed++
	}
	return report, nil
}
