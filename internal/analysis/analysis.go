// Package analysis provides a FilesAnalize hook that inspects template files
// before rendering and exposes what it finds to templates as __filesAnalized.
package analysis

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// FileReport describes one template file. Field names are what templates use,
// e.g. {{ range .__filesAnalized }}{{ .Name }}: {{ .Title }}{{ end }}.
type FileReport struct {
	File        string
	Name        string
	Title       string
	Stylesheets []string
	Scripts     []string
	Images      []string
}

// Hooks returns a hook set whose FilesAnalize reports on every file, in order.
func Hooks() hooks.Set {
	return hooks.Set{
		FilesAnalize: func(ctx context.Context, files []string, _ page.Config, _ hooks.AnalyzeOptions) (any, error) {
			reports := make([]FileReport, 0, len(files))
			for _, f := range files {
				if err := ctx.Err(); err != nil {
					return nil, errors.WrapError(err, errors.CategoryCanceled, "analysis canceled").Build()
				}
				r, err := AnalyzeFile(f)
				if err != nil {
					return nil, err
				}
				reports = append(reports, r)
			}
			return reports, nil
		},
	}
}

// AnalyzeFile parses the template at path as HTML.
func AnalyzeFile(path string) (FileReport, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return FileReport{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to open template for analysis").
			WithContext("file", path).
			Build()
	}
	defer func() { _ = f.Close() }()

	r, err := Analyze(f)
	if err != nil {
		return FileReport{}, err
	}
	r.File = path
	r.Name = filepath.Base(path)
	return r, nil
}

// Analyze extracts the title and referenced assets from an HTML document.
func Analyze(r io.Reader) (FileReport, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return FileReport{}, errors.WrapError(err, errors.CategoryHook, "failed to parse HTML").Build()
	}

	var report FileReport
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if report.Title == "" {
					report.Title = strings.TrimSpace(text(n))
				}
			case "link":
				if hasToken(attr(n, "rel"), "stylesheet") {
					if href := attr(n, "href"); href != "" {
						report.Stylesheets = append(report.Stylesheets, href)
					}
				}
			case "script":
				if src := attr(n, "src"); src != "" {
					report.Scripts = append(report.Scripts, src)
				}
			case "img":
				if src := attr(n, "src"); src != "" {
					report.Images = append(report.Images, src)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return report, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
