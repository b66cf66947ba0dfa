// Package minifier wraps tdewolff/minify behind a small interface so the
// asset pipeline and renderer can be tested with fakes.
package minifier

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mimeHTML = "text/html"
	mimeCSS  = "text/css"
	mimeJS   = "application/javascript"
)

// Minifier minifies whole documents in memory.
type Minifier interface {
	HTML(src []byte) ([]byte, error)
	CSS(src []byte) ([]byte, error)
	JS(src []byte) ([]byte, error)
}

// Tdewolff is the default Minifier.
type Tdewolff struct {
	m *minify.M
}

// New returns a Minifier that also minifies CSS and JS embedded in HTML.
// Document structure (html/head/body, end tags, attribute quotes) is kept.
func New() *Tdewolff {
	m := minify.New()
	m.Add(mimeHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	return &Tdewolff{m: m}
}

func (t *Tdewolff) HTML(src []byte) ([]byte, error) { return t.m.Bytes(mimeHTML, src) }
func (t *Tdewolff) CSS(src []byte) ([]byte, error)  { return t.m.Bytes(mimeCSS, src) }
func (t *Tdewolff) JS(src []byte) ([]byte, error)   { return t.m.Bytes(mimeJS, src) }

// Nop returns its input unchanged.
type Nop struct{}

func (Nop) HTML(src []byte) ([]byte, error) { return src, nil }
func (Nop) CSS(src []byte) ([]byte, error)  { return src, nil }
func (Nop) JS(src []byte) ([]byte, error)   { return src, nil }
