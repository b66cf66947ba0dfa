package render

import (
	"bytes"
	"encoding/json"
	"html/template"
	"reflect"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var md = goldmark.New()

// DefaultFuncs returns the function map every template gets.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": markdown,
		"title":    titleCase,
		// The safe* funcs mark trusted values, e.g. the image placeholder data URI.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
		"safeURL":  func(s string) template.URL { return template.URL(s) },   //nolint:gosec
		"safeCSS":  func(s string) template.CSS { return template.CSS(s) },   //nolint:gosec
		"safeJS":   func(s string) template.JS { return template.JS(s) },     //nolint:gosec
		"json":     toJSON,
		"default":  defaultValue,
	}
}

func markdown(s string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark omits raw HTML unless WithUnsafe
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// defaultValue returns v unless it is nil or a zero value, in which case it
// returns fallback. Usage: {{ default "Untitled" .title }}.
func defaultValue(fallback, v any) any {
	if v == nil {
		return fallback
	}
	rv := reflect.ValueOf(v)
	if rv.IsZero() {
		return fallback
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		if rv.Len() == 0 {
			return fallback
		}
	}
	return v
}
