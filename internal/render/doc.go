// Package render resolves the template files of a page and renders them into
// the output tree.
//
// Files are rendered one at a time, in order. Before each file the renderer
// writes pageTitle, template, __files and __filesAnalized into the page's
// TemplateData map in place, so later files see what earlier files were given.
package render
