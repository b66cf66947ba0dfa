// Package errors provides the classified error type used across pagebuilder.
//
// Errors carry a category (config, template, render, asset, image, ...), a
// severity and a retry strategy so the CLI and the HTTP trigger surface can
// map them to exit codes and status codes without string matching.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryAsset, "copy assets").
//		WithContext("source", src).
//		Build()
package errors
