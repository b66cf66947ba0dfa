package errors

import (
	"log/slog"
	"maps"
	"slices"
)

// ErrorCategory groups errors by the part of a build that produced them.
type ErrorCategory string

// Input problems; the user has to fix something.
const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
)

// Remote systems: template repositories and image hosts.
const (
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"
)

// Build pipeline stages.
const (
	CategoryTemplate   ErrorCategory = "template"
	CategoryRender     ErrorCategory = "render"
	CategoryHook       ErrorCategory = "hook"
	CategoryAsset      ErrorCategory = "asset"
	CategoryImage      ErrorCategory = "image"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryCanceled   ErrorCategory = "canceled"
)

// Process level.
const (
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity says how far an error reaches.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the build
	SeverityError   ErrorSeverity = "error"   // fails the current page or step
	SeverityWarning ErrorSeverity = "warning" // output is degraded, build continues
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy tells callers such as retry.Policy whether another attempt can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext holds structured details such as the file, target or URL involved.
type ErrorContext map[string]any

// with returns a copy of c with key set; c itself is never modified.
func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}

// Attrs returns the context as slog attributes in key order.
func (c ErrorContext) Attrs() []slog.Attr {
	keys := slices.Sorted(maps.Keys(c))
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, c[k]))
	}
	return attrs
}
