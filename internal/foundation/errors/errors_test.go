package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "pagebuilder.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.Equal(t, "pagebuilder.yaml", err.Context()["file"])
		assert.Equal(t, "config: invalid configuration", err.Error())
	})

	t.Run("Message includes cause", func(t *testing.T) {
		err := WrapError(errors.New("no such file"), CategoryFileSystem, "read template").Build()
		assert.Equal(t, "filesystem: read template: no such file", err.Error())
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := AssetError("copy failed").Build()
		wrapped := fmt.Errorf("page about: %w", inner)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryAsset))
		assert.False(t, HasCategory(wrapped, CategoryImage))
		assert.Equal(t, SeverityFatal, SeverityOf(wrapped))
		assert.Equal(t, CategoryInternal, CategoryOf(errors.New("plain")))
		assert.Equal(t, SeverityError, SeverityOf(errors.New("plain")))
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := RenderError("render failed").Build()
		withFile := base.WithContext("file", "index.html")

		_, ok := base.Context()["file"]
		assert.False(t, ok, "original context must stay untouched")
		assert.Equal(t, "index.html", withFile.Context()["file"])
	})

	t.Run("Sentinel matching", func(t *testing.T) {
		sentinel := HookError("veto").Build()
		err := fmt.Errorf("wrapped: %w", HookError("veto").WithContext("hook", "OnRenderFile").Build())
		assert.True(t, errors.Is(err, sentinel))
		assert.False(t, errors.Is(err, HookError("other").Build()))
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("connection reset")
		err := WrapError(originalErr, CategoryNetwork, "fetch failed").
			Warning().
			Retryable().
			WithContext("url", "https://example.com/logo.png").
			Build()

		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		assert.ErrorIs(t, err, originalErr)
		assert.True(t, err.IsTransient())
		assert.True(t, err.CanRetry())
	})

	t.Run("Builder does not alias contexts", func(t *testing.T) {
		b := RenderError("x").WithContext("a", 1)
		first := b.Build()
		second := b.WithContext("b", 2).Build()
		assert.Len(t, first.Context(), 1)
		assert.Len(t, second.Context(), 2)
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"NetworkError", NetworkError("test"), CategoryNetwork, SeverityError, RetryBackoff},
			{"GitError", GitError("test"), CategoryGit, SeverityError, RetryBackoff},
			{"TemplateError", TemplateError("test"), CategoryTemplate, SeverityFatal, RetryNever},
			{"RenderError", RenderError("test"), CategoryRender, SeverityError, RetryNever},
			{"HookError", HookError("test"), CategoryHook, SeverityFatal, RetryNever},
			{"AssetError", AssetError("test"), CategoryAsset, SeverityFatal, RetryNever},
			{"ImageError", ImageError("test"), CategoryImage, SeverityWarning, RetryNever},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContextAttrs(t *testing.T) {
	ctx := ErrorContext{"url": "https://x/logo.png", "file": "index.html", "attempt": 2}

	attrs := ctx.Attrs()
	require.Len(t, attrs, 3)
	assert.Equal(t, "attempt", attrs[0].Key)
	assert.Equal(t, "file", attrs[1].Key)
	assert.Equal(t, "url", attrs[2].Key)
	assert.Equal(t, slog.KindInt64, attrs[0].Value.Kind())

	assert.Empty(t, ErrorContext(nil).Attrs())
}
