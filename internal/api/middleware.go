package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// BuildIDHeader carries the ID of the build a request triggered.
const BuildIDHeader = "X-Build-ID"

type buildIDKey struct{}

// buildID assigns a build ID to the request and echoes it in the response header.
func buildID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(BuildIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), buildIDKey{}, id)))
	})
}

// BuildIDFromContext returns the build ID assigned to the request, or "".
func BuildIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(buildIDKey{}).(string)
	return id
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request",
				slog.String("method", r.Method),
				logfields.Path(r.URL.Path),
				logfields.Status(ww.Status()),
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
