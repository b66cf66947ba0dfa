package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

var httpStatus = map[ErrorCategory]int{
	CategoryConfig:     http.StatusBadRequest,
	CategoryValidation: http.StatusBadRequest,
	CategoryNotFound:   http.StatusNotFound,
	CategoryNetwork:    http.StatusBadGateway,
	CategoryGit:        http.StatusBadGateway,
	CategoryTemplate:   http.StatusUnprocessableEntity,
	CategoryRender:     http.StatusUnprocessableEntity,
	CategoryHook:       http.StatusUnprocessableEntity,
	CategoryAsset:      http.StatusUnprocessableEntity,
	CategoryImage:      http.StatusUnprocessableEntity,
	CategoryCanceled:   http.StatusServiceUnavailable,
	CategoryRuntime:    http.StatusServiceUnavailable,
}

// HTTPErrorAdapter turns errors returned by API handlers into JSON responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter uses slog.Default when logger is nil.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the body written for every failed request.
type HTTPErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// StatusCodeFor maps the error category to a status. Unclassified errors
// and categories without an entry are 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if status, ok := httpStatus[CategoryOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteErrorResponse writes the JSON body for err and logs it at a level
// derived from its severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	if err == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(a.FormatErrorResponse(err))

	level, msg, attrs := slog.LevelError, err.Error(), []slog.Attr{
		logfields.Path(r.URL.Path),
		logfields.Status(status),
	}
	if c, ok := AsClassified(err); ok {
		level = levelFor(c.Severity())
		attrs = append(attrs, c.Context().Attrs()...)
	}
	a.logger.LogAttrs(r.Context(), level, msg, attrs...)
}

// FormatErrorResponse builds the response body. Only classified errors
// carry a code, details and the retry hint.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	c, ok := AsClassified(err)
	switch {
	case err == nil:
		return HTTPErrorResponse{}
	case !ok:
		return HTTPErrorResponse{Error: err.Error()}
	}
	resp := HTTPErrorResponse{
		Error:     c.Message(),
		Code:      string(c.Category()),
		Retryable: c.CanRetry(),
	}
	if len(c.Context()) > 0 {
		resp.Details = c.Context()
	}
	return resp
}

func levelFor(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	}
	return slog.LevelError
}
