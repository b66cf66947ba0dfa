package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Process exit codes. Anything unclassified exits with ExitGeneric.
const (
	ExitGeneric     = 1
	ExitUsage       = 2
	ExitConfig      = 7
	ExitRemote      = 8
	ExitInternal    = 10
	ExitBuild       = 11
	ExitRuntime     = 12
	ExitInterrupted = 130
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryConfig:     ExitConfig,
	CategoryNetwork:    ExitRemote,
	CategoryGit:        ExitRemote,
	CategoryTemplate:   ExitBuild,
	CategoryRender:     ExitBuild,
	CategoryHook:       ExitBuild,
	CategoryAsset:      ExitBuild,
	CategoryImage:      ExitBuild,
	CategoryFileSystem: ExitBuild,
	CategoryCanceled:   ExitInterrupted,
	CategoryRuntime:    ExitRuntime,
	CategoryInternal:   ExitInternal,
}

// CLIErrorAdapter reports a command's final error and terminates the process.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor returns 0 for nil and ExitGeneric for unclassified errors.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	c, ok := AsClassified(err)
	if !ok {
		return ExitGeneric
	}
	if code, ok := exitCodes[c.Category()]; ok {
		return code
	}
	return ExitGeneric
}

// FormatError renders the one-line message printed to stderr. Non-verbose
// mode hides the cause chain of classified errors.
func (a *CLIErrorAdapter) FormatError(err error) string {
	c, ok := AsClassified(err)
	switch {
	case err == nil:
		return ""
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return c.Error()
	}
	return fmt.Sprintf("Error: %s (use -v for details)", c.Message())
}

// HandleError logs err, prints it and exits with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.log(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) log(err error) {
	c, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(c.Category()))}
	if c.CanRetry() {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	if cause := c.Cause(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}
	attrs = append(attrs, c.Context().Attrs()...)
	a.logger.LogAttrs(context.Background(), levelFor(c.Severity()), c.Message(), attrs...)
}
