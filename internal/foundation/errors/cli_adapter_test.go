package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapterExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":          {nil, 0},
		"validation":   {ValidationError("invalid").Build(), ExitUsage},
		"config":       {ConfigError("bad config").Build(), ExitConfig},
		"network":      {NetworkError("unreachable").Build(), ExitRemote},
		"asset":        {AssetError("copy failed").Build(), ExitBuild},
		"canceled":     {CanceledError("interrupted").Build(), ExitInterrupted},
		"internal":     {InternalError("bug").Build(), ExitInternal},
		"unclassified": {errors.New("unknown"), ExitGeneric},
		"not found":    {NewError(CategoryNotFound, "gone").Build(), ExitGeneric},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.ExitCodeFor(tc.err))
		})
	}
}

func TestCLIErrorAdapterFormat(t *testing.T) {
	err := WrapError(errors.New("open pagebuilder.yaml: no such file"), CategoryConfig, "load config").Build()

	assert.Equal(t, "Error: load config (use -v for details)", NewCLIErrorAdapter(false, nil).FormatError(err))
	assert.Contains(t, NewCLIErrorAdapter(true, nil).FormatError(err), "no such file")
	assert.Equal(t, "Error: boom", NewCLIErrorAdapter(false, nil).FormatError(errors.New("boom")))
	assert.Empty(t, NewCLIErrorAdapter(false, nil).FormatError(nil))
}

func TestCLIErrorAdapterHandleError(t *testing.T) {
	var out, logs bytes.Buffer
	code := -1
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	a.out = &out
	a.exit = func(c int) { code = c }

	a.HandleError(ConfigError("configuration file not found").WithContext("path", "pagebuilder.yaml").Build())

	assert.Equal(t, ExitConfig, code)
	assert.Contains(t, out.String(), "configuration file not found")
	assert.Contains(t, out.String(), "-v")
	assert.Contains(t, logs.String(), "category=config")
	assert.Contains(t, logs.String(), "path=pagebuilder.yaml")

	code = -1
	a.HandleError(nil)
	assert.Equal(t, -1, code)
}
