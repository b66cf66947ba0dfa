package config

import (
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/normalization"
)

// MatchMode selects how asset names are classified for minification.
type MatchMode string

const (
	MatchSubstring MatchMode = "substring"
	MatchSuffix    MatchMode = "suffix"
)

var matchModes = normalization.NewNormalizer(map[string]MatchMode{
	"substring": MatchSubstring,
	"suffix":    MatchSuffix,
}, MatchSubstring)

// AuthType enumerates supported git authentication methods.
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

var authTypes = normalization.NewNormalizer(map[string]AuthType{
	"none":  AuthTypeNone,
	"ssh":   AuthTypeSSH,
	"token": AuthTypeToken,
	"basic": AuthTypeBasic,
}, AuthTypeNone)

// AuthConfig represents git authentication.
type AuthConfig struct {
	Type     AuthType `yaml:"type"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty"`
	KeyPath  string   `yaml:"key_path,omitempty"`
}

// IsZero reports whether no auth method is specified.
func (a *AuthConfig) IsZero() bool { return a == nil || a.Type == "" || a.Type == AuthTypeNone }

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryModes = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, RetryBackoffLinear)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NormalizeLogLevel maps user input to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel { return logLevels.Normalize(raw) }

// NormalizeLogFormat maps user input to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat { return logFormats.Normalize(raw) }
