// Package config loads and validates the pagebuilder YAML configuration.
package config

import (
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// Config is the root of the configuration file.
type Config struct {
	Paths        PathsConfig         `yaml:"paths"`
	Pages        page.List           `yaml:"pages,omitempty"`
	Render       RenderConfig        `yaml:"render"`
	Assets       AssetsConfig        `yaml:"assets"`
	Images       ImagesConfig        `yaml:"images"`
	Hooks        HooksConfig         `yaml:"hooks"`
	Server       ServerConfig        `yaml:"server"`
	TemplatesGit *TemplatesGitConfig `yaml:"templates_git,omitempty"`
	Retry        RetryConfig         `yaml:"retry"`
	Logging      LoggingConfig       `yaml:"logging"`
}

// PathsConfig holds the filesystem roots.
type PathsConfig struct {
	Templates    string `yaml:"templates" validate:"required"`
	GlobalAssets string `yaml:"global_assets" validate:"required"`
	Output       string `yaml:"output" validate:"required"`
}

// RenderConfig controls template rendering.
type RenderConfig struct {
	Extension   string `yaml:"extension" validate:"required,startswith=."`
	Strict      bool   `yaml:"strict"`
	LeftDelim   string `yaml:"left_delim,omitempty"`
	RightDelim  string `yaml:"right_delim,omitempty"`
	PartialsDir string `yaml:"partials_dir" validate:"required"`
}

// AssetsConfig controls the copy-and-minify pass.
type AssetsConfig struct {
	Match   MatchMode `yaml:"match"`
	Workers int       `yaml:"workers" validate:"gte=1,lte=64"`
}

// ImagesConfig controls the image optimizer.
type ImagesConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxBytes  int64         `yaml:"max_bytes" validate:"gt=0"`
	MaxWidth  int           `yaml:"max_width" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`
	// CacheDir defaults to <output>/global-assets/default/logos.
	CacheDir string `yaml:"cache_dir"`
}

// HooksConfig selects the built-in hook variants.
type HooksConfig struct {
	LogoFields   []string `yaml:"logo_fields"`
	AnalyzeFiles bool     `yaml:"analyze_files"`
	ExcludeFiles []string `yaml:"exclude_files,omitempty"`
	PrettyURLs   bool     `yaml:"pretty_urls"`
}

// ServerConfig configures the HTTP trigger surface.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
	// RebuildInterval schedules periodic full rebuilds when > 0.
	RebuildInterval time.Duration `yaml:"rebuild_interval" validate:"gte=0"`
	// RebuildCron is a five-field cron expression; it may be combined with RebuildInterval.
	RebuildCron string `yaml:"rebuild_cron,omitempty"`
}

// TemplatesGitConfig syncs the templates root from a git repository.
type TemplatesGitConfig struct {
	URL    string      `yaml:"url"`
	Branch string      `yaml:"branch"`
	Depth  int         `yaml:"depth" validate:"gte=0"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// Enabled reports whether a repository is configured.
func (g *TemplatesGitConfig) Enabled() bool { return g != nil && g.URL != "" }

// RetryConfig configures retries of transient failures (template sync).
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode"`
	Initial    time.Duration    `yaml:"initial" validate:"gte=0"`
	Max        time.Duration    `yaml:"max" validate:"gte=0"`
	MaxRetries *int             `yaml:"max_retries,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}
