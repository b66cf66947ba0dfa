package config

import (
	"path/filepath"
	"time"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

var defaultAppliers = []DefaultApplier{
	pathsDefaults{},
	renderDefaults{},
	assetsDefaults{},
	imagesDefaults{},
	hooksDefaults{},
	serverDefaults{},
	gitDefaults{},
	retryDefaults{},
	loggingDefaults{},
}

// ApplyDefaults fills every unset field with its default.
func ApplyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type pathsDefaults struct{}

func (pathsDefaults) Domain() string { return "paths" }

func (pathsDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Templates == "" {
		cfg.Paths.Templates = "./templates"
	}
	if cfg.Paths.GlobalAssets == "" {
		cfg.Paths.GlobalAssets = "./global-assets"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "./dist"
	}
	return nil
}

type renderDefaults struct{}

func (renderDefaults) Domain() string { return "render" }

func (renderDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Render.Extension == "" {
		cfg.Render.Extension = ".html"
	}
	if cfg.Render.PartialsDir == "" {
		cfg.Render.PartialsDir = "partials"
	}
	return nil
}

type assetsDefaults struct{}

func (assetsDefaults) Domain() string { return "assets" }

func (assetsDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Assets.Match == "" {
		cfg.Assets.Match = MatchSubstring
	}
	if cfg.Assets.Workers <= 0 {
		cfg.Assets.Workers = 1
	}
	return nil
}

type imagesDefaults struct{}

func (imagesDefaults) Domain() string { return "images" }

func (imagesDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Images.Timeout <= 0 {
		cfg.Images.Timeout = 30 * time.Second
	}
	if cfg.Images.MaxBytes <= 0 {
		cfg.Images.MaxBytes = 20 << 20
	}
	if cfg.Images.UserAgent == "" {
		cfg.Images.UserAgent = "pagebuilder/1.0"
	}
	if cfg.Images.CacheDir == "" {
		cfg.Images.CacheDir = filepath.Join(cfg.Paths.Output, "global-assets", "default", "logos")
	}
	return nil
}

type hooksDefaults struct{}

func (hooksDefaults) Domain() string { return "hooks" }

func (hooksDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Hooks.LogoFields == nil {
		cfg.Hooks.LogoFields = []string{"logo"}
	}
	return nil
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":7777"
	}
	return nil
}

type gitDefaults struct{}

func (gitDefaults) Domain() string { return "templates_git" }

func (gitDefaults) ApplyDefaults(cfg *Config) error {
	if !cfg.TemplatesGit.Enabled() {
		return nil
	}
	if cfg.TemplatesGit.Branch == "" {
		cfg.TemplatesGit.Branch = "main"
	}
	if cfg.TemplatesGit.Auth == nil {
		cfg.TemplatesGit.Auth = &AuthConfig{Type: AuthTypeNone}
	}
	return nil
}

type retryDefaults struct{}

func (retryDefaults) Domain() string { return "retry" }

func (retryDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Retry.Mode == "" {
		cfg.Retry.Mode = RetryBackoffLinear
	}
	if cfg.Retry.Initial <= 0 {
		cfg.Retry.Initial = time.Second
	}
	if cfg.Retry.Max <= 0 {
		cfg.Retry.Max = 30 * time.Second
	}
	if cfg.Retry.MaxRetries == nil {
		n := 2
		cfg.Retry.MaxRetries = &n
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}
