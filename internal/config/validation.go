package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

var validate = validator.New()

// Validate checks struct constraints, cross-field rules and every page.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			WithSeverity(errors.SeverityFatal).
			WithRetry(errors.RetryUserAction).
			Build()
	}
	if (cfg.Render.LeftDelim == "") != (cfg.Render.RightDelim == "") {
		return errors.ConfigError("render.left_delim and render.right_delim must be set together").Build()
	}
	if err := validateGit(cfg.TemplatesGit); err != nil {
		return err
	}
	if err := cfg.Pages.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid page in configuration").
			WithSeverity(errors.SeverityFatal).
			WithRetry(errors.RetryUserAction).
			Build()
	}
	return nil
}

func validateGit(g *TemplatesGitConfig) error {
	if !g.Enabled() || g.Auth.IsZero() {
		return nil
	}
	var missing string
	switch g.Auth.Type {
	case AuthTypeToken:
		if g.Auth.Token == "" {
			missing = "token"
		}
	case AuthTypeBasic:
		if g.Auth.Username == "" || g.Auth.Password == "" {
			missing = "username/password"
		}
	case AuthTypeSSH:
		if g.Auth.KeyPath == "" {
			missing = "key_path"
		}
	}
	if missing != "" {
		return errors.ConfigError(fmt.Sprintf("templates_git.auth type %s requires %s", g.Auth.Type, missing)).Build()
	}
	return nil
}
