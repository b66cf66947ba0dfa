package config

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// Load reads the configuration at path: .env files are loaded first, ${VAR}
// references are expanded, then defaults are applied and the result is
// validated. Every failure is a config-category error.
func Load(path string) (*Config, error) {
	LoadEnvFiles()

	data, err := os.ReadFile(path)
	if stdErrors.Is(err, fs.ErrNotExist) {
		return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
	}
	if err != nil {
		return nil, errors.ConfigError("failed to read configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return Parse(data)
}

// Parse decodes, defaults and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, errors.ConfigError("failed to parse configuration").WithCause(err).Build()
	}

	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	if err := ApplyDefaults(&cfg); err != nil {
		return nil, errors.ConfigError("failed to apply defaults").WithCause(err).Build()
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize maps enum fields onto their canonical values and rejects unknown ones.
func normalize(cfg *Config) error {
	var err error
	if cfg.Assets.Match, err = matchModes.Parse(string(cfg.Assets.Match)); err != nil {
		return enumErr("assets.match", err)
	}
	if cfg.Retry.Mode, err = retryModes.Parse(string(cfg.Retry.Mode)); err != nil {
		return enumErr("retry.mode", err)
	}
	if cfg.Logging.Level, err = logLevels.Parse(string(cfg.Logging.Level)); err != nil {
		return enumErr("logging.level", err)
	}
	if cfg.Logging.Format, err = logFormats.Parse(string(cfg.Logging.Format)); err != nil {
		return enumErr("logging.format", err)
	}
	if cfg.TemplatesGit != nil && cfg.TemplatesGit.Auth != nil {
		if cfg.TemplatesGit.Auth.Type, err = authTypes.Parse(string(cfg.TemplatesGit.Auth.Type)); err != nil {
			return enumErr("templates_git.auth.type", err)
		}
	}
	return nil
}

func enumErr(field string, err error) error {
	return errors.ConfigError("invalid configuration value").WithCause(err).WithContext("field", field).Build()
}

// LoadPages reads a standalone page list. JSON files are decoded as JSON and
// everything else as YAML; both accept a single page or a list.
func LoadPages(path string) (page.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read pages file").WithCause(err).WithContext("path", path).Build()
	}

	var pages page.List
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &pages)
	} else {
		err = yaml.Unmarshal(data, &pages)
	}
	if err != nil {
		return nil, errors.ConfigError("failed to parse pages file").WithCause(err).WithContext("path", path).Build()
	}
	if err := pages.Validate(); err != nil {
		return nil, err
	}
	return pages, nil
}

// LoadEnvFiles loads .env and .env.local when present. Variables already set
// in the process environment win.
func LoadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", f, err)
		}
	}
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileSystemError("failed to create config directory").WithCause(err).WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, bytes.TrimLeft([]byte(exampleConfig), "\n"), 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

const exampleConfig = `
# pagebuilder configuration
paths:
  templates: ./templates
  global_assets: ./global-assets
  output: ./dist

pages:
  - template: basic
    targetFolder: output
    templateData:
      title: My Site
      logo: https://example.com/logo.png
      pageTitles:
        index.html: Home

render:
  extension: .html
  strict: false
  partials_dir: partials

assets:
  match: substring   # substring | suffix
  workers: 1

images:
  timeout: 30s
  max_bytes: 20971520
  max_width: 0
  user_agent: pagebuilder/1.0

hooks:
  logo_fields: [logo]
  analyze_files: false
  pretty_urls: false

server:
  addr: ":7777"
  rebuild_interval: 0s
  # rebuild_cron: "0 * * * *"

# templates_git:
#   url: https://github.com/example/site-templates.git
#   branch: main
#   auth:
#     type: token
#     token: ${TEMPLATES_TOKEN}

retry:
  mode: linear
  initial: 1s
  max: 30s
  max_retries: 2

logging:
  level: info
  format: text
`
