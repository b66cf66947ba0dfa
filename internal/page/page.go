// Package page defines the unit of a site build: which template set to render,
// where to write it, and the data the templates see.
package page

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// Template data keys. Title and PageTitles are read from caller data; the
// remaining keys are injected by the renderer and should not be pre-populated.
const (
	KeyTitle         = "title"
	KeyPageTitles    = "pageTitles"
	KeyPageTitle     = "pageTitle"
	KeyTemplate      = "template"
	KeyFiles         = "__files"
	KeyFilesAnalyzed = "__filesAnalized"
)

// GlobalAssetsFolder is the output directory shared by every page. Pages may
// not target it or anything below it.
const GlobalAssetsFolder = "global-assets"

// Config is one page/site build unit.
type Config struct {
	Template     string         `yaml:"template" json:"template" validate:"required"`
	TargetFolder string         `yaml:"targetFolder" json:"targetFolder" validate:"required"`
	TemplateData map[string]any `yaml:"templateData,omitempty" json:"templateData,omitempty"`
}

var validate = validator.New()

// Validate checks required fields and that TargetFolder stays inside the output root.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid page config").
			Fatal().
			WithContext("template", c.Template).
			WithContext("targetFolder", c.TargetFolder).
			Build()
	}
	clean := filepath.Clean(filepath.FromSlash(c.TargetFolder))
	if filepath.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.ValidationError("targetFolder must be a subdirectory of the output root").
			WithContext("targetFolder", c.TargetFolder).
			Build()
	}
	if first, _, _ := strings.Cut(clean, string(filepath.Separator)); strings.EqualFold(first, GlobalAssetsFolder) {
		return errors.ValidationError("targetFolder must not overlap the shared global-assets folder").
			WithContext("targetFolder", c.TargetFolder).
			Build()
	}
	if strings.ContainsAny(c.Template, `/\`) || c.Template == ".." {
		return errors.ValidationError("template must name a single template set").
			WithContext("template", c.Template).
			Build()
	}
	return nil
}

// Clone returns a copy of c with its own top-level TemplateData map.
// Nested values are shared.
func (c Config) Clone() Config {
	cp := c
	if c.TemplateData != nil {
		cp.TemplateData = maps.Clone(c.TemplateData)
	}
	return cp
}

// EnsureData makes sure TemplateData is non-nil so the pipeline can inject keys.
func (c *Config) EnsureData() {
	if c.TemplateData == nil {
		c.TemplateData = make(map[string]any)
	}
}

// List is an ordered batch of page configs. It decodes from either a single
// mapping or a sequence so callers can pass one config or many.
type List []Config

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var c Config
		if err := node.Decode(&c); err != nil {
			return err
		}
		*l = List{c}
		return nil
	case yaml.SequenceNode:
		var cs []Config
		if err := node.Decode(&cs); err != nil {
			return err
		}
		*l = cs
		return nil
	default:
		return fmt.Errorf("pages: expected a mapping or a sequence, got %s", node.Tag)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*l = nil
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var c Config
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*l = List{c}
		return nil
	default:
		var cs []Config
		if err := json.Unmarshal(data, &cs); err != nil {
			return err
		}
		*l = cs
		return nil
	}
}

// Validate validates every config in order and returns the first failure.
func (l List) Validate() error {
	for i, c := range l {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
	}
	return nil
}
