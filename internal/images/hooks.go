package images

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// Resolver maps an image URL to the URL templates should reference.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) string
}

// LogoHooks returns a hook set that replaces each template-data field named
// in fields with its resolved URL. Fields are dotted paths ("info.logo").
// Missing or non-string fields are left alone. The caller's config and any
// nested maps along a rewritten path are copied, never modified.
func LogoHooks(r Resolver, fields []string) hooks.Set {
	if len(fields) == 0 {
		return hooks.Set{}
	}
	return hooks.Set{
		OnBeforeItemRender: func(ctx context.Context, cfg page.Config) (page.Config, error) {
			out := cfg.Clone()
			for _, field := range fields {
				keys := strings.Split(field, ".")
				raw, ok := lookup(out.TemplateData, keys)
				if !ok || raw == "" {
					continue
				}
				out.TemplateData = assign(out.TemplateData, keys, r.Resolve(ctx, raw))
			}
			return out, nil
		},
	}
}

func lookup(data map[string]any, keys []string) (string, bool) {
	var cur any = data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[k]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// assign returns a copy of data with keys set to value, copying every map on
// the path.
func assign(data map[string]any, keys []string, value string) map[string]any {
	cp := make(map[string]any, len(data)+1)
	for k, v := range data {
		cp[k] = v
	}
	if len(keys) == 1 {
		cp[keys[0]] = value
		return cp
	}
	child, _ := cp[keys[0]].(map[string]any)
	cp[keys[0]] = assign(child, keys[1:], value)
	return cp
}
