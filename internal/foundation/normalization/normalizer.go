// Package normalization maps loosely written config strings onto typed enums.
package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Normalizer looks values up ignoring case and surrounding whitespace.
type Normalizer[T comparable] struct {
	byKey    map[string]T
	fallback T
}

// NewNormalizer indexes values by their cleaned key. fallback is returned
// for empty input and, by Normalize, for unknown input.
func NewNormalizer[T comparable](values map[string]T, fallback T) *Normalizer[T] {
	n := &Normalizer[T]{byKey: make(map[string]T, len(values)), fallback: fallback}
	for k, v := range values {
		n.byKey[clean(k)] = v
	}
	return n
}

// Normalize never fails; unknown input gives the fallback.
func (n *Normalizer[T]) Normalize(raw string) T {
	v, ok := n.byKey[clean(raw)]
	if !ok {
		return n.fallback
	}
	return v
}

// Parse is the strict form of Normalize. Unknown non-empty input is an
// error that names the accepted keys.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	key := clean(raw)
	if key == "" {
		return n.fallback, nil
	}
	v, ok := n.byKey[key]
	if !ok {
		return v, fmt.Errorf("invalid value %q, valid options: %s", raw, strings.Join(n.ValidKeys(), ", "))
	}
	return v, nil
}

// ValidKeys returns a fresh sorted slice of the accepted keys.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Sorted(maps.Keys(n.byKey))
}

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
