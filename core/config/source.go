package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Source is an ordered chain of providers. Later providers override keys of
// earlier ones. Source values are immutable: Merge returns a new Source.
type Source struct {
	providers []Provider
}

// NewSource creates a source from providers in precedence order.
func NewSource(providers ...Provider) *Source {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Source{providers: ps}
}

// DefaultSource reads .env and then LIFTOFF_-prefixed environment variables.
func DefaultSource() *Source {
	return NewSource(Dotenv(), Env(DefaultPrefix))
}

// Merge returns a new source with p added at the highest precedence.
// If p is itself a *Source, its providers are appended in order.
func (s *Source) Merge(p Provider) *Source {
	ps := make([]Provider, 0, len(s.providers)+1)
	ps = append(ps, s.providers...)
	if inner, ok := p.(*Source); ok {
		ps = append(ps, inner.providers...)
	} else if p != nil {
		ps = append(ps, p)
	}
	return &Source{providers: ps}
}

// Providers returns the provider chain in precedence order.
func (s *Source) Providers() []Provider {
	out := make([]Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Name implements Provider so a Source can be nested in another.
func (s *Source) Name() string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return "[" + strings.Join(names, " < ") + "]"
}

// Values merges every provider's values.
func (s *Source) Values() (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range s.providers {
		vals, err := p.Values()
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	return out, nil
}

// Profile returns the selected profile, or DebugProfile when the source does
// not set one or cannot be read.
func (s *Source) Profile() string {
	vals, err := s.Values()
	if err != nil {
		return DebugProfile
	}
	if p := strings.TrimSpace(vals["PROFILE"]); p != "" {
		return p
	}
	return DebugProfile
}

// Extract decodes the merged values into T using its env struct tags.
func Extract[T any](s *Source) (T, error) {
	var out T
	if err := ExtractInto(s, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ExtractInto decodes the merged values into the struct pointed to by dst.
func ExtractInto(s *Source, dst any) error {
	vals, err := s.Values()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}
	if err := env.ParseWithOptions(dst, env.Options{Environment: vals}); err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}
	return nil
}
