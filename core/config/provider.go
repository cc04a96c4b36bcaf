package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPrefix is stripped from environment variable names by Env and Dotenv.
const DefaultPrefix = "LIFTOFF_"

// Provider supplies configuration values as flat, upper-case keys without
// the environment prefix, e.g. "PROFILE" or "SHUTDOWN_GRACE".
type Provider interface {
	Name() string
	Values() (map[string]string, error)
}

// Map is a static provider. Keys are upper-cased.
type Map map[string]string

// Name implements Provider.
func (m Map) Name() string { return "map" }

// Values implements Provider.
func (m Map) Values() (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[normalizeKey(k)] = v
	}
	return out, nil
}

type envProvider struct {
	prefix string
}

// Env reads process environment variables starting with prefix and strips it.
// An empty prefix selects DefaultPrefix.
func Env(prefix string) Provider {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return envProvider{prefix: prefix}
}

func (p envProvider) Name() string { return "env(" + p.prefix + "*)" }

func (p envProvider) Values() (map[string]string, error) {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key, ok := strings.CutPrefix(k, p.prefix); ok && key != "" {
			out[normalizeKey(key)] = v
		}
	}
	return out, nil
}

type dotenvProvider struct {
	files []string
}

// Dotenv reads DefaultPrefix-ed keys from .env files. Missing files are
// skipped; later files override earlier ones.
func Dotenv(files ...string) Provider {
	if len(files) == 0 {
		files = []string{".env"}
	}
	return dotenvProvider{files: files}
}

func (p dotenvProvider) Name() string { return "dotenv(" + strings.Join(p.files, ",") + ")" }

func (p dotenvProvider) Values() (map[string]string, error) {
	out := make(map[string]string)
	for _, file := range p.files {
		vals, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrProvider, file, err)
		}
		for k, v := range vals {
			if key, ok := strings.CutPrefix(k, DefaultPrefix); ok && key != "" {
				out[normalizeKey(key)] = v
			}
		}
	}
	return out, nil
}

type fileProvider struct {
	path     string
	required bool
}

// File reads a structured file (YAML, TOML or JSON, chosen by extension).
// Nested keys are joined with "_": shutdown.grace becomes SHUTDOWN_GRACE.
// A missing file is skipped.
func File(path string) Provider {
	return fileProvider{path: path}
}

// RequiredFile is like File but a missing file is an error.
func RequiredFile(path string) Provider {
	return fileProvider{path: path, required: true}
}

func (p fileProvider) Name() string { return "file(" + p.path + ")" }

func (p fileProvider) Values() (map[string]string, error) {
	if _, err := os.Stat(p.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !p.required {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrProvider, p.path, err)
	}

	v := viper.New()
	v.SetConfigFile(p.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProvider, p.path, err)
	}

	out := make(map[string]string)
	for _, key := range v.AllKeys() {
		out[normalizeKey(strings.ReplaceAll(key, ".", "_"))] = stringify(v.Get(key))
	}
	return out, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}

func normalizeKey(k string) string {
	return strings.ToUpper(strings.TrimSpace(k))
}
