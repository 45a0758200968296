package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source resolves a setting from the environment first, then from the
// flattened YAML file, then from the supplied default.
//
// A file such as
//
//	mongo:
//	  uri: mongodb://db:27017
//	session:
//	  ttl: 8h
//
// provides MONGO_URI and SESSION_TTL.
type Source struct {
	file map[string]string
}

// OpenSource reads the YAML file named by CONFIG_FILE, if any.
func OpenSource() (*Source, error) {
	return NewSource(lookupEnv(EnvConfigFile))
}

// NewSource reads the YAML file at path; an empty path yields an env-only source.
func NewSource(path string) (*Source, error) {
	src := &Source{file: map[string]string{}}
	if path == "" {
		return src, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	flatten("", tree, src.file)
	return src, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func lookupEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (s *Source) Lookup(key string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s *Source) Str(key, fallback string) string {
	if value := s.Lookup(key); value != "" {
		return value
	}
	return fallback
}

func (s *Source) Num(key string, fallback int) int {
	if value := s.Lookup(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func (s *Source) Duration(key string, fallback time.Duration) time.Duration {
	if value := s.Lookup(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (s *Source) Bool(key string, fallback bool) bool {
	if value := s.Lookup(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func (s *Source) List(key string, fallback []string) []string {
	value := s.Lookup(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
