package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"tensorpool/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
// MaxArenaBytes defaults to 1 GiB; a negative value disables the cap.
type Config struct {
	Addr          string `json:"addr" yaml:"addr" toml:"addr"`
	Planner       string `json:"planner" yaml:"planner" toml:"planner"`
	LogLevel      string `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxArenaBytes int    `json:"max_arena_bytes" yaml:"max_arena_bytes" toml:"max_arena_bytes"`
	MaxBodyBytes  int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := fsutil.ReadFile(path, 0)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Merge returns base with every non-zero field of override applied on top.
func Merge(base, override Config) Config {
	out := base
	if override.Addr != "" {
		out.Addr = override.Addr
	}
	if override.Planner != "" {
		out.Planner = override.Planner
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.MaxArenaBytes != 0 {
		out.MaxArenaBytes = override.MaxArenaBytes
	}
	if override.MaxBodyBytes != 0 {
		out.MaxBodyBytes = override.MaxBodyBytes
	}
	if override.CORSEnabled {
		out.CORSEnabled = true
	}
	if len(override.CORSAllowedOrigins) > 0 {
		out.CORSAllowedOrigins = override.CORSAllowedOrigins
	}
	if len(override.CORSAllowedMethods) > 0 {
		out.CORSAllowedMethods = override.CORSAllowedMethods
	}
	if len(override.CORSAllowedHeaders) > 0 {
		out.CORSAllowedHeaders = override.CORSAllowedHeaders
	}
	return out
}
