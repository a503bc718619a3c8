// Package manifest reads graph manifests: the tensors a graph requests, the
// execution orders that touch them and the window to plan.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"tensorpool/internal/common/fsutil"
	"tensorpool/pkg/types"
)

// maxManifestBytes bounds how much of a manifest is read, local or remote.
const maxManifestBytes = 64 << 20

// Format selects a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension.
// Supports: .yaml/.yml, .json, .toml
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported manifest extension: %q", ext)
	}
}

// Decode parses b in the given format.
func Decode(b []byte, f Format) (types.Manifest, error) {
	var m types.Manifest
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(b, &m)
	case FormatJSON:
		err = json.Unmarshal(b, &m)
	case FormatTOML:
		err = toml.Unmarshal(b, &m)
	default:
		return m, fmt.Errorf("unsupported manifest format: %q", f)
	}
	if err != nil {
		return m, fmt.Errorf("decode %s manifest: %w", f, err)
	}
	return m, nil
}

// Load reads a manifest file from the local filesystem.
func Load(path string) (types.Manifest, error) {
	if path == "" {
		return types.Manifest{}, fmt.Errorf("empty manifest path")
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return types.Manifest{}, err
	}
	b, err := fsutil.ReadFile(path, maxManifestBytes)
	if err != nil {
		return types.Manifest{}, err
	}
	return Decode(b, f)
}

// Open reads a manifest from a local path or a gs://bucket/object URL.
func Open(ctx context.Context, uri string) (types.Manifest, error) {
	if strings.HasPrefix(uri, "gs://") {
		return loadGCS(ctx, uri)
	}
	return Load(uri)
}
