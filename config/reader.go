package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a skeleton description.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, JSON unless it is .yaml or .yml.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Read reads a skeleton description from a file, expanding environment variables first.
func Read(path string) (*SkeletonConfig, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return Unmarshal(buf, FormatFromPath(path))
}

// Unmarshal decodes a skeleton description. Unknown fields are rejected.
func Unmarshal(data []byte, format Format) (*SkeletonConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("skeleton description is empty")
	}
	cfg := &SkeletonConfig{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal json")
		}
	default:
		return nil, errors.Errorf("unsupported format %q", format)
	}
	return cfg, nil
}

// Schema returns the JSON schema of a skeleton description.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{}
	return r.Reflect(&SkeletonConfig{})
}
