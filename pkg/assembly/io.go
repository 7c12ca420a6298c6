package assembly

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kinetree/pkg/errors"
)

// ReadJSON decodes a JSON assembly from r and validates it.
//
// The input must be a JSON object with "parts" and "joints" arrays:
//
//	{
//	  "name": "pendulum",
//	  "parts": [{"name": "Base"}, {"name": "Arm"}],
//	  "joints": [{"name": "Hinge", "kind": "revolute", "part1": "Base", "part2": "Arm"}]
//	}
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed and the
// errors of [Validate] for bad names or references. It does not close r.
func ReadJSON(r io.Reader) (*Assembly, error) {
	var a Assembly
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON assembly")
	}
	if err := Validate(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReadYAML decodes a YAML assembly from r and validates it.
// The document layout mirrors the JSON format field for field.
func ReadYAML(r io.Reader) (*Assembly, error) {
	var a Assembly
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML assembly")
	}
	if err := Validate(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Import reads the assembly file at path, choosing the decoder by extension:
// .yaml and .yml are YAML, everything else is JSON. When the assembly has no
// name, the file's base name is used.
func Import(path string) (*Assembly, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var a *Assembly
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		a, err = ReadYAML(f)
	default:
		a, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return a, nil
}

// WriteJSON encodes a as indented JSON. The output is stable for a given
// assembly value and is what cache keys hash.
func WriteJSON(a *Assembly, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
