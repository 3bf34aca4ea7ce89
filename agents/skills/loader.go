/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package skills

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type document struct {
	Capabilities []Capability `yaml:"capabilities"`
}

// LoadYAML parses a capabilities document. Unknown fields are rejected.
func LoadYAML(r io.Reader) ([]Capability, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding capabilities: %w", err)
	}
	for i, c := range doc.Capabilities {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidCapability, i)
		}
		if c.Instruction == "" {
			return nil, fmt.Errorf("%w: %q has no instruction", ErrInvalidCapability, c.ID)
		}
	}
	return doc.Capabilities, nil
}

// LoadFile reads a capabilities document from path.
func LoadFile(path string) ([]Capability, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capabilities file: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// Default builds a registry holding the built-in capabilities followed by
// those in path, when path is non-empty.
func Default(path string) (*Registry, error) {
	caps := Builtin()
	if path != "" {
		extra, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		caps = append(caps, extra...)
	}
	return NewRegistry(caps...)
}
