/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas for tool argument structs.
package schema

import (
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with the defaults used for tool arguments:
// structs are inlined, and only fields tagged `jsonschema:"required"` are required.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator for tool argument schemas.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for the provided value.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// Reflect derives the JSON schema for the provided value using a default generator.
func Reflect(v any) *jsonschema.Schema {
	return NewGenerator().Reflect(v)
}

var cache sync.Map // reflect.Type -> *jsonschema.Schema

// ReflectType reflects a zero value of T. Results are cached per type and
// must be treated as read-only.
func ReflectType[T any]() *jsonschema.Schema {
	typ := reflect.TypeFor[T]()
	if s, ok := cache.Load(typ); ok {
		return s.(*jsonschema.Schema)
	}

	var zero T
	s, _ := cache.LoadOrStore(typ, Reflect(&zero))
	return s.(*jsonschema.Schema)
}
