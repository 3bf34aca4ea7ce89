/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package skills

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrDuplicateCapability is returned when a capability id is already registered.
	ErrDuplicateCapability = errors.New("duplicate capability")

	// ErrInvalidCapability is returned when a capability cannot be registered as given.
	ErrInvalidCapability = errors.New("invalid capability")
)

// Capability describes one skill the agent may be asked to apply.
type Capability struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Instruction string   `json:"instruction" yaml:"instruction"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	// Events lists the event types this capability applies to.
	// An empty list means it applies to every event type.
	Events []string `json:"events,omitempty" yaml:"events,omitempty"`
}

// AppliesTo reports whether the capability should be loaded for eventType.
func (c Capability) AppliesTo(eventType string) bool {
	return len(c.Events) == 0 || slices.Contains(c.Events, eventType)
}

// Title is the heading used for the capability in prompts.
func (c Capability) Title() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func (c Capability) clone() Capability {
	c.Examples = slices.Clone(c.Examples)
	c.Constraints = slices.Clone(c.Constraints)
	c.Events = slices.Clone(c.Events)
	return c
}

// Registry is an ordered, concurrency-safe set of capabilities keyed by id.
type Registry struct {
	mu   sync.RWMutex
	caps []Capability
}

// NewRegistry creates a registry holding caps in the given order.
func NewRegistry(caps ...Capability) (*Registry, error) {
	r := &Registry{caps: make([]Capability, 0, len(caps))}
	for _, c := range caps {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ForEvent returns the capabilities that apply to eventType, in registration order.
func (r *Registry) ForEvent(eventType string) []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Capability, 0, len(r.caps))
	for _, c := range r.caps {
		if c.AppliesTo(eventType) {
			out = append(out, c.clone())
		}
	}
	return out
}

// All returns every registered capability in registration order.
func (r *Registry) All() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Capability, 0, len(r.caps))
	for _, c := range r.caps {
		out = append(out, c.clone())
	}
	return out
}

// Get looks up a capability by id.
func (r *Registry) Get(id string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.caps {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return Capability{}, false
}

// Add appends c to the registry.
func (r *Registry) Add(c Capability) error {
	if c.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidCapability)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.caps {
		if existing.ID == c.ID {
			return fmt.Errorf("%w: %q", ErrDuplicateCapability, c.ID)
		}
	}
	r.caps = append(r.caps, c.clone())
	return nil
}

// Remove deletes the capability with the given id and reports whether one was removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.caps, func(c Capability) bool { return c.ID == id })
	if idx < 0 {
		return false
	}
	r.caps = slices.Delete(r.caps, idx, idx+1)
	return true
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caps)
}
