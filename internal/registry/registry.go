// Package registry holds the static dictionary of known record models:
// which fields identify each model and which models must be loaded before
// it. The registry is built once at startup and is read-only afterwards.
package registry

import (
	"fmt"
	"sort"
)

// FieldSignature describes one recognizable field of a model. Matching is
// performed on normalized header names against the canonical name and all
// aliases. Required fields carry a higher weight than optional ones.
type FieldSignature struct {
	CanonicalName string   `json:"canonical_name"`
	Aliases       []string `json:"aliases,omitempty"`
	Required      bool     `json:"required"`
	Weight        float64  `json:"weight"`
}

// ModelProfile describes one known record model: its identifying field
// signatures and the models that must be processed before it when both
// appear in the same batch.
type ModelProfile struct {
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Fields    []FieldSignature `json:"fields"`
	DependsOn []string         `json:"depends_on,omitempty"`
}

// RequiredWeight returns the sum of weights of all required signatures.
func (p *ModelProfile) RequiredWeight() float64 {
	var total float64
	for _, f := range p.Fields {
		if f.Required {
			total += f.Weight
		}
	}
	return total
}

// Registry is an immutable lookup of model profiles.
type Registry struct {
	profiles []ModelProfile
	byName   map[string]*ModelProfile
}

// New builds a Registry from the given profiles. Profile names must be
// unique and every depends_on entry must name a declared profile.
func New(profiles []ModelProfile) (*Registry, error) {
	r := &Registry{
		profiles: profiles,
		byName:   make(map[string]*ModelProfile, len(profiles)),
	}
	for i := range profiles {
		p := &r.profiles[i]
		if _, ok := r.byName[p.Name]; ok {
			return nil, fmt.Errorf("duplicate model profile %q", p.Name)
		}
		r.byName[p.Name] = p
	}
	for i := range profiles {
		p := &r.profiles[i]
		for _, dep := range p.DependsOn {
			if _, ok := r.byName[dep]; !ok {
				return nil, fmt.Errorf("model %q depends on undeclared model %q", p.Name, dep)
			}
		}
	}
	return r, nil
}

// All returns every profile, sorted by model name.
func (r *Registry) All() []ModelProfile {
	out := make([]ModelProfile, len(r.profiles))
	copy(out, r.profiles)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the profile for the given model name.
func (r *Registry) Get(name string) (*ModelProfile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}
