package listview

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Operation names a single-record write.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ViewDefinition describes one list screen: where it reads from, what it may
// write and how its records are normalized and filtered.
type ViewDefinition struct {
	Kind              EntityKind      `json:"kind" yaml:"kind"`
	Title             string          `json:"title" yaml:"title"`
	Endpoint          string          `json:"endpoint" yaml:"endpoint"`
	Operations        []Operation     `json:"operations" yaml:"operations"`
	CategoricalField  string          `json:"categorical_field" yaml:"categorical_field"`
	CategoricalValues []string        `json:"categorical_values,omitempty" yaml:"categorical_values,omitempty"`
	FieldCandidates   FieldCandidates `json:"field_candidates,omitempty" yaml:"field_candidates,omitempty"`
	CreateSchema      map[string]any  `json:"create_schema,omitempty" yaml:"create_schema,omitempty"`
	UpdateSchema      map[string]any  `json:"update_schema,omitempty" yaml:"update_schema,omitempty"`
}

// Allows reports whether the view exposes op.
func (d ViewDefinition) Allows(op Operation) bool {
	return slices.Contains(d.Operations, op)
}

// Schema returns the payload schema for op, if any.
func (d ViewDefinition) Schema(op Operation) map[string]any {
	switch op {
	case OpCreate:
		return d.CreateSchema
	case OpUpdate:
		return d.UpdateSchema
	}
	return nil
}

// RecordPath is the endpoint for a single record.
func (d ViewDefinition) RecordPath(id string) string {
	return strings.TrimSuffix(d.Endpoint, "/") + "/" + id
}

// ViewHook lets packages adjust registries during init().
type ViewHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ViewHook
)

// RegisterViewHook registers a hook executed against new registries.
func RegisterViewHook(h ViewHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// ViewRegistry resolves view definitions by kind.
type ViewRegistry interface {
	Definition(kind EntityKind) (ViewDefinition, bool)
	Definitions() []ViewDefinition
}

// Registry holds view definitions with hook and manifest support.
type Registry struct {
	mu          sync.RWMutex
	definitions map[EntityKind]ViewDefinition
}

// NewRegistry builds a registry seeded with the default views and applies
// global hooks.
func NewRegistry() *Registry {
	reg := &Registry{definitions: map[EntityKind]ViewDefinition{}}
	for _, def := range DefaultViewDefinitions() {
		_ = reg.Register(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered view hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register adds or replaces a definition.
func (r *Registry) Register(def ViewDefinition) error {
	if def.Kind == "" {
		return fmt.Errorf("view definition kind is required")
	}
	if strings.TrimSpace(def.Endpoint) == "" {
		return fmt.Errorf("view definition %s requires an endpoint", def.Kind)
	}
	if def.Title == "" {
		def.Title = def.Kind.Label()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Kind] = def
	return nil
}

// Definition looks up the definition for kind.
func (r *Registry) Definition(kind EntityKind) (ViewDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[kind]
	return def, ok
}

// Definitions returns every definition sorted by kind.
func (r *Registry) Definitions() []ViewDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ViewDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// LoadManifest applies manifest entries over the registered definitions.
func (r *Registry) LoadManifest(doc *ManifestDocument) error {
	if doc == nil {
		return nil
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	for _, entry := range doc.Views {
		base, _ := r.Definition(entry.Kind)
		if err := r.Register(entry.apply(base)); err != nil {
			return err
		}
	}
	return nil
}

// CandidateOverrides collects per-kind candidate overrides for a Normalizer.
func (r *Registry) CandidateOverrides() map[EntityKind]FieldCandidates {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[EntityKind]FieldCandidates, len(r.definitions))
	for kind, def := range r.definitions {
		if len(def.FieldCandidates) > 0 {
			out[kind] = def.FieldCandidates
		}
	}
	return out
}
