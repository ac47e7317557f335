package listview

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML manifest that overrides view definitions.
type ManifestDocument struct {
	Version string         `json:"version" yaml:"version"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Views   []ManifestView `json:"views" yaml:"views"`
	Source  string         `json:"-" yaml:"-"`
}

// ManifestView overrides one view. Empty fields keep the registered value;
// a non-nil empty Operations list disables every write.
type ManifestView struct {
	Kind              EntityKind      `json:"kind" yaml:"kind"`
	Title             string          `json:"title,omitempty" yaml:"title,omitempty"`
	Endpoint          string          `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Operations        *[]Operation    `json:"operations,omitempty" yaml:"operations,omitempty"`
	CategoricalField  string          `json:"categorical_field,omitempty" yaml:"categorical_field,omitempty"`
	CategoricalValues []string        `json:"categorical_values,omitempty" yaml:"categorical_values,omitempty"`
	FieldCandidates   FieldCandidates `json:"field_candidates,omitempty" yaml:"field_candidates,omitempty"`
	CreateSchema      map[string]any  `json:"create_schema,omitempty" yaml:"create_schema,omitempty"`
	UpdateSchema      map[string]any  `json:"update_schema,omitempty" yaml:"update_schema,omitempty"`
}

// LoadManifestFile reads a manifest from disk and applies it to the registry.
func (r *Registry) LoadManifestFile(path string) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifest(doc); err != nil {
		return nil, fmt.Errorf("listview: apply manifest %s: %w", path, err)
	}
	return doc, nil
}

// ReadManifest loads a manifest file from disk without applying it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("listview: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("listview: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("listview: manifest is empty")
		}
		return nil, fmt.Errorf("listview: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("listview: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[EntityKind]struct{}, len(doc.Views))
	for idx, view := range doc.Views {
		if view.Kind == "" {
			return fmt.Errorf("listview: manifest view at index %d is missing kind", idx)
		}
		if !view.Kind.Valid() {
			return fmt.Errorf("listview: manifest view %q is not a known kind", view.Kind)
		}
		if _, exists := seen[view.Kind]; exists {
			return fmt.Errorf("listview: manifest duplicates view %s", view.Kind)
		}
		seen[view.Kind] = struct{}{}
		if view.Operations != nil {
			for _, op := range *view.Operations {
				switch op {
				case OpCreate, OpUpdate, OpDelete:
				default:
					return fmt.Errorf("listview: manifest view %s has unknown operation %q", view.Kind, op)
				}
			}
		}
		for field, keys := range view.FieldCandidates {
			if len(keys) == 0 {
				return fmt.Errorf("listview: manifest view %s field %s has no candidates", view.Kind, field)
			}
		}
	}
	return nil
}

// Encode writes the manifest as YAML.
func (doc *ManifestDocument) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (doc *ManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}

func (v ManifestView) apply(base ViewDefinition) ViewDefinition {
	base.Kind = v.Kind
	if v.Title != "" {
		base.Title = v.Title
	}
	if v.Endpoint != "" {
		base.Endpoint = v.Endpoint
	}
	if v.Operations != nil {
		base.Operations = append([]Operation{}, (*v.Operations)...)
	}
	if v.CategoricalField != "" {
		base.CategoricalField = v.CategoricalField
	}
	if len(v.CategoricalValues) > 0 {
		base.CategoricalValues = append([]string(nil), v.CategoricalValues...)
	}
	if len(v.FieldCandidates) > 0 {
		base.FieldCandidates = base.FieldCandidates.Merge(v.FieldCandidates)
	}
	if len(v.CreateSchema) > 0 {
		base.CreateSchema = v.CreateSchema
	}
	if len(v.UpdateSchema) > 0 {
		base.UpdateSchema = v.UpdateSchema
	}
	return base
}
