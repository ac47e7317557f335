package listview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadValidator checks create/update payloads before they are sent.
type PayloadValidator interface {
	Validate(def ViewDefinition, op Operation, payload map[string]any) error
}

// JSONSchemaValidator compiles view schemas and validates payload maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the payload satisfies the schema for op. Violations are
// returned as a ValidationError with one field error per failing location.
func (v *JSONSchemaValidator) Validate(def ViewDefinition, op Operation, payload map[string]any) error {
	raw := def.Schema(op)
	if len(raw) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def, op, raw)
	if err != nil {
		return err
	}
	var doc map[string]any
	if payload == nil {
		doc = map[string]any{}
	} else {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("listview: marshal %s payload for %s: %w", op, def.Kind, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("listview: normalize %s payload for %s: %w", op, def.Kind, err)
		}
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return NewValidationError(
				fmt.Sprintf("%s payload for %s is invalid", op, def.Kind),
				fieldErrors(verr)...,
			)
		}
		return fmt.Errorf("listview: %s payload for %s failed validation: %w", op, def.Kind, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def ViewDefinition, op Operation, raw map[string]any) (*jsonschema.Schema, error) {
	key := string(def.Kind) + "." + string(op)
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("listview: marshal schema %s: %w", key, err)
	}
	compiler := jsonschema.NewCompiler()
	name := key + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("listview: load schema %s: %w", key, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("listview: compile schema %s: %w", key, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// Forget drops cached schemas for kind, e.g. after a manifest reload.
func (v *JSONSchemaValidator) Forget(kind EntityKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key := range v.compiled {
		if strings.HasPrefix(key, string(kind)+".") {
			delete(v.compiled, key)
		}
	}
}

func fieldErrors(verr *jsonschema.ValidationError) []goerrors.FieldError {
	if len(verr.Causes) == 0 {
		field := strings.TrimPrefix(verr.InstanceLocation, "/")
		if field == "" {
			field = "payload"
		}
		return []goerrors.FieldError{{Field: field, Message: verr.Message}}
	}
	var out []goerrors.FieldError
	for _, cause := range verr.Causes {
		out = append(out, fieldErrors(cause)...)
	}
	return out
}

type noopValidator struct{}

func (noopValidator) Validate(ViewDefinition, Operation, map[string]any) error { return nil }
