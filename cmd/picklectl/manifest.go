package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ettle/strcase"

	listview "github.com/goliatone/go-listview/components/listview"
)

type manifestCmd struct {
	Init manifestInitCmd `cmd:"" help:"Write a manifest describing the built-in views."`
	Add  manifestAddCmd  `cmd:"" help:"Add or replace one view override."`
}

type manifestInitCmd struct {
	Path      string `arg:"" type:"path" help:"Manifest file to write."`
	Name      string `default:"store-admin" help:"Manifest name."`
	Overwrite bool   `help:"Replace an existing file."`
}

func (cmd *manifestInitCmd) Run(_ context.Context) error {
	if _, err := os.Stat(cmd.Path); err == nil && !cmd.Overwrite {
		return fmt.Errorf("picklectl: %s already exists (use --overwrite)", cmd.Path)
	}
	doc := &listview.ManifestDocument{
		Version: listview.ManifestVersion,
		Name:    cmd.Name,
	}
	for _, def := range listview.DefaultViewDefinitions() {
		ops := slices.Clone(def.Operations)
		doc.Views = append(doc.Views, listview.ManifestView{
			Kind:              def.Kind,
			Title:             def.Title,
			Endpoint:          def.Endpoint,
			Operations:        &ops,
			CategoricalField:  def.CategoricalField,
			CategoricalValues: def.CategoricalValues,
		})
	}
	if err := writeManifest(cmd.Path, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote %d views to %s\n", len(doc.Views), cmd.Path)
	return nil
}

type manifestAddCmd struct {
	Path             string              `arg:"" type:"path" help:"Manifest file to update (created when missing)."`
	Kind             listview.EntityKind `required:"" enum:"${kinds}" help:"View to override (${enum})."`
	Title            string              `help:"Screen title (defaults to the kind in title case)."`
	Endpoint         string              `help:"Collection endpoint relative to the base URL."`
	Operation        []string            `help:"Allowed writes: create, update, delete. Pass 'none' for a read-only view."`
	CategoricalField string              `name:"categorical-field" help:"Attribute the categorical filter reads."`
	CategoricalValue []string            `name:"categorical-value" help:"Values offered by the categorical filter."`
	Candidate        map[string]string   `help:"Field candidates as field=key1,key2 (repeatable)."`
	Overwrite        bool                `help:"Replace an existing entry for the kind."`
}

func (cmd *manifestAddCmd) Run(_ context.Context) error {
	doc, err := loadOrInitManifest(cmd.Path)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(doc.Views, func(v listview.ManifestView) bool { return v.Kind == cmd.Kind })
	if idx >= 0 && !cmd.Overwrite {
		return fmt.Errorf("picklectl: manifest already overrides %s (use --overwrite to replace)", cmd.Kind)
	}
	view, err := cmd.view()
	if err != nil {
		return err
	}
	if idx >= 0 {
		doc.Views[idx] = view
	} else {
		doc.Views = append(doc.Views, view)
	}
	slices.SortFunc(doc.Views, func(a, b listview.ManifestView) int { return strings.Compare(string(a.Kind), string(b.Kind)) })
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(cmd.Path, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Kind, cmd.Path)
	return nil
}

func (cmd *manifestAddCmd) view() (listview.ManifestView, error) {
	view := listview.ManifestView{
		Kind:              cmd.Kind,
		Title:             cmd.Title,
		Endpoint:          cmd.Endpoint,
		CategoricalField:  strcase.ToSnake(cmd.CategoricalField),
		CategoricalValues: cmd.CategoricalValue,
	}
	if view.Title == "" {
		view.Title = cmd.Kind.Label()
	}
	if len(cmd.Operation) > 0 {
		ops := []listview.Operation{}
		for _, raw := range cmd.Operation {
			op := listview.Operation(strings.ToLower(strings.TrimSpace(raw)))
			if op == "none" {
				continue
			}
			ops = append(ops, op)
		}
		view.Operations = &ops
	}
	if len(cmd.Candidate) > 0 {
		view.FieldCandidates = listview.FieldCandidates{}
		for field, list := range cmd.Candidate {
			var keys listview.Candidates
			for _, key := range strings.Split(list, ",") {
				if key = strings.TrimSpace(key); key != "" {
					keys = append(keys, key)
				}
			}
			if len(keys) == 0 {
				return listview.ManifestView{}, fmt.Errorf("picklectl: candidate %s has no keys", field)
			}
			view.FieldCandidates[strcase.ToSnake(field)] = keys
		}
	}
	return view, nil
}

func loadOrInitManifest(path string) (*listview.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &listview.ManifestDocument{Version: listview.ManifestVersion, Source: path}, nil
		}
		return nil, fmt.Errorf("picklectl: stat manifest: %w", err)
	}
	return listview.ReadManifest(path)
}

func writeManifest(path string, doc *listview.ManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("picklectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("picklectl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	if err := doc.Encode(file); err != nil {
		return fmt.Errorf("picklectl: write manifest: %w", err)
	}
	return nil
}
