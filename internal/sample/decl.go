package sample

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeclDoc is the YAML form of a sample launch: which registered sample
// to run and how to season it. Model and view code stays registered in
// Go; the document only references it by name.
type DeclDoc struct {
	Sample  string             `yaml:"sample"`
	Title   string             `yaml:"title"`
	Preset  string             `yaml:"preset"`
	Initial map[string]float64 `yaml:"initial"`
	Speed   float64            `yaml:"speed"`
	Seed    int64              `yaml:"seed"`
}

// LoadDecl reads a declaration document and resolves it against the
// registry into a ready-to-run Def. Preset values apply first, then
// per-key initial overrides.
func LoadDecl(path string, reg *Registry) (*Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc DeclDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return ResolveDecl(&doc, reg)
}

// ResolveDecl turns a parsed document into a Def.
func ResolveDecl(doc *DeclDoc, reg *Registry) (*Def, error) {
	if doc.Sample == "" {
		return nil, fmt.Errorf("%w: declaration names no sample", ErrConfig)
	}
	base, err := reg.Get(doc.Sample)
	if err != nil {
		return nil, err
	}
	d := base.Clone()

	if doc.Title != "" {
		d.Title = doc.Title
	}
	if doc.Preset != "" {
		if err := ApplyPreset(d, doc.Preset); err != nil {
			return nil, err
		}
	}
	if err := applyValues(d, doc.Initial); err != nil {
		return nil, err
	}
	if doc.Speed > 0 {
		d.Speed = doc.Speed
	}
	if doc.Seed != 0 {
		d.Seed = doc.Seed
	}
	return d, nil
}
