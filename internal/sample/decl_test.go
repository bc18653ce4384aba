package sample

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func declRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register(validDef()); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestResolveDecl(t *testing.T) {
	r := declRegistry(t)

	d, err := ResolveDecl(&DeclDoc{
		Sample:  "demo",
		Preset:  "high",
		Initial: map[string]float64{"a": 4},
		Speed:   2.5,
		Seed:    42,
	}, r)
	if err != nil {
		t.Fatal(err)
	}

	// initial overrides win over the preset
	if d.Params[0].Value != 4 {
		t.Errorf("value got %v, expected initial override 4", d.Params[0].Value)
	}
	if d.Speed != 2.5 || d.Seed != 42 {
		t.Errorf("speed/seed got %v/%v, expected 2.5/42", d.Speed, d.Seed)
	}

	// the registered declaration is untouched
	base, _ := r.Get("demo")
	if base.Params[0].Value != 1 {
		t.Error("resolution mutated the registered declaration")
	}
}

func TestResolveDeclErrors(t *testing.T) {
	r := declRegistry(t)

	if _, err := ResolveDecl(&DeclDoc{}, r); !errors.Is(err, ErrConfig) {
		t.Errorf("empty doc got %v, expected ErrConfig", err)
	}
	if _, err := ResolveDecl(&DeclDoc{Sample: "nope"}, r); !errors.Is(err, ErrUnknownSample) {
		t.Errorf("unknown sample got %v, expected ErrUnknownSample", err)
	}
	if _, err := ResolveDecl(&DeclDoc{Sample: "demo", Preset: "nope"}, r); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown preset got %v, expected ErrConfig", err)
	}
	bad := &DeclDoc{Sample: "demo", Initial: map[string]float64{"ghost": 1}}
	if _, err := ResolveDecl(bad, r); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown initial key got %v, expected ErrConfig", err)
	}
}

func TestLoadDecl(t *testing.T) {
	r := declRegistry(t)

	path := filepath.Join(t.TempDir(), "demo.yaml")
	doc := `sample: demo
title: Demo run
preset: high
initial:
  a: 3
speed: 2
seed: 7
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDecl(path, r)
	if err != nil {
		t.Fatal(err)
	}
	if d.Title != "Demo run" {
		t.Errorf("title got %q", d.Title)
	}
	if d.Params[0].Value != 3 {
		t.Errorf("value got %v, expected 3", d.Params[0].Value)
	}
	if d.Speed != 2 || d.Seed != 7 {
		t.Errorf("speed/seed got %v/%v, expected 2/7", d.Speed, d.Seed)
	}
}

func TestLoadDeclBadYAML(t *testing.T) {
	r := declRegistry(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("sample: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDecl(path, r); !errors.Is(err, ErrConfig) {
		t.Errorf("got %v, expected ErrConfig", err)
	}

	if _, err := LoadDecl(filepath.Join(t.TempDir(), "absent.yaml"), r); err == nil {
		t.Error("missing file did not error")
	}
}
