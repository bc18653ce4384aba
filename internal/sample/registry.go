package sample

import "fmt"

// Registry holds sample declarations by name, preserving registration
// order for listings.
type Registry struct {
	names []string
	defs  map[string]*Def
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register validates and stores a declaration.
func (r *Registry) Register(d *Def) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, ok := r.defs[d.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSample, d.Name)
	}
	r.defs[d.Name] = d
	r.names = append(r.names, d.Name)
	return nil
}

// Get returns the declaration registered under name.
func (r *Registry) Get(name string) (*Def, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSample, name)
	}
	return d, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
