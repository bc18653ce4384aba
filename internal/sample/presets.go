package sample

import (
	"fmt"
	"sort"
)

// ApplyPreset overwrites the def's initial parameter values with the
// named preset bundle. The def should be a Clone of the registered one.
func ApplyPreset(d *Def, name string) error {
	vals, ok := d.Presets[name]
	if !ok {
		return fmt.Errorf("%w: sample %q has no preset %q", ErrConfig, d.Name, name)
	}
	return applyValues(d, vals)
}

// applyValues sets initial values by key. Unknown keys are declaration
// errors, not silent drops.
func applyValues(d *Def, vals map[string]float64) error {
	for key, v := range vals {
		found := false
		for i := range d.Params {
			if d.Params[i].Key == key {
				d.Params[i].Value = v
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: sample %q has no parameter %q", ErrConfig, d.Name, key)
		}
	}
	return nil
}

// ApplyInitial overrides individual initial values, after any preset.
// Command hosts route their -set flags through here.
func ApplyInitial(d *Def, vals map[string]float64) error {
	return applyValues(d, vals)
}

// PresetNames lists a def's presets, sorted for stable output.
func PresetNames(d *Def) []string {
	names := make([]string, 0, len(d.Presets))
	for name := range d.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
