//go:build !ebiten

package gui

import "github.com/san-kum/vizlab/internal/sample"

// Run is a placeholder when the ebiten tag is absent.
func Run(reg *sample.Registry, opts Options) error {
	_ = reg
	_ = opts
	return ErrNotBuilt
}
