// Package gui is the windowed host. It is compiled only with the
// ebiten build tag so the core module stays free of GPU and windowing
// toolchain requirements; without the tag Run reports ErrNotBuilt.
package gui

import "errors"

// ErrNotBuilt is returned by Run when the binary was compiled without
// the ebiten build tag.
var ErrNotBuilt = errors.New("gui: built without the ebiten tag, rebuild with -tags ebiten")

// Options select the sample and initial session settings for the
// window. Zero values fall back to the first registered sample at the
// declaration's own pace.
type Options struct {
	Sample string
	FPS    int
	Speed  float64
	Preset string
	Set    map[string]float64
}
