package render

import (
	"errors"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
)

// Frame is the read-only snapshot a renderer paints from. The harness
// builds one per tick after the model has run, so every renderer of a
// frame sees the same world.
type Frame struct {
	Params  param.Snapshot
	Outputs *model.Outputs
	State   *model.State
	Now     float64
	Dt      float64
	Num     uint64
}

// Renderer paints frames onto its exclusive target. Paint must not
// retain f. A panic inside Paint is the renderer-failure signal: the
// harness recovers it, logs once and skips the renderer afterwards.
type Renderer interface {
	Kind() string
	Paint(f *Frame)
}

// ErrBadConfig reports an invalid view configuration. Constructors
// return it wrapped with detail; the harness treats it as fatal at
// sample load.
var ErrBadConfig = errors.New("render: invalid view config")
