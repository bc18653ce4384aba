package tui

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
	"github.com/san-kum/vizlab/internal/samples"
)

var ink = render.Color{R: 200, G: 200, B: 200, A: 255}

func TestTargetSize(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	w, h := tg.Size()
	require.Equal(t, 20.0, w)
	require.Equal(t, 20.0, h)
	require.Equal(t, 1.0, tg.DPR())
}

func TestTargetSolidLine(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.Line(render.Point{X: 0, Y: 0}, render.Point{X: 16, Y: 0}, render.Stroke{Color: ink})

	require.Equal(t, 17, litDots(tg.canvas))
}

func TestTargetDashedLine(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.Line(render.Point{X: 0, Y: 0}, render.Point{X: 16, Y: 0},
		render.Stroke{Color: ink, Dash: []float64{4, 4}})

	require.Equal(t, 9, litDots(tg.canvas))
	require.True(t, dotLit(tg.canvas, 0, 0))
	require.False(t, dotLit(tg.canvas, 4, 0))
	require.True(t, dotLit(tg.canvas, 8, 0))
	require.False(t, dotLit(tg.canvas, 12, 0))
	require.True(t, dotLit(tg.canvas, 16, 0))
}

func TestTargetDiagonalEndpoints(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.Line(render.Point{X: 0, Y: 0}, render.Point{X: 16, Y: 16}, render.Stroke{Color: ink})

	require.True(t, dotLit(tg.canvas, 0, 0))
	require.True(t, dotLit(tg.canvas, 16, 16))
}

func TestTargetClipStack(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	full := render.Rect{X: 0, Y: 0, W: 20, H: 20}

	tg.PushClip(render.Rect{X: 4, Y: 4, W: 8, H: 8})
	tg.FillRect(full, ink)
	require.Equal(t, 64, litDots(tg.canvas))

	tg.PopClip()
	tg.canvas.Clear()
	tg.FillRect(full, ink)
	require.Equal(t, 400, litDots(tg.canvas))
}

func TestTargetNestedClipsIntersect(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.PushClip(render.Rect{X: 0, Y: 0, W: 10, H: 20})
	tg.PushClip(render.Rect{X: 6, Y: 0, W: 20, H: 20})
	tg.FillRect(render.Rect{X: 0, Y: 0, W: 20, H: 20}, ink)

	// only x centers in [6, 10] survive both clips
	require.Equal(t, 4*20, litDots(tg.canvas))
}

func TestTargetRotatedDraw(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.PushRotate(render.Point{X: 10, Y: 10}, math.Pi/2)
	tg.Line(render.Point{X: 12, Y: 10}, render.Point{X: 12, Y: 10}, render.Stroke{Color: ink})
	tg.PopTransform()

	// (12,10) swings a quarter turn around (10,10) down to (10,12)
	require.True(t, dotLit(tg.canvas, 10, 12))
	require.False(t, dotLit(tg.canvas, 12, 10))
}

func TestTargetFillCircle(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.FillCircle(render.Point{X: 10, Y: 10}, 3, ink)

	require.Equal(t, 32, litDots(tg.canvas))
}

func TestTargetFillPathTriangle(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.FillPath([]render.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 8}}, ink)

	require.Equal(t, 36, litDots(tg.canvas))
}

func TestTargetLinearGradientDither(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.LinearGradient(
		render.Rect{X: 0, Y: 0, W: 8, H: 8},
		render.Point{X: 0, Y: 0}, render.Point{X: 8, Y: 0},
		[]render.GradStop{
			{At: 0, C: render.Color{R: 10, G: 10, B: 10, A: 0}},
			{At: 1, C: render.Color{R: 250, G: 250, B: 250, A: 255}},
		})

	// two transparent columns drop, three mid columns checker, three solid
	require.Equal(t, 36, litDots(tg.canvas))
}

func TestTargetRadialGradient(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.RadialGradient(render.Point{X: 8, Y: 8}, 4,
		[]render.GradStop{{At: 0, C: ink}})

	require.Equal(t, 52, litDots(tg.canvas))
}

func TestTargetTextPlacement(t *testing.T) {
	tg := newCanvasTarget(12, 4)

	tg.Text("hi", render.Point{X: 10, Y: 8}, render.TextStyle{Color: ink, Baseline: render.BaselineTop})
	require.Equal(t, 'h', tg.canvas.text[2][5])
	require.Equal(t, 'i', tg.canvas.text[2][6])

	tg.canvas.Clear()
	tg.Text("hi", render.Point{X: 10, Y: 8},
		render.TextStyle{Color: ink, Align: render.AlignRight, Baseline: render.BaselineTop})
	require.Equal(t, 'h', tg.canvas.text[2][3])
	require.Equal(t, 'i', tg.canvas.text[2][4])

	tg.canvas.Clear()
	tg.Text("hi", render.Point{X: 10, Y: 8},
		render.TextStyle{Color: ink, Baseline: render.BaselineBottom})
	require.Equal(t, 'h', tg.canvas.text[1][5])
}

func TestTargetClearDropsStacks(t *testing.T) {
	tg := newCanvasTarget(10, 5)
	tg.PushClip(render.Rect{X: 0, Y: 0, W: 2, H: 2})
	tg.PushRotate(render.Point{X: 10, Y: 10}, 1)

	tg.Clear(render.Color{})
	tg.FillRect(render.Rect{X: 0, Y: 0, W: 20, H: 20}, ink)
	require.Equal(t, 400, litDots(tg.canvas))
}

func TestTargetHostsASample(t *testing.T) {
	h, err := sample.New(samples.Snell(), sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	targets := map[string]*canvasTarget{}
	err = h.AttachTargets(func(id string) (render.Target, error) {
		ct := newCanvasTarget(40, 12)
		targets[id] = ct
		return ct, nil
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		h.Scheduler().Step(0.02)
	}

	require.Empty(t, h.RendererFailures())
	rays := targets["rays"]
	require.NotNil(t, rays)
	require.NotZero(t, litDots(rays.canvas))
	require.Equal(t, 11, strings.Count(rays.canvas.String(), "\n"))
}
