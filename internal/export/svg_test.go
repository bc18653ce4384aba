package export

import (
	"bytes"
	"encoding/xml"
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

func document(t *testing.T, s *SVG) string {
	t.Helper()
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.String()
}

func requireWellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestSVGRecordsPrimitives(t *testing.T) {
	s := NewSVG(320, 200)
	s.Clear(render.Color{R: 10, G: 10, B: 30, A: 255})

	s.Line(render.Point{X: 0, Y: 0}, render.Point{X: 100, Y: 50},
		render.Stroke{Color: render.Color{R: 255, A: 255}, Width: 2, Dash: []float64{4, 2}})
	s.Polyline([]render.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 5}},
		render.Stroke{Color: render.Color{G: 255, A: 255}})
	s.Arc(render.Point{X: 50, Y: 50}, 20, 0, math.Pi/2,
		render.Stroke{Color: render.Color{B: 255, A: 255}})
	s.FillRect(render.Rect{X: 5, Y: 5, W: 30, H: 20}, render.Color{R: 80, G: 80, B: 80, A: 128})
	s.FillCircle(render.Point{X: 60, Y: 60}, 8, render.Color{R: 200, A: 255})
	s.Text("a < b & c", render.Point{X: 10, Y: 190},
		render.TextStyle{Align: render.AlignCenter, Color: render.Color{R: 255, G: 255, B: 255, A: 255}})

	doc := document(t, s)
	require.Contains(t, doc, `width="320" height="200"`)
	require.Contains(t, doc, `<line x1="0.00" y1="0.00" x2="100.00" y2="50.00"`)
	require.Contains(t, doc, `stroke-dasharray="4 2"`)
	require.Contains(t, doc, `<polyline points="0.00,0.00 10.00,10.00 20.00,5.00"`)
	require.Contains(t, doc, `<path d="M 70.00 50.00 A 20.00 20.00 0 0 1 50.00 70.00"`)
	require.Contains(t, doc, `fill-opacity="0.502"`)
	require.Contains(t, doc, `a &lt; b &amp; c`)
	require.Contains(t, doc, `text-anchor="middle"`)
	requireWellFormed(t, doc)
}

func TestSVGGradientsAndClips(t *testing.T) {
	s := NewSVG(100, 100)
	s.Clear(render.Color{A: 255})

	s.PushClip(render.Rect{X: 10, Y: 10, W: 80, H: 80})
	s.LinearGradient(render.Rect{X: 10, Y: 10, W: 80, H: 80},
		render.Point{X: 10, Y: 10}, render.Point{X: 90, Y: 10},
		[]render.GradStop{
			{At: 0, C: render.Color{R: 255, A: 255}},
			{At: 1, C: render.Color{B: 255, A: 0}},
		})
	s.PopClip()
	s.PushRotate(render.Point{X: 50, Y: 50}, math.Pi/2)
	s.RadialGradient(render.Point{X: 50, Y: 50}, 25,
		[]render.GradStop{{At: 0, C: render.Color{G: 255, A: 255}}})
	s.PopTransform()

	doc := document(t, s)
	require.Contains(t, doc, `<linearGradient id="grad2"`)
	require.Contains(t, doc, `<radialGradient id="grad3"`)
	require.Contains(t, doc, `stop-opacity="0.000"`)
	require.Contains(t, doc, `<clipPath id="clip1">`)
	require.Contains(t, doc, `clip-path="url(#clip1)"`)
	require.Contains(t, doc, `transform="rotate(90.000 50.00 50.00)"`)
	require.Equal(t, strings.Count(doc, "<g "), strings.Count(doc, "</g>"))
	requireWellFormed(t, doc)
}

func TestSVGShadowFilter(t *testing.T) {
	s := NewSVG(100, 100)
	s.Clear(render.Color{A: 255})
	s.SetShadow(render.Color{R: 255, G: 200, A: 255}, 8)
	s.FillCircle(render.Point{X: 50, Y: 50}, 10, render.Color{R: 255, A: 255})
	s.ClearShadow()
	s.FillCircle(render.Point{X: 20, Y: 20}, 5, render.Color{R: 255, A: 255})

	doc := document(t, s)
	require.Contains(t, doc, `<feDropShadow`)
	require.Equal(t, 1, strings.Count(doc, `filter="url(#glow1)"`))
	requireWellFormed(t, doc)
}

func TestSVGClearStartsFresh(t *testing.T) {
	s := NewSVG(100, 100)
	s.Clear(render.Color{A: 255})
	s.PushClip(render.Rect{X: 0, Y: 0, W: 10, H: 10})
	s.Line(render.Point{}, render.Point{X: 9, Y: 9}, render.Stroke{Color: render.Color{R: 9, A: 255}})

	s.Clear(render.Color{A: 255})
	doc := document(t, s)
	require.NotContains(t, doc, "rgb(9,0,0)")
	require.NotContains(t, doc, "clipPath")
	requireWellFormed(t, doc)
}

func TestSVGUnbalancedGroupsStayWellFormed(t *testing.T) {
	s := NewSVG(100, 100)
	s.Clear(render.Color{A: 255})
	s.PushClip(render.Rect{X: 0, Y: 0, W: 10, H: 10})
	s.PushRotate(render.Point{X: 5, Y: 5}, 1)

	requireWellFormed(t, document(t, s))
}

func TestSVGSnapshotsASample(t *testing.T) {
	h, err := sample.New(samples.Blackbody(), sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	targets := map[string]*SVG{}
	err = h.AttachTargets(func(id string) (render.Target, error) {
		s := NewSVG(640, 360)
		targets[id] = s
		return s, nil
	})
	require.NoError(t, err)

	h.Scheduler().Step(0.02)
	require.Empty(t, h.RendererFailures())

	for id, s := range targets {
		doc := document(t, s)
		require.Greater(t, len(doc), 200, "target %s", id)
		requireWellFormed(t, doc)
	}
	require.Contains(t, targets, "spectrum")
}
