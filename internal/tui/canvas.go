// Package tui is the terminal host: a bubbletea program that drives one
// sample harness and draws its views onto braille canvases.
package tui

import (
	"strings"

	"github.com/san-kum/vizlab/internal/render"
)

// Braille cells pack 2x4 dots per terminal cell at offset 0x2800:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const blankBraille = 0x2800

// Canvas is a color-aware braille surface with a text overlay. Dot
// coordinates run over (2*Cols) x (4*Rows); a text rune replaces the
// whole cell it lands on.
type Canvas struct {
	Cols, Rows int

	dots   [][]rune
	dotFg  [][]render.Color
	text   [][]rune
	textFg [][]render.Color
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grids when the dimensions change and clears
// the canvas either way.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols != c.Cols || rows != c.Rows {
		c.Cols, c.Rows = cols, rows
		c.dots = makeRunes(cols, rows)
		c.dotFg = makeColors(cols, rows)
		c.text = makeRunes(cols, rows)
		c.textFg = makeColors(cols, rows)
	}
	c.Clear()
}

func makeRunes(cols, rows int) [][]rune {
	g := make([][]rune, rows)
	for i := range g {
		g[i] = make([]rune, cols)
	}
	return g
}

func makeColors(cols, rows int) [][]render.Color {
	g := make([][]render.Color, rows)
	for i := range g {
		g[i] = make([]render.Color, cols)
	}
	return g
}

func (c *Canvas) Clear() {
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Cols; col++ {
			c.dots[row][col] = blankBraille
			c.dotFg[row][col] = render.Color{}
			c.text[row][col] = 0
			c.textFg[row][col] = render.Color{}
		}
	}
}

// SetDot lights the dot at (x, y) in dot coordinates. The cell keeps
// the color of the last dot written into it.
func (c *Canvas) SetDot(x, y int, fg render.Color) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Cols || row >= c.Rows {
		return
	}
	c.dots[row][col] |= dotBits[y%4][x%2]
	c.dotFg[row][col] = fg
}

// Line draws a solid line between dot coordinates with Bresenham.
func (c *Canvas) Line(x0, y0, x1, y1 int, fg render.Color) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.SetDot(x0, y0, fg)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// SetRune places a text rune at a cell, hiding the dots beneath it.
func (c *Canvas) SetRune(col, row int, r rune, fg render.Color) {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return
	}
	c.text[row][col] = r
	c.textFg[row][col] = fg
}

// WriteString lays out a string left to right starting at a cell.
func (c *Canvas) WriteString(col, row int, s string, fg render.Color) {
	for i, r := range []rune(s) {
		c.SetRune(col+i, row, r, fg)
	}
}

// String renders the canvas with ANSI colors, rows joined by newlines.
// Runs of equally colored cells share one style span.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		var runFg render.Color
		flush := func() {
			if len(run) == 0 {
				return
			}
			b.WriteString(styleFor(runFg).Render(string(run)))
			run = run[:0]
		}
		for col := 0; col < c.Cols; col++ {
			r, fg := c.dots[row][col], c.dotFg[row][col]
			if t := c.text[row][col]; t != 0 {
				r, fg = t, c.textFg[row][col]
			}
			if fg != runFg {
				flush()
				runFg = fg
			}
			run = append(run, r)
		}
		flush()
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
