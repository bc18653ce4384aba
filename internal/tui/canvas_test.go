package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/vizlab/internal/render"
)

func TestCanvasDotsMergeWithinCell(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetDot(0, 0, render.Color{})
	c.SetDot(1, 3, render.Color{})

	// dot (0,0) is bit 0x01, dot (1,3) is bit 0x80
	want := string([]rune{0x2881, 0x2800})
	require.Equal(t, want, c.String())
}

func TestCanvasHorizontalLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Line(0, 0, 7, 0, render.Color{})

	want := strings.Repeat(string(rune(0x2809)), 4)
	require.Equal(t, want, c.String())
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Line(3, 2, 12, 11, render.Color{})

	require.True(t, dotLit(c, 3, 2))
	require.True(t, dotLit(c, 12, 11))
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.SetDot(-1, 0, render.Color{})
	c.SetDot(0, -3, render.Color{})
	c.SetDot(4, 0, render.Color{})
	c.SetDot(0, 8, render.Color{})
	c.SetRune(-1, 0, 'x', render.Color{})
	c.SetRune(0, 5, 'x', render.Color{})

	require.Equal(t, 0, litDots(c))
	require.NotContains(t, c.String(), "x")
}

func TestCanvasTextOverlay(t *testing.T) {
	c := NewCanvas(6, 2)
	c.Line(0, 0, 11, 0, render.Color{})
	c.WriteString(1, 0, "hi", render.Color{R: 255, G: 255, B: 255, A: 255})

	rows := strings.Split(c.String(), "\n")
	require.Len(t, rows, 2)
	require.Contains(t, rows[0], "hi")
}

func TestCanvasResizeClears(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Line(0, 0, 7, 7, render.Color{})
	require.NotZero(t, litDots(c))

	c.Resize(6, 3)
	require.Equal(t, 6, c.Cols)
	require.Equal(t, 3, c.Rows)
	require.Equal(t, 0, litDots(c))

	c.SetDot(0, 0, render.Color{})
	c.Resize(6, 3)
	require.Equal(t, 0, litDots(c), "same-size resize still clears")
}

// dotLit reports whether the braille bit for dot (x, y) is set.
func dotLit(c *Canvas, x, y int) bool {
	return c.dots[y/4][x/2]&dotBits[y%4][x%2] != 0
}

func litDots(c *Canvas) int {
	n := 0
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Cols; col++ {
			v := c.dots[row][col] - blankBraille
			for v != 0 {
				n += int(v & 1)
				v >>= 1
			}
		}
	}
	return n
}
