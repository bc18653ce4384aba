package model

import "fmt"

// History is a bounded trailing buffer of (t, values...) rows backing
// time-series and path views. When full, the eldest row is dropped.
type History struct {
	cap    int
	cols   []string
	t      []float64
	series [][]float64
}

// NewHistory returns a buffer holding at most capacity rows of the named
// columns.
func NewHistory(capacity int, cols ...string) *History {
	if capacity < 1 {
		capacity = 1
	}
	h := &History{
		cap:    capacity,
		cols:   cols,
		t:      make([]float64, 0, capacity),
		series: make([][]float64, len(cols)),
	}
	for i := range h.series {
		h.series[i] = make([]float64, 0, capacity)
	}
	return h
}

// Push appends one row. vals must match the declared columns.
func (h *History) Push(t float64, vals ...float64) {
	if len(vals) != len(h.cols) {
		panic(fmt.Sprintf("model: history row has %d values, expected %d", len(vals), len(h.cols)))
	}
	if len(h.t) == h.cap {
		copy(h.t, h.t[1:])
		h.t = h.t[:h.cap-1]
		for i := range h.series {
			copy(h.series[i], h.series[i][1:])
			h.series[i] = h.series[i][:h.cap-1]
		}
	}
	h.t = append(h.t, t)
	for i, v := range vals {
		h.series[i] = append(h.series[i], v)
	}
}

// Len returns the current row count, always at most Cap.
func (h *History) Len() int { return len(h.t) }

// Cap returns the configured bound.
func (h *History) Cap() int { return h.cap }

// Cols returns the declared column names.
func (h *History) Cols() []string { return h.cols }

// Times returns the time column. The slice is valid until the next Push.
func (h *History) Times() []float64 { return h.t }

// Series returns the named column, or nil when unknown. The slice is
// valid until the next Push.
func (h *History) Series(col string) []float64 {
	for i, c := range h.cols {
		if c == col {
			return h.series[i]
		}
	}
	return nil
}

// Last returns the most recent value of the named column.
func (h *History) Last(col string) (float64, bool) {
	s := h.Series(col)
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Reset drops all rows, keeping the column layout.
func (h *History) Reset() {
	h.t = h.t[:0]
	for i := range h.series {
		h.series[i] = h.series[i][:0]
	}
}
