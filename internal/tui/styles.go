package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vizlab/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	menuItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	menuCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	statusRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	statusPauseStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	activeLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Width(10)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	barActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

var styleCache = map[render.Color]lipgloss.Style{}

// styleFor maps a render color to a cached lipgloss style. The zero
// color renders unstyled so cleared cells stay cheap.
func styleFor(c render.Color) lipgloss.Style {
	if s, ok := styleCache[c]; ok {
		return s
	}
	var s lipgloss.Style
	if (c == render.Color{}) {
		s = lipgloss.NewStyle()
	} else {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(c)))
	}
	styleCache[c] = s
	return s
}

func hexColor(c render.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
