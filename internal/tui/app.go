package tui

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// Options configure the terminal host.
type Options struct {
	// Sample launches straight into a sample; empty shows the menu.
	Sample string
	// FPS is the frame rate, default 30.
	FPS int
	// Speed overrides the launched sample's initial speed when > 0.
	Speed float64
	// Preset is applied to the launched sample before it starts.
	Preset string
	// Set overrides initial parameter values, after the preset.
	Set map[string]float64
}

// Run drives the terminal host until the user quits.
func Run(reg *sample.Registry, opts Options) error {
	app, err := NewApp(reg, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

type appState int

const (
	stateMenu appState = iota
	stateSim
)

type tickMsg time.Time

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// springField eases the slider fills toward their targets so parameter
// changes glide instead of jump. One spring drives every knob.
type springField struct {
	spring   harmonica.Spring
	pos, vel []float64
}

func newSpringField(fps int) *springField {
	return &springField{spring: harmonica.NewSpring(harmonica.FPS(fps), 7.0, 0.9)}
}

func (f *springField) resize(n int) {
	for len(f.pos) < n {
		f.pos = append(f.pos, 0)
		f.vel = append(f.vel, 0)
	}
	f.pos = f.pos[:n]
	f.vel = f.vel[:n]
}

func (f *springField) step(i int, target float64) {
	f.pos[i], f.vel[i] = f.spring.Update(f.pos[i], f.vel[i], target)
}

func (f *springField) snap(i int, target float64) {
	f.pos[i], f.vel[i] = target, 0
}

func (f *springField) at(i int) float64 {
	if i < 0 || i >= len(f.pos) {
		return 0
	}
	return f.pos[i]
}

// App is the bubbletea model for the terminal host: a sample menu and
// one live session at a time. Every launch opens a fresh harness.
type App struct {
	reg  *sample.Registry
	opts Options

	state         appState
	width, height int

	names  []string
	cursor int
	errMsg string

	h         *sample.Harness
	targets   map[string]*canvasTarget
	viewIDs   []string
	active    int
	paramKeys []string
	sel       int
	knobs     *springField
	presets   []string
	preset    int
}

func NewApp(reg *sample.Registry, opts Options) (App, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	a := App{
		reg:    reg,
		opts:   opts,
		state:  stateMenu,
		names:  reg.Names(),
		knobs:  newSpringField(opts.FPS),
		preset: -1,
	}
	if opts.Sample != "" {
		var err error
		a, err = a.open(opts.Sample, opts.Preset, opts.Set, opts.Speed)
		if err != nil {
			return App{}, err
		}
		a.state = stateSim
	}
	return a, nil
}

// open builds a session around a cloned def so presets and overrides
// never touch the registered declaration.
func (a App) open(name, preset string, set map[string]float64, speed float64) (App, error) {
	def, err := a.reg.Get(name)
	if err != nil {
		return a, err
	}
	def = def.Clone()
	if preset != "" {
		if err := sample.ApplyPreset(def, preset); err != nil {
			return a, err
		}
	}
	if len(set) > 0 {
		if err := sample.ApplyInitial(def, set); err != nil {
			return a, err
		}
	}
	h, err := sample.New(def, sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return a, err
	}

	a.h = h
	a.targets = map[string]*canvasTarget{}
	a.viewIDs = nil
	seen := map[string]bool{}
	for _, v := range def.Views {
		if !seen[v.Target] {
			seen[v.Target] = true
			a.viewIDs = append(a.viewIDs, v.Target)
		}
	}
	cols, rows := a.canvasDims()
	resolve := func(id string) (render.Target, error) {
		t, ok := a.targets[id]
		if !ok {
			t = newCanvasTarget(cols, rows)
			a.targets[id] = t
		}
		return t, nil
	}
	if err := h.AttachTargets(resolve); err != nil {
		return a, err
	}

	a.active = 0
	a.sel = 0
	a.paramKeys = nil
	for _, p := range def.Params {
		a.paramKeys = append(a.paramKeys, p.Key)
	}
	a.knobs.resize(len(a.paramKeys))
	for i, key := range a.paramKeys {
		a.knobs.snap(i, a.knobTarget(key))
	}
	a.presets = sample.PresetNames(def)
	a.preset = -1
	for i, pn := range a.presets {
		if pn == preset {
			a.preset = i
		}
	}
	if speed > 0 {
		h.Scheduler().SetSpeed(speed)
	}
	h.Play()
	return a, nil
}

// knobTarget is the selected parameter's raw position in [0, 1].
func (a App) knobTarget(key string) float64 {
	p, ok := a.h.Store().Lookup(key)
	if !ok || p.Max <= p.Min {
		return 0
	}
	raw, err := a.h.Store().Raw(key)
	if err != nil {
		return 0
	}
	return (raw - p.Min) / (p.Max - p.Min)
}

const sidePanelWidth = 38

func (a App) canvasDims() (cols, rows int) {
	if a.width == 0 {
		return 80, 24
	}
	cols = a.width - sidePanelWidth - 2
	if cols < 24 {
		cols = 24
	}
	rows = a.height - 4
	if rows < 8 {
		rows = 8
	}
	return cols, rows
}

func (a App) Init() tea.Cmd { return tickCmd(a.opts.FPS) }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		cols, rows := a.canvasDims()
		for _, t := range a.targets {
			t.Resize(cols, rows)
		}
		if a.h != nil && !a.h.Scheduler().IsRunning() {
			// repaint the resized canvases without advancing time
			a.h.Scheduler().Step(0)
		}
		return a, nil

	case tickMsg:
		if a.state == stateSim && a.h != nil {
			a.h.Scheduler().Tick()
			for i, key := range a.paramKeys {
				a.knobs.step(i, a.knobTarget(key))
			}
		}
		return a, tickCmd(a.opts.FPS)

	case tea.KeyMsg:
		if a.state == stateMenu {
			return a.updateMenu(msg)
		}
		return a.updateSim(msg)
	}
	return a, nil
}

func (a App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.names)-1 {
			a.cursor++
		}
	case "enter":
		next, err := a.open(a.names[a.cursor], "", nil, 0)
		if err != nil {
			a.errMsg = err.Error()
			return a, nil
		}
		next.errMsg = ""
		next.state = stateSim
		return next, nil
	}
	return a, nil
}

func (a App) updateSim(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.h.Pause()
		a.state = stateMenu
	case " ":
		a.h.TogglePlay()
	case "r":
		a.h.Reset()
	case ".":
		if !a.h.Scheduler().IsRunning() {
			a.h.Scheduler().Step(1.0 / float64(a.opts.FPS))
		}
	case "tab":
		if n := len(a.paramKeys); n > 0 {
			a.sel = (a.sel + 1) % n
		}
	case "shift+tab":
		if n := len(a.paramKeys); n > 0 {
			a.sel = (a.sel + n - 1) % n
		}
	case "left", "h":
		a.nudge(-1)
	case "right", "l":
		a.nudge(+1)
	case "+", "=":
		a.setSpeed(a.h.Scheduler().Speed() * 2)
	case "-", "_":
		a.setSpeed(a.h.Scheduler().Speed() / 2)
	case "v":
		if n := len(a.viewIDs); n > 0 {
			a.active = (a.active + 1) % n
		}
	case "p":
		a = a.cyclePreset()
	}
	return a, nil
}

// nudge moves the selected parameter by one step. Stepless parameters
// move in hundredths of their range.
func (a App) nudge(dir float64) {
	if len(a.paramKeys) == 0 {
		return
	}
	key := a.paramKeys[a.sel]
	p, ok := a.h.Store().Lookup(key)
	if !ok {
		return
	}
	step := p.Step
	if step <= 0 {
		step = (p.Max - p.Min) / 100
	}
	raw, err := a.h.Store().Raw(key)
	if err != nil {
		return
	}
	a.h.Set(key, raw+dir*step)
}

func (a App) setSpeed(v float64) {
	if v < 0.125 {
		v = 0.125
	}
	if v > 8 {
		v = 8
	}
	a.h.Scheduler().SetSpeed(v)
}

func (a App) cyclePreset() App {
	if len(a.presets) == 0 {
		return a
	}
	a.preset = (a.preset + 1) % len(a.presets)
	for key, v := range a.h.Def().Presets[a.presets[a.preset]] {
		a.h.Set(key, v)
	}
	return a
}

func (a App) View() string {
	if a.state == stateSim && a.h != nil {
		return a.viewSim()
	}
	return a.viewMenu()
}

func (a App) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("vizlab"))
	b.WriteString("\n\n")
	for i, name := range a.names {
		title := ""
		if def, err := a.reg.Get(name); err == nil {
			title = def.Title
		}
		line := fmt.Sprintf("%-14s %s", name, title)
		if i == a.cursor {
			b.WriteString(menuCursorStyle.Render("▸ " + line))
		} else {
			b.WriteString(menuItemStyle.Render(line))
		}
		b.WriteByte('\n')
	}
	if a.errMsg != "" {
		b.WriteString("\n" + statusWarnStyle.Render(a.errMsg) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("↑/↓ select • enter launch • q quit"))
	return b.String()
}

func (a App) viewSim() string {
	canvas := ""
	if t, ok := a.targets[a.activeID()]; ok {
		canvas = t.canvas.String()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, panelStyle.Render(a.sidePanel()))
	help := helpStyle.Render(
		"space pause • . step • r reset • tab param • ←/→ adjust • +/- speed • v view • p preset • esc menu • q quit")
	return a.headerLine() + "\n" + a.tabLine() + "\n" + body + "\n" + help
}

func (a App) activeID() string {
	if a.active < 0 || a.active >= len(a.viewIDs) {
		return ""
	}
	return a.viewIDs[a.active]
}

func (a App) headerLine() string {
	st := a.h.Status()
	style := statusRunStyle
	switch st {
	case sample.StatusIdle, sample.StatusPaused:
		style = statusPauseStyle
	case sample.StatusStalled:
		style = statusWarnStyle
	}
	parts := []string{
		headerStyle.Render(a.h.Def().Title),
		style.Render(st.String()),
		fmt.Sprintf("t=%.1fs", a.h.State().T),
		fmt.Sprintf("%gx", a.h.Scheduler().Speed()),
	}
	if a.preset >= 0 && a.preset < len(a.presets) {
		parts = append(parts, "preset:"+a.presets[a.preset])
	}
	if failed := a.h.RendererFailures(); len(failed) > 0 {
		parts = append(parts, statusWarnStyle.Render("view error: "+strings.Join(failed, ",")))
	}
	return strings.Join(parts, "  ")
}

func (a App) tabLine() string {
	tabs := make([]string, 0, len(a.viewIDs))
	for i, id := range a.viewIDs {
		style := tabStyle
		if i == a.active {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(id))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

const barWidth = 12

func (a App) sidePanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("parameters"))
	b.WriteByte('\n')
	for i, key := range a.paramKeys {
		p, ok := a.h.Store().Lookup(key)
		if !ok {
			continue
		}
		label := p.Label
		if label == "" {
			label = key
		}
		lstyle, bstyle := labelStyle, barStyle
		if i == a.sel {
			lstyle, bstyle = activeLabelStyle, barActiveStyle
		}
		disp, _ := a.h.Store().Display(key)
		b.WriteString(lstyle.Render(truncate(label, 10)))
		b.WriteString(bstyle.Render(bar(a.knobs.at(i), barWidth)))
		b.WriteString(" " + valueStyle.Render(disp))
		b.WriteByte('\n')
	}

	if out := a.h.Outputs(); out != nil && len(out.Keys()) > 0 {
		b.WriteString("\n" + headerStyle.Render("outputs") + "\n")
		for _, key := range out.Keys() {
			b.WriteString(labelStyle.Render(truncate(key, 10)))
			b.WriteString(valueStyle.Render(out.Display(key)))
			b.WriteByte('\n')
		}
	}

	if s := a.h.State(); s != nil && s.Hist != nil && s.Hist.Len() > 1 {
		if cols := s.Hist.Cols(); len(cols) > 0 {
			series := s.Hist.Series(cols[0])
			if len(series) > 60 {
				series = series[len(series)-60:]
			}
			b.WriteString("\n" + asciigraph.Plot(series,
				asciigraph.Height(4),
				asciigraph.Width(24),
				asciigraph.Caption(cols[0]),
			) + "\n")
		}
	}
	return b.String()
}

func bar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(math.Round(frac * float64(width)))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
