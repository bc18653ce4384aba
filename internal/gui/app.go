//go:build ebiten

package gui

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

const (
	viewW  = 900
	viewH  = 720
	panelW = 380
	panelX = viewW
	padX   = 16
	rowH   = 38
	barH   = 8
)

// Run opens the window on one sample and blocks until it closes.
func Run(reg *sample.Registry, opts Options) error {
	names := reg.Names()
	if len(names) == 0 {
		return errors.New("gui: no samples registered")
	}
	g := &Game{reg: reg, opts: opts, names: names}
	name := opts.Sample
	if name == "" {
		name = names[0]
	}
	if err := g.open(name, opts.Preset, opts.Set, opts.Speed); err != nil {
		return err
	}
	if opts.FPS > 0 {
		ebiten.SetTPS(opts.FPS)
	}
	ebiten.SetWindowSize(viewW+panelW, viewH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// Game hosts one harness per window, swapping it out when the user
// cycles samples.
type Game struct {
	reg  *sample.Registry
	opts Options

	names     []string
	sampleIdx int

	h         *sample.Harness
	targets   map[string]*imageTarget
	viewIDs   []string
	active    int
	paramKeys []string
	sel       int
	presets   []string
	preset    int
}

func (g *Game) open(name, preset string, set map[string]float64, speed float64) error {
	def, err := g.reg.Get(name)
	if err != nil {
		return err
	}
	def = def.Clone()
	if preset != "" {
		if err := sample.ApplyPreset(def, preset); err != nil {
			return err
		}
	}
	if len(set) > 0 {
		if err := sample.ApplyInitial(def, set); err != nil {
			return err
		}
	}

	h, err := sample.New(def, sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return err
	}

	var ids []string
	seen := map[string]bool{}
	for _, v := range def.Views {
		if !seen[v.Target] {
			seen[v.Target] = true
			ids = append(ids, v.Target)
		}
	}
	targets := make(map[string]*imageTarget, len(ids))
	err = h.AttachTargets(func(id string) (render.Target, error) {
		t := newImageTarget(viewW, viewH)
		targets[id] = t
		return t, nil
	})
	if err != nil {
		return err
	}

	g.h = h
	g.targets = targets
	g.viewIDs = ids
	g.active = 0
	g.paramKeys = g.paramKeys[:0]
	for _, p := range def.Params {
		g.paramKeys = append(g.paramKeys, p.Key)
	}
	g.sel = 0
	g.presets = sample.PresetNames(def)
	g.preset = -1
	for i, pn := range g.presets {
		if pn == preset {
			g.preset = i
		}
	}
	for i, n := range g.names {
		if n == name {
			g.sampleIdx = i
		}
	}
	if speed > 0 {
		h.Scheduler().SetSpeed(speed)
	}
	ebiten.SetWindowTitle("vizlab: " + def.Title)
	h.Play()
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewW + panelW, viewH
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.h.TogglePlay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.h.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && !g.h.Scheduler().IsRunning() {
		g.h.Scheduler().Step(1.0 / 60)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) && len(g.viewIDs) > 0 {
		g.active = (g.active + 1) % len(g.viewIDs)
	}
	for i := 0; i < 9 && i < len(g.viewIDs); i++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			g.active = i
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(g.paramKeys) > 0 {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.sel = (g.sel + len(g.paramKeys) - 1) % len(g.paramKeys)
		} else {
			g.sel = (g.sel + 1) % len(g.paramKeys)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.cyclePreset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.cycleSample(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.cycleSample(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.scaleSpeed(2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.scaleSpeed(0.5)
	}
	if repeats(ebiten.KeyLeft) || repeats(ebiten.KeyH) {
		g.nudge(-1)
	}
	if repeats(ebiten.KeyRight) || repeats(ebiten.KeyL) {
		g.nudge(1)
	}

	g.pointer()
	g.h.Scheduler().Tick()
	return nil
}

// repeats fires on the initial press and then on a key-repeat cadence
// while held.
func repeats(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 18 && d%4 == 0)
}

// pointer handles slider interaction: hovering a row and rolling the
// wheel nudges that parameter, clicking or dragging inside the bar
// sets it directly.
func (g *Game) pointer() {
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx, my)
	_, wheel := ebiten.Wheel()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	for i, key := range g.paramKeys {
		row := g.rowRect(i)
		if !pt.In(row) {
			continue
		}
		if wheel != 0 || pressed {
			g.sel = i
		}
		if wheel != 0 {
			g.nudgeKey(key, wheel)
		}
		if bar := g.barRect(i); pressed && pt.In(bar.Inset(-4)) {
			p, ok := g.h.Store().Lookup(key)
			if ok && bar.Dx() > 0 {
				frac := float64(mx-bar.Min.X) / float64(bar.Dx())
				frac = math.Max(0, math.Min(1, frac))
				g.h.Set(key, p.Min+frac*(p.Max-p.Min))
			}
		}
	}
}

func (g *Game) nudge(dir float64) {
	if g.sel >= 0 && g.sel < len(g.paramKeys) {
		g.nudgeKey(g.paramKeys[g.sel], dir)
	}
}

func (g *Game) nudgeKey(key string, dir float64) {
	p, ok := g.h.Store().Lookup(key)
	if !ok {
		return
	}
	step := p.Step
	if step <= 0 {
		step = (p.Max - p.Min) / 100
	}
	raw, err := g.h.Store().Raw(key)
	if err != nil {
		return
	}
	g.h.Set(key, raw+dir*step)
}

func (g *Game) scaleSpeed(f float64) {
	s := g.h.Scheduler().Speed() * f
	s = math.Max(0.125, math.Min(8, s))
	g.h.Scheduler().SetSpeed(s)
}

func (g *Game) cyclePreset() {
	if len(g.presets) == 0 {
		return
	}
	g.preset = (g.preset + 1) % len(g.presets)
	for key, v := range g.h.Def().Presets[g.presets[g.preset]] {
		g.h.Set(key, v)
	}
}

func (g *Game) cycleSample(dir int) {
	if len(g.names) < 2 {
		return
	}
	idx := (g.sampleIdx + dir + len(g.names)) % len(g.names)
	if err := g.open(g.names[idx], "", nil, 0); err != nil {
		// keep the current sample up
		slog.Warn("sample switch failed", "sample", g.names[idx], "error", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	pal := render.DefaultPalette
	screen.Fill(nrgba(pal.Background))

	if g.active < len(g.viewIDs) {
		if t, ok := g.targets[g.viewIDs[g.active]]; ok {
			screen.DrawImage(t.img, nil)
		}
	}
	g.drawPanel(screen, pal)
}

// rowRect is the hover region of one parameter row, barRect the
// clickable slider inside it. Geometry is fixed per sample, so Update
// and Draw agree without shared state.
func (g *Game) rowRect(i int) image.Rectangle {
	y := paramTop + i*rowH
	return image.Rect(panelX+4, y-4, panelX+panelW-4, y+rowH-8)
}

func (g *Game) barRect(i int) image.Rectangle {
	y := paramTop + i*rowH + 18
	return image.Rect(panelX+padX, y, panelX+panelW-padX, y+barH)
}

const paramTop = 150

func (g *Game) drawPanel(screen *ebiten.Image, pal render.Palette) {
	fillBox(screen, panelX, 0, panelW, viewH, pal.Panel)
	fillBox(screen, panelX, 0, 1, viewH, pal.Grid)

	x := panelX + padX
	line := func(y int, s string, c render.Color) {
		text.Draw(screen, s, uiFace, x, y, nrgba(c))
	}

	def := g.h.Def()
	line(26, def.Title, pal.Text)

	status := g.h.Status()
	sc := pal.Muted
	switch status {
	case sample.StatusRunning:
		sc = pal.Success
	case sample.StatusPaused:
		sc = pal.Warning
	case sample.StatusStalled:
		sc = pal.Error
	}
	line(48, status.String(), sc)

	st := g.h.State()
	line(66, fmt.Sprintf("t=%.1fs  speed %gx", st.T, g.h.Scheduler().Speed()), pal.Muted)
	if len(g.viewIDs) > 1 {
		line(84, "view "+g.viewIDs[g.active], pal.Muted)
	}
	if g.preset >= 0 && g.preset < len(g.presets) {
		line(102, "preset "+g.presets[g.preset], pal.Muted)
	}

	line(paramTop-18, "parameters", pal.Accent)
	for i, key := range g.paramKeys {
		g.drawParam(screen, pal, i, key)
	}

	y := paramTop + len(g.paramKeys)*rowH + 10
	keys := g.h.Outputs().Keys()
	if len(keys) > 0 {
		line(y, "outputs", pal.Accent)
		y += 20
		for _, k := range keys {
			line(y, fmt.Sprintf("%-12s %s", k, g.h.Outputs().Display(k)), pal.Text)
			y += 18
		}
	}

	if fails := g.h.RendererFailures(); len(fails) > 0 {
		y += 8
		for _, f := range fails {
			line(y, "view error: "+f, pal.Error)
			y += 18
		}
	}

	help := []string{
		"space pause  r reset  . step",
		"wheel/click slider  tab select",
		"v view  p preset  [ ] sample",
		"-/= speed  q quit",
	}
	hy := viewH - 14*len(help) - 8
	for _, s := range help {
		line(hy, s, pal.Muted)
		hy += 14
	}
}

func (g *Game) drawParam(screen *ebiten.Image, pal render.Palette, i int, key string) {
	p, ok := g.h.Store().Lookup(key)
	if !ok {
		return
	}
	y := paramTop + i*rowH

	lc := pal.Muted
	bc := pal.Accent
	if i == g.sel {
		lc = pal.Text
		bc = pal.Series[0]
		fillBox(screen, float64(panelX+6), float64(y-12), 3, float64(rowH-12), pal.Accent)
	}
	text.Draw(screen, p.Label, uiFace, panelX+padX, y, nrgba(lc))
	if disp, err := g.h.Store().Display(key); err == nil {
		textRight(screen, disp, panelX+panelW-padX, y, pal.Text)
	}

	bar := g.barRect(i)
	fillBox(screen, float64(bar.Min.X), float64(bar.Min.Y), float64(bar.Dx()), float64(bar.Dy()), pal.Grid)
	if p.Max > p.Min {
		raw, err := g.h.Store().Raw(key)
		if err == nil {
			frac := (raw - p.Min) / (p.Max - p.Min)
			frac = math.Max(0, math.Min(1, frac))
			fillBox(screen, float64(bar.Min.X), float64(bar.Min.Y), float64(bar.Dx())*frac, float64(bar.Dy()), bc)
		}
	}
}

func textRight(dst *ebiten.Image, s string, right, y int, c render.Color) {
	w := font.MeasureString(uiFace, s).Ceil()
	text.Draw(dst, s, uiFace, right-w, y, nrgba(c))
}

func fillBox(dst *ebiten.Image, x, y, w, h float64, c render.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(nrgba(c))
	dst.DrawImage(whitePixel, op)
}
