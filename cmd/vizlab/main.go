package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vizlab/internal/analysis"
	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/export"
	"github.com/san-kum/vizlab/internal/gui"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
	"github.com/san-kum/vizlab/internal/samples"
	"github.com/san-kum/vizlab/internal/storage"
	"github.com/san-kum/vizlab/internal/tui"
)

var (
	configFile string
	dataDir    string

	fps      int
	speed    float64
	preset   string
	setFlags []string

	outDir   string
	width    float64
	height   float64
	duration float64
	dt       float64
	seed     int64
	save     bool
	runID    string
	column   string
)

var cfg = config.Default()

func main() {
	rootCmd := &cobra.Command{
		Use:               "vizlab",
		Short:             "interactive science visualizations for the terminal",
		PersistentPreRunE: loadHostConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := samples.Registry()
			if err != nil {
				return err
			}
			return tui.Run(reg, tui.Options{FPS: cfg.FPS})
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "host config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDir, "saved run directory")

	runCmd := &cobra.Command{
		Use:   "run [sample|decl.yaml]",
		Short: "run a sample in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSample,
	}
	runCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	runCmd.Flags().Float64Var(&speed, "speed", 0, "time scale, 0 keeps the sample's own")
	runCmd.Flags().StringVar(&preset, "preset", "", "apply a named preset")
	runCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter, key=value (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list samples",
		RunE:  listSamples,
	}

	infoCmd := &cobra.Command{
		Use:   "info [sample|decl.yaml]",
		Short: "describe a sample",
		Args:  cobra.ExactArgs(1),
		RunE:  sampleInfo,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [sample|decl.yaml]",
		Short: "render a sample's views to SVG files",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotSample,
	}
	snapshotCmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	snapshotCmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "image width")
	snapshotCmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "image height")
	snapshotCmd.Flags().Float64Var(&duration, "time", 0, "advance this many seconds before the snapshot")
	snapshotCmd.Flags().StringVar(&preset, "preset", "", "apply a named preset")
	snapshotCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter, key=value (repeatable)")

	headlessCmd := &cobra.Command{
		Use:   "headless [sample|decl.yaml]",
		Short: "run without a display and report outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  headlessRun,
	}
	headlessCmd.Flags().Float64Var(&duration, "time", config.DefaultTime, "simulated seconds")
	headlessCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	headlessCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	headlessCmd.Flags().BoolVar(&save, "save", false, "save the run under the data directory")
	headlessCmd.Flags().StringVar(&preset, "preset", "", "apply a named preset")
	headlessCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter, key=value (repeatable)")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved headless runs",
		RunE:  listRuns,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [sample|decl.yaml]",
		Short: "power spectrum of a recorded series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeSeries,
	}
	analyzeCmd.Flags().StringVar(&runID, "run", "", "analyze a saved run instead of a fresh one")
	analyzeCmd.Flags().StringVar(&column, "col", "", "history column, defaults to the first")
	analyzeCmd.Flags().Float64Var(&duration, "time", config.DefaultTime, "simulated seconds")
	analyzeCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	analyzeCmd.Flags().StringVar(&preset, "preset", "", "apply a named preset")
	analyzeCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter, key=value (repeatable)")

	guiCmd := &cobra.Command{
		Use:   "gui [sample|decl.yaml]",
		Short: "run a sample in a window (needs the ebiten build tag)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  guiRun,
	}
	guiCmd.Flags().IntVar(&fps, "fps", 0, "ticks per second, 0 keeps the host default")
	guiCmd.Flags().Float64Var(&speed, "speed", 0, "time scale, 0 keeps the sample's own")
	guiCmd.Flags().StringVar(&preset, "preset", "", "apply a named preset")
	guiCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override a parameter, key=value (repeatable)")

	rootCmd.AddCommand(runCmd, listCmd, infoCmd, snapshotCmd, headlessCmd, runsCmd, analyzeCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadHostConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = c
	if cfg.Theme == render.PalettePaper.Name {
		render.DefaultPalette = render.PalettePaper
	}
	return nil
}

// resolveSample maps a command argument to a registry and sample name.
// A path ending in .yaml or .yml is loaded as a declaration document
// and served from its own registry so it can shadow the base sample.
func resolveSample(arg string) (*sample.Registry, string, error) {
	reg, err := samples.Registry()
	if err != nil {
		return nil, "", err
	}
	if arg == "" {
		return reg, "", nil
	}
	if strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml") {
		def, err := sample.LoadDecl(arg, reg)
		if err != nil {
			return nil, "", err
		}
		solo := sample.NewRegistry()
		if err := solo.Register(def); err != nil {
			return nil, "", err
		}
		return solo, def.Name, nil
	}
	if _, err := reg.Get(arg); err != nil {
		return nil, "", err
	}
	return reg, arg, nil
}

func parseSet(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vals := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("bad --set %q, want key=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bad --set %q: %v", pair, err)
		}
		vals[strings.TrimSpace(key)] = v
	}
	return vals, nil
}

// preparedDef clones, presets and overrides a sample for one command
// invocation, leaving the registry's copy untouched.
func preparedDef(reg *sample.Registry, name string) (*sample.Def, error) {
	def, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	def = def.Clone()
	if preset != "" {
		if err := sample.ApplyPreset(def, preset); err != nil {
			return nil, err
		}
	}
	set, err := parseSet(setFlags)
	if err != nil {
		return nil, err
	}
	if err := sample.ApplyInitial(def, set); err != nil {
		return nil, err
	}
	return def, nil
}

func runSample(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("fps") {
		fps = cfg.FPS
	}
	name := cfg.Sample
	if len(args) > 0 {
		name = args[0]
	}
	reg, name, err := resolveSample(name)
	if err != nil {
		return err
	}
	set, err := parseSet(setFlags)
	if err != nil {
		return err
	}
	return tui.Run(reg, tui.Options{
		Sample: name,
		FPS:    fps,
		Speed:  speed,
		Preset: preset,
		Set:    set,
	})
}

func guiRun(cmd *cobra.Command, args []string) error {
	name := cfg.Sample
	if len(args) > 0 {
		name = args[0]
	}
	reg, name, err := resolveSample(name)
	if err != nil {
		return err
	}
	set, err := parseSet(setFlags)
	if err != nil {
		return err
	}
	return gui.Run(reg, gui.Options{
		Sample: name,
		FPS:    fps,
		Speed:  speed,
		Preset: preset,
		Set:    set,
	})
}

func listSamples(cmd *cobra.Command, args []string) error {
	reg, err := samples.Registry()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tMODEL\tPARAMS\tVIEWS\tPRESETS")
	for _, name := range reg.Names() {
		d, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			d.Name, d.Title, d.Model.Kind, len(d.Params), len(d.Views), len(d.Presets))
	}
	return w.Flush()
}

func sampleInfo(cmd *cobra.Command, args []string) error {
	reg, name, err := resolveSample(args[0])
	if err != nil {
		return err
	}
	d, err := reg.Get(name)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", d.Name, d.Title)
	fmt.Printf("model: %s\n", d.Model.Kind)
	if d.Model.Domain != "" {
		fmt.Printf("domain: %s\n", d.Model.Domain)
	}
	if d.Speed > 0 && d.Speed != 1 {
		fmt.Printf("speed: %gx\n", d.Speed)
	}

	fmt.Println("\nparameters:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  KEY\tLABEL\tVALUE\tRANGE\tSTEP")
	for _, p := range d.Params {
		scale := ""
		if p.Log {
			scale = " (log10)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%g .. %g%s\t%g\n",
			p.Key, p.Label, p.Format.Display(p.Value), p.Min, p.Max, scale, p.Step)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nviews:")
	for _, v := range d.Views {
		fmt.Printf("  %s -> %s\n", v.Kind, v.Target)
	}

	if len(d.Bindings) > 0 {
		fmt.Println("\nbindings:")
		for _, b := range d.Bindings {
			m := b.Map
			if m == "" {
				m = "linear"
			}
			fmt.Printf("  %s -> %s (%s)\n", b.Control, b.Param, m)
		}
	}

	if len(d.Presets) > 0 {
		fmt.Println("\npresets:")
		for _, pn := range sample.PresetNames(d) {
			vals := d.Presets[pn]
			keys := make([]string, 0, len(vals))
			for k := range vals {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf("%s=%g", k, vals[k])
			}
			fmt.Printf("  %s: %s\n", pn, strings.Join(parts, " "))
		}
	}
	return nil
}

func snapshotSample(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("width") {
		width = cfg.Snapshot.Width
	}
	if !cmd.Flags().Changed("height") {
		height = cfg.Snapshot.Height
	}

	reg, name, err := resolveSample(args[0])
	if err != nil {
		return err
	}
	def, err := preparedDef(reg, name)
	if err != nil {
		return err
	}
	h, err := sample.New(def, sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return err
	}

	svgs := map[string]*export.SVG{}
	var order []string
	err = h.AttachTargets(func(id string) (render.Target, error) {
		s := export.NewSVG(width, height)
		svgs[id] = s
		order = append(order, id)
		return s, nil
	})
	if err != nil {
		return err
	}

	const stepDt = 1.0 / 60
	for t := 0.0; t < duration; t += stepDt {
		h.Scheduler().Step(stepDt)
	}
	// a zero-dt step paints the frame even when no time was requested
	h.Scheduler().Step(0)
	if fails := h.RendererFailures(); len(fails) > 0 {
		return fmt.Errorf("render: %s", strings.Join(fails, "; "))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, id := range order {
		path := filepath.Join(outDir, fmt.Sprintf("%s-%s.svg", def.Name, id))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if _, err := svgs[id].WriteTo(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("wrote", path)
	}
	return nil
}

func headlessRun(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("time") {
		duration = cfg.Headless.Time
	}
	if !cmd.Flags().Changed("dt") {
		dt = cfg.Headless.Dt
	}
	if !cmd.Flags().Changed("data") && cfg.Headless.Dir != "" {
		dataDir = cfg.Headless.Dir
	}
	if dt <= 0 {
		return fmt.Errorf("dt must be positive")
	}

	reg, name, err := resolveSample(args[0])
	if err != nil {
		return err
	}
	def, err := preparedDef(reg, name)
	if err != nil {
		return err
	}

	opts := []sample.Option{sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	usedSeed := def.Seed
	if cmd.Flags().Changed("seed") {
		opts = append(opts, sample.WithSeed(seed))
		usedSeed = seed
	}
	h, err := sample.New(def, opts...)
	if err != nil {
		return err
	}

	steps := int(math.Round(duration / dt))
	start := time.Now()
	for i := 0; i < steps; i++ {
		h.Scheduler().Step(dt)
	}
	elapsed := time.Since(start)

	st := h.State()
	fmt.Printf("%s: %d steps to t=%.2fs in %v\n", def.Name, steps, st.T, elapsed.Round(time.Millisecond))
	if st.Stalled {
		fmt.Println("model stalled, values held at the last stable frame")
	}
	outs := h.Outputs()
	for _, k := range outs.Keys() {
		fmt.Printf("  %-14s %s\n", k, outs.Display(k))
	}

	if !save {
		return nil
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	vals := make(map[string]float64, len(outs.Keys()))
	for _, k := range outs.Keys() {
		vals[k] = outs.Value(k)
	}
	id, err := store.Save(storage.RunMetadata{
		Sample:   def.Name,
		Seed:     usedSeed,
		Dt:       dt,
		Duration: st.T,
		Preset:   preset,
		Status:   h.Status().String(),
		Outputs:  vals,
	}, st.Hist)
	if err != nil {
		return err
	}
	fmt.Println("saved run", id)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSAMPLE\tTIME\tDURATION\tDT\tSTATUS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			r.ID, r.Sample, r.Timestamp.Format("2006-01-02 15:04:05"), r.Duration, r.Dt, r.Status)
	}
	return w.Flush()
}

func analyzeSeries(cmd *cobra.Command, args []string) error {
	var (
		times  []float64
		series map[string][]float64
		cols   []string
		label  string
	)

	switch {
	case runID != "":
		var err error
		times, series, err = storage.New(dataDir).LoadHistory(runID)
		if err != nil {
			return err
		}
		for c := range series {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		label = runID

	case len(args) == 1:
		if !cmd.Flags().Changed("time") {
			duration = cfg.Headless.Time
		}
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Headless.Dt
		}
		if dt <= 0 {
			return fmt.Errorf("dt must be positive")
		}
		reg, name, err := resolveSample(args[0])
		if err != nil {
			return err
		}
		def, err := preparedDef(reg, name)
		if err != nil {
			return err
		}
		h, err := sample.New(def, sample.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		if err != nil {
			return err
		}
		steps := int(math.Round(duration / dt))
		for i := 0; i < steps; i++ {
			h.Scheduler().Step(dt)
		}
		hist := h.State().Hist
		if hist == nil || hist.Len() < 2 {
			return fmt.Errorf("%s records no history to analyze", def.Name)
		}
		times = hist.Times()
		series = make(map[string][]float64, len(hist.Cols()))
		for _, c := range hist.Cols() {
			series[c] = hist.Series(c)
		}
		cols = hist.Cols()
		label = def.Name

	default:
		return fmt.Errorf("analyze needs a sample argument or --run")
	}

	if len(cols) == 0 || len(times) < 2 {
		return fmt.Errorf("no recorded series")
	}
	col := column
	if col == "" {
		col = cols[0]
	}
	data, ok := series[col]
	if !ok {
		return fmt.Errorf("no column %q, have: %s", col, strings.Join(cols, ", "))
	}

	span := times[len(times)-1] - times[0]
	if span <= 0 {
		return fmt.Errorf("series spans no time")
	}
	rate := float64(len(times)-1) / span

	spec := analysis.PowerSpectrum(data, rate)
	if len(spec.Power) == 0 {
		return fmt.Errorf("series too short to analyze")
	}

	fmt.Println(asciigraph.Plot(spec.Power,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("power spectrum: %s %s", label, col)),
	))
	freq, power := spec.Peak()
	fmt.Printf("\ndominant frequency: %.3f hz (amplitude %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}
	return nil
}
