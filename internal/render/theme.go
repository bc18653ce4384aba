package render

// Palette defines the color scheme renderers draw with.
type Palette struct {
	Name       string
	Background Color
	Panel      Color
	Axis       Color
	Grid       Color
	Text       Color
	Muted      Color
	Accent     Color
	Success    Color
	Warning    Color
	Error      Color
	Ghost      Color
	Series     []Color
}

// Available palettes
var (
	PaletteMidnight = Palette{
		Name:       "midnight",
		Background: Color{16, 18, 28, 255},
		Panel:      Color{26, 29, 43, 255},
		Axis:       Color{120, 130, 160, 255},
		Grid:       Color{50, 55, 75, 255},
		Text:       Color{220, 226, 245, 255},
		Muted:      Color{110, 118, 140, 255},
		Accent:     Color{122, 162, 247, 255}, // periwinkle
		Success:    Color{158, 206, 106, 255},
		Warning:    Color{224, 175, 104, 255},
		Error:      Color{247, 118, 142, 255},
		Ghost:      Color{120, 130, 160, 110},
		Series: []Color{
			{122, 162, 247, 255},
			{158, 206, 106, 255},
			{224, 175, 104, 255},
			{187, 154, 247, 255},
			{125, 207, 255, 255},
			{247, 118, 142, 255},
		},
	}

	PalettePaper = Palette{
		Name:       "paper",
		Background: Color{250, 249, 245, 255},
		Panel:      Color{240, 238, 230, 255},
		Axis:       Color{70, 70, 75, 255},
		Grid:       Color{215, 213, 205, 255},
		Text:       Color{30, 30, 35, 255},
		Muted:      Color{130, 130, 135, 255},
		Accent:     Color{0, 90, 200, 255},
		Success:    Color{20, 130, 60, 255},
		Warning:    Color{190, 120, 0, 255},
		Error:      Color{200, 40, 60, 255},
		Ghost:      Color{70, 70, 75, 90},
		Series: []Color{
			{0, 90, 200, 255},
			{20, 130, 60, 255},
			{190, 120, 0, 255},
			{130, 60, 200, 255},
			{0, 140, 170, 255},
			{200, 40, 60, 255},
		},
	}
)

// DefaultPalette is what renderers use unless a config overrides colors
// explicitly.
var DefaultPalette = PaletteMidnight

// SeriesColor cycles the palette's series colors.
func (p Palette) SeriesColor(i int) Color {
	if len(p.Series) == 0 {
		return p.Accent
	}
	return p.Series[i%len(p.Series)]
}
