package ui

import (
	"image/color"

	"MathBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Swatch   state.Swatch
	OnTapped func(state.Swatch)
	selected bool
	border   *canvas.Circle
}

func newColorSwatch(s state.Swatch, tapped func(state.Swatch)) *colorSwatch {
	cs := &colorSwatch{Swatch: s, OnTapped: tapped}
	cs.ExtendBaseWidget(cs)
	return cs
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewCircle(s.Swatch.Color)
	s.border = canvas.NewCircle(color.Transparent)
	s.border.StrokeWidth = 2
	s.updateBorder()

	stack := container.NewStack(rect, s.border)
	return widget.NewSimpleRenderer(container.NewGridWrap(fyne.NewSize(24, 24), stack))
}

func (s *colorSwatch) updateBorder() {
	if s.selected {
		s.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
	} else {
		s.border.StrokeColor = color.Gray{Y: 150}
	}
}

func (s *colorSwatch) setSelected(v bool) {
	s.selected = v
	if s.border != nil {
		s.updateBorder()
		s.border.Refresh()
	}
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Swatch)
	}
}

// Palette is the row of swatches. Exactly one is selected at a time.
type Palette struct {
	swatches []*colorSwatch
	box      *fyne.Container
}

func NewPalette(onSelect func(state.Swatch)) *Palette {
	p := &Palette{}
	objs := make([]fyne.CanvasObject, 0, len(state.Palette))
	for _, sw := range state.Palette {
		cs := newColorSwatch(sw, func(picked state.Swatch) {
			p.Select(picked.Hex)
			onSelect(picked)
		})
		p.swatches = append(p.swatches, cs)
		objs = append(objs, cs)
	}
	p.box = container.NewHBox(objs...)
	p.Select(state.DefaultSwatch().Hex)
	return p
}

// Select highlights the swatch with the given hex value. Unknown values leave
// the selection alone.
func (p *Palette) Select(hex string) bool {
	sw, ok := state.LookupSwatch(hex)
	if !ok {
		return false
	}
	for _, cs := range p.swatches {
		cs.setSelected(cs.Swatch.Hex == sw.Hex)
	}
	return true
}

// Selected returns the highlighted swatch.
func (p *Palette) Selected() state.Swatch {
	for _, cs := range p.swatches {
		if cs.selected {
			return cs.Swatch
		}
	}
	return state.DefaultSwatch()
}

// --- The Main Toolbar ---
func NewToolbar(s *Screen) fyne.CanvasObject {
	reset := widget.NewButtonWithIcon("Reset", theme.DeleteIcon(), s.Reset)
	run := widget.NewButtonWithIcon("Run", theme.MediaPlayIcon(), s.Run)
	run.Importance = widget.HighImportance

	return container.NewGridWithColumns(3,
		reset,
		container.NewCenter(s.Palette.box),
		run,
	)
}
