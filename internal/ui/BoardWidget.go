package ui

import (
	"image/color"

	"MathBoard/internal/raster"
	"MathBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget is the drawing surface. Pointer events become strokes on the
// raster surface; the widget only displays its pixels.
type BoardWidget struct {
	widget.BaseWidget
	surface *raster.Surface
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(surface *raster.Surface) *BoardWidget {
	b := &BoardWidget{surface: surface}
	b.ExtendBaseWidget(b)
	return b
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: p.X, Y: p.Y}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.surface.BeginStroke(toPoint(e.Position))
	b.Refresh()
}

func (b *BoardWidget) MouseUp(*desktop.MouseEvent) {
	b.surface.EndStroke()
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.surface.ExtendStroke(toPoint(e.Position)) {
		b.Refresh()
	}
}

// Dragged fires instead of MouseMoved while the button is held.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.surface.ExtendStroke(toPoint(e.Position)) {
		b.Refresh()
	}
}

func (b *BoardWidget) DragEnd() {
	b.surface.EndStroke()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseOut ends the stroke like pointer-leave does.
func (b *BoardWidget) MouseOut() {
	b.surface.EndStroke()
}

// Resize keeps the pixel buffer the size of the widget. Strokes are replayed
// so nothing is lost.
func (b *BoardWidget) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	b.surface.Resize(int(size.Width), int(size.Height))
	b.Refresh()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	r.ink = canvas.NewImageFromImage(b.surface.Image())
	r.ink.FillMode = canvas.ImageFillStretch
	r.ink.ScaleMode = canvas.ImageScalePixels
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	ink        *canvas.Image
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.ink}
}

func (r *boardWidgetRenderer) Refresh() {
	if r.board.surface.Inked() {
		r.background.FillColor = color.Black
	} else {
		r.background.FillColor = theme.Color(theme.ColorNameBackground)
	}
	r.background.Refresh()
	r.ink.Image = r.board.surface.Image()
	r.ink.Refresh()
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.ink.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
