package ui

import (
	"context"
	"image"
	"image/color"
	"time"

	"MathBoard/internal/render"
	"MathBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const typesetTimeout = 30 * time.Second

// annotationWidget shows one result. It can be dragged independently of
// every other annotation.
type annotationWidget struct {
	widget.BaseWidget
	id     string
	markup string
	text   *canvas.Text
	img    *canvas.Image
	moved  func(id string, p fyne.Position)
}

var _ fyne.Draggable = (*annotationWidget)(nil)
var _ render.Item = (*annotationWidget)(nil)

func newAnnotationWidget(a state.Annotation, moved func(string, fyne.Position)) *annotationWidget {
	w := &annotationWidget{
		id:     a.ID,
		markup: a.Markup,
		moved:  moved,
	}
	w.text = canvas.NewText(a.DisplayText, color.White)
	w.text.TextSize = 24
	w.img = &canvas.Image{FillMode: canvas.ImageFillOriginal}
	w.img.Hide()
	w.ExtendBaseWidget(w)
	w.Resize(w.MinSize())
	w.centerOn(fyne.NewPos(a.Position.X, a.Position.Y))
	return w
}

// center is the point an annotation's stored position refers to.
func (w *annotationWidget) center() fyne.Position {
	size := w.Size()
	return w.Position().Add(fyne.NewPos(size.Width/2, size.Height/2))
}

func (w *annotationWidget) centerOn(p fyne.Position) {
	size := w.Size()
	w.Move(p.Subtract(fyne.NewPos(size.Width/2, size.Height/2)))
}

func (w *annotationWidget) Markup() string { return w.markup }

// SetRendered swaps the plain text for the typeset image.
func (w *annotationWidget) SetRendered(img image.Image, _ string) {
	fyne.Do(func() {
		w.img.Image = img
		b := img.Bounds()
		w.img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		w.img.Show()
		w.text.Hide()
		c := w.center()
		w.Resize(w.MinSize())
		w.centerOn(c)
		w.Refresh()
	})
}

func (w *annotationWidget) Dragged(e *fyne.DragEvent) {
	w.Move(w.Position().Add(e.Dragged))
	if w.moved != nil {
		w.moved(w.id, w.center())
	}
}

func (w *annotationWidget) DragEnd() {}

func (w *annotationWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(w.text, w.img))
}

// OverlayLayer is the free-positioned layer stacked over the board.
type OverlayLayer struct {
	container  *fyne.Container
	widgets    []*annotationWidget
	typesetter *render.Typesetter
	moved      func(id string, p fyne.Position)
	log        *zap.Logger
}

func NewOverlayLayer(ts *render.Typesetter, moved func(string, fyne.Position), log *zap.Logger) *OverlayLayer {
	return &OverlayLayer{
		container:  container.NewWithoutLayout(),
		typesetter: ts,
		moved:      moved,
		log:        log.Named("overlay"),
	}
}

func (o *OverlayLayer) Object() fyne.CanvasObject { return o.container }

// Add must run on the UI goroutine.
func (o *OverlayLayer) Add(a state.Annotation) {
	w := newAnnotationWidget(a, o.moved)
	o.widgets = append(o.widgets, w)
	o.container.Add(w)
	o.retypeset()
}

func (o *OverlayLayer) Clear() {
	o.widgets = nil
	o.container.RemoveAll()
	o.container.Refresh()
}

func (o *OverlayLayer) Len() int { return len(o.widgets) }

// retypeset re-renders every annotation off the UI goroutine.
func (o *OverlayLayer) retypeset() {
	if o.typesetter == nil {
		return
	}
	items := make([]render.Item, 0, len(o.widgets))
	for _, w := range o.widgets {
		items = append(items, w)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), typesetTimeout)
		defer cancel()
		if err := o.typesetter.Typeset(ctx, items); err != nil {
			o.log.Warn("typeset failed, showing plain text", zap.Error(err))
		}
	}()
}
