package ui

import (
	"context"
	"errors"
	"fmt"

	"MathBoard/internal/raster"
	"MathBoard/internal/render"
	"MathBoard/internal/session"
	"MathBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// Screen is the single page of the app: toolbar, board, overlays and status.
type Screen struct {
	Board    *BoardWidget
	Overlays *OverlayLayer
	Palette  *Palette
	Status   *widget.Label

	surface *raster.Surface
	session *session.Session
	log     *zap.Logger
}

func NewScreen(surface *raster.Surface, sess *session.Session, ts *render.Typesetter, log *zap.Logger) *Screen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Screen{
		Board:   NewBoardWidget(surface),
		Status:  widget.NewLabel("Ready"),
		surface: surface,
		session: sess,
		log:     log.Named("ui"),
	}
	s.Overlays = NewOverlayLayer(ts, func(id string, p fyne.Position) {
		sess.MoveAnnotation(id, state.Point{X: p.X, Y: p.Y})
	}, s.log)
	s.Palette = NewPalette(s.SelectColor)

	sess.OnAppend = func(a state.Annotation) {
		fyne.Do(func() {
			// Reset clears the model before it queues the UI clear.
			if _, ok := sess.Overlays().Get(a.ID); !ok {
				s.log.Debug("dropping annotation removed by reset", zap.String("id", a.ID))
				return
			}
			s.Overlays.Add(a)
		})
	}
	sess.OnReset = func() {
		fyne.Do(func() {
			s.Overlays.Clear()
			s.Board.Refresh()
		})
	}
	return s
}

// Content lays the screen out: toolbar on top, status at the bottom, the
// overlay layer stacked over the board.
func (s *Screen) Content() fyne.CanvasObject {
	board := container.NewStack(s.Board, s.Overlays.Object())
	return container.NewBorder(NewToolbar(s), s.Status, nil, nil, board)
}

func (s *Screen) SelectColor(sw state.Swatch) {
	if !s.surface.SetColor(sw) {
		s.log.Warn("color not in palette", zap.String("color", sw.Hex))
		return
	}
	s.log.Debug("color selected", zap.String("color", sw.Hex))
}

// Run submits the canvas in the background and reports progress on the
// status bar.
func (s *Screen) Run() {
	if s.session.Busy() {
		s.SetStatus("Still calculating...")
		return
	}
	s.SetStatus("Calculating...")
	go func() {
		n, err := s.session.Submit(context.Background())
		fyne.Do(func() { s.reportSubmit(n, err) })
	}()
}

func (s *Screen) reportSubmit(n int, err error) {
	switch {
	case errors.Is(err, session.ErrStale):
		// Reset already updated the status.
	case errors.Is(err, session.ErrBusy):
		s.SetStatus("Still calculating...")
	case err != nil:
		s.log.Error("calculation failed", zap.Error(err))
		s.SetStatus(fmt.Sprintf("Calculation failed: %v. Press Run to try again.", err))
	case n == 0:
		s.SetStatus("Nothing recognized")
	default:
		s.SetStatus(fmt.Sprintf("Got %d result(s)", n))
	}
}

func (s *Screen) Reset() {
	s.session.Reset()
	s.SelectColor(state.DefaultSwatch())
	s.Palette.Select(state.DefaultSwatch().Hex)
	s.SetStatus("Ready")
}

// SetStatus must run on the UI goroutine.
func (s *Screen) SetStatus(text string) {
	s.Status.SetText(text)
}
