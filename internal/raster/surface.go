// Package raster holds the drawing surface: a pixel buffer plus the vector
// stroke log it is rendered from.
package raster

import (
	"image"
	"image/color"
	"io"
	"sync"

	"MathBoard/internal/state"

	"github.com/fogleman/gg"
)

// StrokeWidth is the fixed pen width.
const StrokeWidth = 3.0

type Surface struct {
	dc      *gg.Context
	width   int
	height  int
	strokes []*state.Stroke
	current *state.Stroke
	color   state.Swatch
	inked   bool
	mu      sync.Mutex
}

func NewSurface(width, height int) *Surface {
	return &Surface{
		dc:     gg.NewContext(clampDim(width), clampDim(height)),
		width:  clampDim(width),
		height: clampDim(height),
		color:  state.DefaultSwatch(),
	}
}

func clampDim(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// BeginStroke opens a stroke at p. Nothing is drawn until the stroke is
// extended.
func (s *Surface) BeginStroke(p state.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inked = true
	s.current = &state.Stroke{
		ID:     state.NewID(),
		Points: []state.Point{p},
		Color:  s.color.Color,
		Width:  StrokeWidth,
	}
	s.strokes = append(s.strokes, s.current)
}

// ExtendStroke draws a segment to p. Without an active stroke it does nothing.
func (s *Surface) ExtendStroke(p state.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	last := s.current.Points[len(s.current.Points)-1]
	s.current.Points = append(s.current.Points, p)
	s.segment(s.current.Color, s.current.Width, last, p)
	return true
}

func (s *Surface) EndStroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// SetColor changes the pen color. An active stroke is split so segments
// already drawn keep their color. Colors outside the palette are refused.
func (s *Surface) SetColor(sw state.Swatch) bool {
	if !state.InPalette(sw.Color) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = sw
	if s.current == nil {
		return true
	}
	last := s.current.Points[len(s.current.Points)-1]
	s.current = &state.Stroke{
		ID:     state.NewID(),
		Points: []state.Point{last},
		Color:  sw.Color,
		Width:  StrokeWidth,
	}
	s.strokes = append(s.strokes, s.current)
	return true
}

func (s *Surface) Color() state.Swatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// Inked reports whether a stroke has begun since the last Clear. The board
// paints its black background from this.
func (s *Surface) Inked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inked
}

// Clear drops every pixel and the stroke log. The pen color is kept.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc = gg.NewContext(s.width, s.height)
	s.strokes = nil
	s.current = nil
	s.inked = false
}

// Resize reallocates the buffer and replays the stroke log onto it.
func (s *Surface) Resize(width, height int) {
	width, height = clampDim(width), clampDim(height)
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.dc = gg.NewContext(width, height)
	for _, st := range s.strokes {
		for i := 1; i < len(st.Points); i++ {
			s.segment(st.Color, st.Width, st.Points[i-1], st.Points[i])
		}
	}
}

func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) segment(c color.Color, width float32, from, to state.Point) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(float64(width))
	s.dc.SetLineCapRound()
	s.dc.SetLineJoinRound()
	s.dc.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
	s.dc.Stroke()
}

// Image returns a copy of the pixel buffer.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.dc.Image().(*image.RGBA)
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// EncodePNG writes the pixel buffer as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.EncodePNG(w)
}

// InkBounds scans the pixel buffer for non-transparent pixels.
func (s *Surface) InkBounds() state.Bounds {
	return ScanBounds(s.Image())
}

// ScanBounds returns the box enclosing every pixel with non-zero alpha.
func ScanBounds(img *image.RGBA) state.Bounds {
	b := state.EmptyBounds()
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[(y-r.Min.Y)*img.Stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[(x-r.Min.X)*4+3] != 0 {
				b = b.Include(state.Point{X: float32(x), Y: float32(y)})
			}
		}
	}
	return b
}
