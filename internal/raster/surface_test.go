package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"MathBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inkCount(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestNoPixelsOutsideStroke(t *testing.T) {
	s := NewSurface(50, 50)

	assert.False(t, s.ExtendStroke(state.Point{X: 10, Y: 10}), "extend before begin is a no-op")
	assert.Zero(t, inkCount(s.Image()))

	s.BeginStroke(state.Point{X: 5, Y: 5})
	assert.Zero(t, inkCount(s.Image()), "begin alone draws nothing")
	assert.True(t, s.Inked())

	assert.True(t, s.ExtendStroke(state.Point{X: 20, Y: 5}))
	drawn := inkCount(s.Image())
	assert.Positive(t, drawn)

	s.EndStroke()
	assert.False(t, s.ExtendStroke(state.Point{X: 40, Y: 40}), "extend after end is a no-op")
	assert.Equal(t, drawn, inkCount(s.Image()))
}

func TestStrokeColor(t *testing.T) {
	s := NewSurface(60, 20)
	red, _ := state.LookupSwatch("#fa5252")
	blue, _ := state.LookupSwatch("#228be6")

	require.True(t, s.SetColor(red))
	s.BeginStroke(state.Point{X: 5, Y: 10})
	s.ExtendStroke(state.Point{X: 25, Y: 10})

	require.True(t, s.SetColor(blue))
	s.ExtendStroke(state.Point{X: 55, Y: 10})
	s.EndStroke()

	img := s.Image()
	assert.Equal(t, red.Color.R, img.RGBAAt(15, 10).R, "earlier segment keeps its color")
	assert.Equal(t, blue.Color.B, img.RGBAAt(45, 10).B)

	strokes := s.strokes
	require.Len(t, strokes, 2)
	assert.Equal(t, red.Color, strokes[0].Color)
	assert.Equal(t, blue.Color, strokes[1].Color)
	assert.Equal(t, strokes[0].Points[len(strokes[0].Points)-1], strokes[1].Points[0])
}

func TestInkBounds(t *testing.T) {
	s := NewSurface(100, 100)
	assert.True(t, s.InkBounds().Empty)

	s.BeginStroke(state.Point{X: 20, Y: 30})
	s.ExtendStroke(state.Point{X: 60, Y: 30})
	s.EndStroke()

	b := s.InkBounds()
	require.False(t, b.Empty)
	assert.InDelta(t, 20, b.MinX, 3)
	assert.InDelta(t, 60, b.MaxX, 3)
	assert.InDelta(t, 30, b.MinY, 3)
	assert.InDelta(t, 30, b.MaxY, 3)
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewSurface(40, 40)
	s.BeginStroke(state.Point{X: 1, Y: 1})
	s.ExtendStroke(state.Point{X: 30, Y: 30})

	s.Clear()
	first := s.Image()
	s.Clear()
	second := s.Image()

	assert.Equal(t, first.Pix, second.Pix)
	assert.Zero(t, inkCount(second))
	assert.Empty(t, s.strokes)
	assert.False(t, s.Inked())
	assert.Nil(t, s.current)
}

func TestSetColorRejectsOffPalette(t *testing.T) {
	s := NewSurface(10, 10)
	off := state.Swatch{Hex: "#010203", Color: color.NRGBA{R: 1, G: 2, B: 3, A: 255}}

	assert.False(t, s.SetColor(off))
	assert.Equal(t, state.DefaultSwatch(), s.Color())
}

func TestResizeReplaysStrokes(t *testing.T) {
	s := NewSurface(40, 40)
	s.BeginStroke(state.Point{X: 5, Y: 5})
	s.ExtendStroke(state.Point{X: 30, Y: 5})
	s.EndStroke()
	before := inkCount(s.Image())

	s.Resize(80, 60)
	w, h := s.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 60, h)
	assert.Equal(t, before, inkCount(s.Image()))
}

func TestEncodePNG(t *testing.T) {
	s := NewSurface(12, 8)
	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 8), img.Bounds())
}
