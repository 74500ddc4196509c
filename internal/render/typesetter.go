// Package render typesets annotation markup into images.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var ErrTypesetterUnavailable = errors.New("typesetter failed to load")

const (
	defaultFontSize = 28
	padding         = 6
)

// Item is something the typesetter can render. SetRendered is called from
// the typesetting goroutine.
type Item interface {
	Markup() string
	SetRendered(img image.Image, text string)
}

// Typesetter is the process-wide math renderer. It must be started once;
// Typeset waits until the font has loaded.
type Typesetter struct {
	size  float64
	color color.Color
	load  func() ([]byte, error)
	log   *zap.Logger

	once  sync.Once
	ready chan struct{}
	err   error
	face  font.Face

	cache map[string]image.Image
	mu    sync.Mutex
}

func NewTypesetter(log *zap.Logger) *Typesetter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Typesetter{
		size:  defaultFontSize,
		color: color.White,
		load:  func() ([]byte, error) { return goregular.TTF, nil },
		log:   log.Named("typesetter"),
		ready: make(chan struct{}),
		cache: make(map[string]image.Image),
	}
}

// Start loads the font in the background. Calling it again is a no-op.
func (t *Typesetter) Start() {
	t.once.Do(func() {
		go func() {
			defer close(t.ready)
			face, err := t.loadFace()
			if err != nil {
				t.err = fmt.Errorf("%w: %v", ErrTypesetterUnavailable, err)
				t.log.Error("font load failed", zap.Error(err))
				return
			}
			t.face = face
			t.log.Info("typesetter ready")
		}()
	})
}

func (t *Typesetter) loadFace() (font.Face, error) {
	ttf, err := t.load()
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    t.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Ready is closed once Start has finished loading, successfully or not.
func (t *Typesetter) Ready() <-chan struct{} { return t.ready }

// Err reports the load failure, if any. Only meaningful after Ready.
func (t *Typesetter) Err() error {
	select {
	case <-t.ready:
		return t.err
	default:
		return nil
	}
}

// Typeset renders every item, waiting for the font first.
func (t *Typesetter) Typeset(ctx context.Context, items []Item) error {
	select {
	case <-t.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if t.err != nil {
		return t.err
	}

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := Text(it.Markup())
		it.SetRendered(t.image(text), text)
	}
	return nil
}

// Text converts markup to the plain string that gets drawn.
func Text(markup string) string {
	var b strings.Builder
	for _, seg := range Split(markup) {
		if seg.Math {
			b.WriteString(Convert(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func (t *Typesetter) image(text string) image.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	if img, ok := t.cache[text]; ok {
		return img
	}

	// gg.Context is not safe for concurrent use and neither is font.Face;
	// both are only touched under t.mu.
	measure := gg.NewContext(1, 1)
	measure.SetFontFace(t.face)
	w, h := measure.MeasureString(text)

	dc := gg.NewContext(int(w)+2*padding, int(h)+2*padding)
	dc.SetFontFace(t.face)
	dc.SetColor(t.color)
	dc.DrawStringAnchored(text, float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	img := dc.Image()
	t.cache[text] = img
	return img
}
