package render

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSplit(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "a = 1", Math: true}}, Split(`\(a = 1\)`))
	assert.Equal(t, []Segment{
		{Text: "sum: "},
		{Text: "x+1", Math: true},
		{Text: " and "},
		{Text: "y", Math: true},
	}, Split(`sum: $x+1$ and \(y\)`))
	assert.Equal(t, []Segment{{Text: "plain"}}, Split("plain"))
	assert.Equal(t, []Segment{{Text: `open \(x`}}, Split(`open \(x`))
}

func TestConvert(t *testing.T) {
	cases := map[string]string{
		`\LARGE{2+2 = 4}`:       "2+2 = 4",
		`3 \times 4 = 12`:       "3 × 4 = 12",
		`\frac{1}{2} = 0.5`:     "(1)/(2) = 0.5",
		`\sqrt{16} = 4`:         "√(16) = 4",
		`x^{2} = 9`:             "x² = 9",
		`2^3 = 8`:               "2³ = 8",
		`e^{ab}`:                "e^(ab)",
		`\left(2\right) \pi`:    "(2) π",
		`\LARGE{\frac{6}{\pi}}`: "(6)/(π)",
	}
	for in, want := range cases {
		assert.Equal(t, want, Convert(in), in)
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "2+2 = 4", Text(`\(\LARGE{2+2 = 4}\)`))
	assert.Equal(t, "x = 5", Text(`$x = 5$`))
}

type fakeItem struct {
	markup string
	img    image.Image
	text   string
	mu     sync.Mutex
}

func (f *fakeItem) Markup() string { return f.markup }

func (f *fakeItem) SetRendered(img image.Image, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.img, f.text = img, text
}

func TestTypesetWaitsForReady(t *testing.T) {
	ts := NewTypesetter(zaptest.NewLogger(t))
	item := &fakeItem{markup: `\(\LARGE{2+2 = 4}\)`}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ts.Typeset(ctx, []Item{item}), context.DeadlineExceeded, "not started yet")

	ts.Start()
	ts.Start()
	<-ts.Ready()
	require.NoError(t, ts.Err())

	require.NoError(t, ts.Typeset(context.Background(), []Item{item}))
	assert.Equal(t, "2+2 = 4", item.text)
	require.NotNil(t, item.img)
	assert.Greater(t, item.img.Bounds().Dx(), 2*padding)
}

func TestTypesetLoadFailure(t *testing.T) {
	ts := NewTypesetter(nil)
	ts.load = func() ([]byte, error) { return nil, errors.New("cdn down") }
	ts.Start()
	<-ts.Ready()

	assert.ErrorIs(t, ts.Err(), ErrTypesetterUnavailable)
	err := ts.Typeset(context.Background(), []Item{&fakeItem{markup: "$x$"}})
	assert.ErrorIs(t, err, ErrTypesetterUnavailable)
}
