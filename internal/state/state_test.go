package state

import (
	"encoding/json"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableMemory(t *testing.T) {
	m := NewVariableMemory()
	assert.Equal(t, 0, m.Len())

	m.Merge("x", "5")
	m.Merge("y", "2")
	m.Merge("x", "7")
	assert.Equal(t, map[string]string{"x": "7", "y": "2"}, m.Snapshot())

	snap := m.Snapshot()
	snap["z"] = "1"
	assert.Equal(t, 2, m.Len(), "snapshot must be a copy")

	m.Clear()
	assert.Empty(t, m.Snapshot())
	m.Clear()
	assert.Empty(t, m.Snapshot())
}

func TestPalette(t *testing.T) {
	require.Len(t, Palette, 15)
	assert.Equal(t, "#ffffff", DefaultSwatch().Hex)

	s, ok := LookupSwatch("#FA5252")
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 0xfa, G: 0x52, B: 0x52, A: 255}, s.Color)
	assert.True(t, InPalette(s.Color))

	_, ok = LookupSwatch("#123456")
	assert.False(t, ok)
	assert.False(t, InPalette(color.NRGBA{R: 1, A: 255}))
}

func TestValueUnmarshal(t *testing.T) {
	cases := map[string]string{
		`"5"`:   "5",
		`5`:     "5",
		`2.5`:   "2.5",
		`true`:  "true",
		`null`:  "",
		`"a+b"`: "a+b",
	}
	for in, want := range cases {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(in), &v), in)
		assert.Equal(t, want, v.String(), in)
	}

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
}

func TestResultText(t *testing.T) {
	r := Result{Expr: "2+2", Result: "4"}
	assert.Equal(t, "2+2 = 4", r.DisplayText())
	assert.Equal(t, `\(\LARGE{2+2 = 4}\)`, r.Markup())
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	assert.Equal(t, Point{X: 50, Y: 40}, b.Anchor(100, 80))

	b = b.Include(Point{10, 20}).Include(Point{30, 5})
	assert.False(t, b.Empty)
	assert.Equal(t, Bounds{MinX: 10, MinY: 5, MaxX: 30, MaxY: 20}, b)
	assert.Equal(t, Point{X: 20, Y: 12.5}, b.Anchor(100, 80))
}

func TestOverlayListOrderAndMove(t *testing.T) {
	l := NewOverlayList()
	anchor := Point{X: 100, Y: 100}
	a := l.Append(Result{Expr: "2+2", Result: "4"}, anchor)
	b := l.Append(Result{Expr: "x", Result: "5", Assign: true}, anchor)

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, "2+2 = 4", list[0].DisplayText)
	assert.Equal(t, "x = 5", list[1].DisplayText)
	assert.Less(t, list[0].Seq, list[1].Seq)

	require.True(t, l.Move(a.ID, Point{X: 5, Y: 6}))
	got, ok := l.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, Point{X: 5, Y: 6}, got.Position)
	assert.Equal(t, anchor, got.Anchor)

	other, _ := l.Get(b.ID)
	assert.Equal(t, anchor, other.Position, "moving one annotation must not move another")

	c := l.Append(Result{Expr: "y", Result: "1"}, Point{X: 1, Y: 1})
	assert.Equal(t, Point{X: 1, Y: 1}, c.Position, "new annotations use their own anchor")

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Move(a.ID, Point{}))
}

func TestSchedulerOrderAndStagger(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)
	var mu sync.Mutex
	var got []int
	start := time.Now()
	s.Schedule(3, func(i int) {
		mu.Lock()
		got = append(got, i)
		mu.Unlock()
	})
	s.Wait()

	assert.Equal(t, []int{0, 1, 2}, got)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Equal(t, 0, s.pending())
}

func TestSchedulerBatchesDoNotInterleave(t *testing.T) {
	s := NewScheduler(10 * time.Millisecond)
	var mu sync.Mutex
	var got []string
	record := func(prefix string) func(int) {
		return func(i int) {
			mu.Lock()
			got = append(got, fmt.Sprintf("%s%d", prefix, i))
			mu.Unlock()
		}
	}

	start := time.Now()
	s.Schedule(3, record("a"))
	s.Schedule(1, record("b"))
	s.Wait()

	assert.Equal(t, []string{"a0", "a1", "a2", "b0"}, got)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "the second batch waits for the first")
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(time.Hour)
	var fired atomic.Bool
	s.Schedule(2, func(int) { fired.Store(true) })
	assert.Equal(t, 2, s.pending())

	s.Cancel()
	s.Wait()
	assert.False(t, fired.Load())
	assert.Equal(t, 0, s.pending())

	s.Schedule(0, func(int) { fired.Store(true) })
	assert.Equal(t, 0, s.pending())
}

func TestSchedulerUsableAfterCancel(t *testing.T) {
	s := NewScheduler(20 * time.Millisecond)
	s.Schedule(1, func(int) { t.Error("cancelled item fired") })
	s.Cancel()

	done := make(chan int, 1)
	s.Schedule(1, func(i int) { done <- i })
	s.Wait()
	assert.Equal(t, 0, <-done)
}
