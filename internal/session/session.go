// Package session owns one board's state and runs the capture, submit and
// reset flows.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"MathBoard/internal/export"
	"MathBoard/internal/net"
	"MathBoard/internal/state"

	"go.uber.org/zap"
)

var (
	ErrBusy = errors.New("a calculation is already running")
	// ErrStale means a Reset happened while the request was in flight; its
	// results were dropped.
	ErrStale = errors.New("results discarded after reset")
)

// Surface is the part of the drawing surface the session needs.
type Surface interface {
	EncodePNG(w io.Writer) error
	InkBounds() state.Bounds
	Size() (int, int)
	Clear()
}

// Calculator sends a canvas snapshot to the recognition backend.
type Calculator interface {
	Calculate(ctx context.Context, req net.CalculateRequest) ([]state.Result, error)
}

type Options struct {
	Stagger         time.Duration
	ShowAssignments bool
}

// Session is the screen-level owner of variable memory and overlays.
type Session struct {
	surface   Surface
	calc      Calculator
	memory    *state.VariableMemory
	overlays  *state.OverlayList
	scheduler *state.Scheduler
	opts      Options
	log       *zap.Logger

	// OnAppend fires for every annotation added to the board, from the
	// scheduler goroutine. A Reset can land before the callback runs, so
	// views should confirm the annotation is still in Overlays().
	OnAppend func(a state.Annotation)
	// OnReset fires after Reset cleared everything.
	OnReset func()

	mu         sync.Mutex
	generation uint64
	busy       bool
	cancel     context.CancelFunc
}

func New(surface Surface, calc Calculator, opts Options, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		surface:   surface,
		calc:      calc,
		memory:    state.NewVariableMemory(),
		overlays:  state.NewOverlayList(),
		scheduler: state.NewScheduler(opts.Stagger),
		opts:      opts,
		log:       log.Named("session"),
	}
}

func (s *Session) Memory() *state.VariableMemory { return s.memory }
func (s *Session) Overlays() *state.OverlayList  { return s.overlays }

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Submit captures the canvas, sends it with the current variables, merges
// assignments and schedules the results onto the board. It returns the number
// of annotations scheduled.
func (s *Session) Submit(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return 0, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	s.busy = true
	s.cancel = cancel
	gen := s.generation
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if s.generation == gen {
			s.busy = false
			s.cancel = nil
		}
		s.mu.Unlock()
	}()

	image, err := export.DataURL(s.surface)
	if err != nil {
		return 0, fmt.Errorf("capture canvas: %w", err)
	}
	vars := s.memory.Snapshot()

	s.log.Info("submitting canvas", zap.Int("image_bytes", len(image)), zap.Int("vars", len(vars)))
	results, err := s.calc.Calculate(ctx, net.CalculateRequest{Image: image, DictOfVars: vars})
	if err != nil {
		if s.stale(gen) {
			return 0, ErrStale
		}
		s.log.Warn("calculate failed", zap.Error(err))
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		s.log.Info("dropping results received after reset", zap.Int("results", len(results)))
		return 0, ErrStale
	}

	for _, r := range results {
		if r.Assign {
			s.memory.Merge(r.Expr, r.Result.String())
		}
	}

	w, h := s.surface.Size()
	box := s.surface.InkBounds()
	anchor := box.Anchor(float32(w), float32(h))
	if box.Empty {
		s.log.Info("canvas is blank, anchoring results at canvas center")
	}

	shown := make([]state.Result, 0, len(results))
	for _, r := range results {
		if r.Assign && !s.opts.ShowAssignments {
			continue
		}
		shown = append(shown, r)
	}

	s.scheduler.Schedule(len(shown), func(i int) {
		s.appendResult(gen, shown[i], anchor)
	})
	s.log.Info("results received",
		zap.Int("results", len(results)),
		zap.Int("shown", len(shown)),
		zap.Float32("anchor_x", anchor.X),
		zap.Float32("anchor_y", anchor.Y))
	return len(shown), nil
}

func (s *Session) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation != gen
}

func (s *Session) appendResult(gen uint64, r state.Result, anchor state.Point) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	a := s.overlays.Append(r, anchor)
	s.mu.Unlock()

	if s.OnAppend != nil {
		s.OnAppend(a)
	}
}

// Reset clears the canvas, overlays, variables and every pending append or
// request. Calling it twice is the same as calling it once.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.busy = false
	s.scheduler.Cancel()
	s.overlays.Clear()
	s.memory.Clear()
	s.mu.Unlock()

	s.surface.Clear()
	s.log.Info("board reset")
	if s.OnReset != nil {
		s.OnReset()
	}
}

// MoveAnnotation records a drag. Unknown ids are ignored.
func (s *Session) MoveAnnotation(id string, p state.Point) bool {
	return s.overlays.Move(id, p)
}

// Wait blocks until all scheduled appends have run or been cancelled.
func (s *Session) Wait() {
	s.scheduler.Wait()
}
