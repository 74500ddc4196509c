package state

import (
	"sync"
	"time"
)

// Scheduler fires queued callbacks one at a time from a single worker. Each
// callback fires stagger after the previous one, or stagger after it was
// queued when the worker was idle. Batches queued back to back therefore
// never interleave. Cancel drops everything still queued.
type Scheduler struct {
	stagger time.Duration
	queue   []func()
	cancel  chan struct{}
	running bool
	idle    *sync.Cond
	mu      sync.Mutex
}

func NewScheduler(stagger time.Duration) *Scheduler {
	s := &Scheduler{
		stagger: stagger,
		cancel:  make(chan struct{}),
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Schedule queues n callbacks behind anything already queued. fn receives the
// item index within this batch.
func (s *Scheduler) Schedule(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.queue = append(s.queue, func() { fn(i) })
	}
	if !s.running {
		s.running = true
		go s.run()
	}
}

func (s *Scheduler) run() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		cancel := s.cancel
		s.mu.Unlock()

		timer := time.NewTimer(s.stagger)
		select {
		case <-cancel:
			timer.Stop()
			continue
		case <-timer.C:
		}

		s.mu.Lock()
		// Cancel may race with the timer.
		if cancel != s.cancel || len(s.queue) == 0 {
			s.mu.Unlock()
			continue
		}
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		next()
	}
}

// Cancel drops every queued callback. A callback already running completes.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	close(s.cancel)
	s.cancel = make(chan struct{})
}

func (s *Scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Wait blocks until the queue is empty and no callback is running.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.running {
		s.idle.Wait()
	}
}
