package state

import (
	"sync"
)

// OverlayList holds annotations in arrival order. Positions change through
// Move; nothing is removed except by Clear.
type OverlayList struct {
	items []*Annotation
	index map[string]*Annotation
	mu    sync.RWMutex
}

func NewOverlayList() *OverlayList {
	return &OverlayList{index: make(map[string]*Annotation)}
}

// Append places r at anchor and returns a copy of the stored annotation.
func (l *OverlayList) Append(r Result, anchor Point) Annotation {
	a := &Annotation{
		ID:          NewID(),
		Seq:         nextSeq(),
		DisplayText: r.DisplayText(),
		Markup:      r.Markup(),
		Position:    anchor,
		Anchor:      anchor,
	}

	l.mu.Lock()
	l.items = append(l.items, a)
	l.index[a.ID] = a
	l.mu.Unlock()
	return *a
}

// Move updates one annotation's position. It returns false for unknown ids,
// which happens when a drag finishes after a reset.
func (l *OverlayList) Move(id string, p Point) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.index[id]
	if !ok {
		return false
	}
	a.Position = p
	return true
}

func (l *OverlayList) Get(id string) (Annotation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.index[id]
	if !ok {
		return Annotation{}, false
	}
	return *a, true
}

// List returns copies in insertion order.
func (l *OverlayList) List() []Annotation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Annotation, 0, len(l.items))
	for _, a := range l.items {
		out = append(out, *a)
	}
	return out
}

func (l *OverlayList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *OverlayList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.index = make(map[string]*Annotation)
}
