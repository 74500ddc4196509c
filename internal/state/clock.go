package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var seq uint64

func nextSeq() uint64 {
	return atomic.AddUint64(&seq, 1)
}

// NewID returns a fresh identifier for strokes and annotations.
func NewID() string {
	return uuid.NewString()
}
