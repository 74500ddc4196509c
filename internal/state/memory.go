package state

import "sync"

// VariableMemory is the session symbol table echoed back to the backend so it
// can resolve earlier assignments.
type VariableMemory struct {
	vars map[string]string
	mu   sync.RWMutex
}

func NewVariableMemory() *VariableMemory {
	return &VariableMemory{vars: make(map[string]string)}
}

// Merge sets key to value, overwriting any previous value.
func (m *VariableMemory) Merge(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
}

func (m *VariableMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars = make(map[string]string)
}

// Snapshot returns a copy safe to hand to a request.
func (m *VariableMemory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out
}

func (m *VariableMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vars)
}
