package realtime

import (
	"sync"
)

// Registry tracks the live connections of one worker process. It is a
// liveness/membership tracker, not a policy engine: admission control
// happened at the HTTP layer before the upgrade.
//
// The mutex serializes all mutation; no other invariant is needed
// because workers share nothing with each other.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Admit records a new live connection, optionally pre-bound to an
// identity (already carried by the Conn itself).
func (r *Registry) Admit(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID] = conn
}

// Remove forgets a connection on disconnect. Removing an unknown id is
// harmless.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

// Snapshot returns the connections currently known to this worker.
// Broadcasts iterate over the returned slice so a concurrent
// admit/remove never races the fan-out loop.
func (r *Registry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
