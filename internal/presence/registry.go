// Package presence tracks which subjects are currently reachable over a
// live connection. One process owns the whole table; entries do not
// survive a restart.
package presence

import "sync"

// Handle is the opaque connection a subject is reachable on. Deliver
// must not block; Kick tells a superseded connection it is being
// replaced before it is dropped from the registry.
type Handle interface {
	Deliver(data []byte) bool
	Kick(reason string)
}

// Registry maps subject -> live handle, at most one entry per subject.
// All operations are in-memory and never perform I/O under the lock.
type Registry struct {
	mu        sync.RWMutex
	bySubject map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{bySubject: make(map[string]Handle)}
}

// Register installs h as the subject's live connection. An existing
// different handle is kicked first, so multi-device login terminates
// the older session. Last registration wins under concurrency.
func (r *Registry) Register(subject string, h Handle) {
	r.mu.Lock()
	old, had := r.bySubject[subject]
	r.bySubject[subject] = h
	r.mu.Unlock()

	if had && old != h {
		old.Kick("replaced by new session")
	}
}

// Remove drops the subject's entry unconditionally.
func (r *Registry) Remove(subject string) {
	r.mu.Lock()
	delete(r.bySubject, subject)
	r.mu.Unlock()
}

// RemoveHandle drops whichever entry still points at h. A disconnect
// that races with a newer Register for the same subject is a no-op
// here, because the map no longer stores h.
func (r *Registry) RemoveHandle(h Handle) {
	r.mu.Lock()
	for subject, cur := range r.bySubject {
		if cur == h {
			delete(r.bySubject, subject)
			break
		}
	}
	r.mu.Unlock()
}

// Lookup is a non-blocking read of the subject's live handle.
func (r *Registry) Lookup(subject string) (Handle, bool) {
	r.mu.RLock()
	h, ok := r.bySubject[subject]
	r.mu.RUnlock()
	return h, ok
}

// Online snapshots the currently reachable subjects, in no particular
// order.
func (r *Registry) Online() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.bySubject))
	for subject := range r.bySubject {
		out = append(out, subject)
	}
	r.mu.RUnlock()
	return out
}
