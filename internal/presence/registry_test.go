package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	mu         sync.Mutex
	delivered  [][]byte
	kickReason string
	kicked     bool
}

func (f *fakeHandle) Deliver(data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, data)
	return true
}

func (f *fakeHandle) Kick(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicked = true
	f.kickReason = reason
}

func (f *fakeHandle) wasKicked() (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kicked, f.kickReason
}

func TestRegisterReplacesOldConnection(t *testing.T) {
	r := NewRegistry()
	old := &fakeHandle{}
	fresh := &fakeHandle{}

	r.Register("alice", old)
	r.Register("alice", fresh)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, fresh, got.(*fakeHandle))

	kicked, reason := old.wasKicked()
	assert.True(t, kicked, "superseded handle must be signalled")
	assert.Equal(t, "replaced by new session", reason)

	kicked, _ = fresh.wasKicked()
	assert.False(t, kicked)
	assert.Len(t, r.Online(), 1)
}

func TestRegisterSameHandleIsNotKicked(t *testing.T) {
	r := NewRegistry()
	h := &fakeHandle{}

	r.Register("alice", h)
	r.Register("alice", h)

	kicked, _ := h.wasKicked()
	assert.False(t, kicked)
}

func TestRemoveHandleIgnoresStaleHandle(t *testing.T) {
	r := NewRegistry()
	old := &fakeHandle{}
	fresh := &fakeHandle{}

	r.Register("bob", old)
	r.Register("bob", fresh)

	// the old connection's disconnect cleanup arrives after the
	// replacement; it must not evict the newer mapping
	r.RemoveHandle(old)

	got, ok := r.Lookup("bob")
	require.True(t, ok)
	assert.Same(t, fresh, got.(*fakeHandle))

	r.RemoveHandle(fresh)
	_, ok = r.Lookup("bob")
	assert.False(t, ok)
}

func TestRemoveDropsEntry(t *testing.T) {
	r := NewRegistry()
	r.Register("carol", &fakeHandle{})
	r.Remove("carol")

	_, ok := r.Lookup("carol")
	assert.False(t, ok)
	assert.Empty(t, r.Online())
}

func TestOnlineSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &fakeHandle{})
	r.Register("b", &fakeHandle{})

	assert.ElementsMatch(t, []string{"a", "b"}, r.Online())
}

func TestConcurrentRegisterLeavesOneEntry(t *testing.T) {
	r := NewRegistry()
	const n = 64

	var wg sync.WaitGroup
	handles := make([]*fakeHandle, n)
	for i := 0; i < n; i++ {
		handles[i] = &fakeHandle{}
		wg.Add(1)
		go func(h *fakeHandle) {
			defer wg.Done()
			r.Register("dave", h)
		}(handles[i])
	}
	wg.Wait()

	got, ok := r.Lookup("dave")
	require.True(t, ok)
	assert.Len(t, r.Online(), 1)

	// every handle except the final winner must have been kicked
	kickedCount := 0
	for _, h := range handles {
		if kicked, _ := h.wasKicked(); kicked {
			kickedCount++
		}
	}
	winner := got.(*fakeHandle)
	winnerKicked, _ := winner.wasKicked()
	assert.False(t, winnerKicked)
	assert.Equal(t, n-1, kickedCount)
}
