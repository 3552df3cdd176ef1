package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoangnqjl/MaroMart/internal/auth"
	"github.com/hoangnqjl/MaroMart/internal/errs"
	"github.com/hoangnqjl/MaroMart/internal/presence"
)

type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	closed bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error) { select {} }

func (f *fakeConn) WriteMessage(mt int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type fakeVerifier struct {
	subjects map[string]string
}

func (f *fakeVerifier) Verify(cred string) (auth.Identity, error) {
	if sub, ok := f.subjects[cred]; ok {
		return auth.Identity{Subject: sub}, nil
	}
	return auth.Identity{}, errs.ErrInvalidCredential
}

func newTestGateway() (*Gateway, *presence.Registry) {
	registry := presence.NewRegistry()
	verifier := &fakeVerifier{subjects: map[string]string{
		"token-alice": "alice",
		"token-bob":   "bob",
	}}
	return NewGateway(registry, verifier, zap.NewNop().Sugar()), registry
}

// drain pulls every queued frame off the client's send buffer and
// decodes the envelopes.
func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				return out
			}
			var env Envelope
			require.NoError(t, json.Unmarshal(b, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func registerFrame(token string) []byte {
	b, _ := json.Marshal(map[string]any{
		"type":    EventRegister,
		"payload": map[string]string{"token": token},
	})
	return b
}

func TestRegisterSuccess(t *testing.T) {
	g, registry := newTestGateway()
	c := newClient(&fakeConn{})

	stop := g.dispatch(c, registerFrame("token-alice"))
	assert.False(t, stop)
	assert.Equal(t, "alice", c.Subject())

	h, ok := registry.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, c, h.(*Client))

	events := drain(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, EventRegisterSuccess, events[0].Type)

	var p successPayload
	require.NoError(t, json.Unmarshal(events[0].Payload, &p))
	assert.Equal(t, "alice", p.UserID)
}

func TestRegisterFailKeepsConnectionOpen(t *testing.T) {
	g, registry := newTestGateway()
	c := newClient(&fakeConn{})

	stop := g.dispatch(c, registerFrame("bad-token"))
	assert.False(t, stop, "a rejected credential must not close the socket")
	assert.Empty(t, c.Subject())
	assert.Empty(t, registry.Online())

	events := drain(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, EventRegisterFail, events[0].Type)

	// the connection stays anonymous but usable: a later register works
	stop = g.dispatch(c, registerFrame("token-alice"))
	assert.False(t, stop)
	assert.Equal(t, "alice", c.Subject())
}

func TestRegisterMissingToken(t *testing.T) {
	g, _ := newTestGateway()
	c := newClient(&fakeConn{})

	b, _ := json.Marshal(map[string]any{"type": EventRegister})
	g.dispatch(c, b)

	events := drain(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, EventRegisterFail, events[0].Type)
}

func TestReconnectKicksOldConnection(t *testing.T) {
	g, registry := newTestGateway()
	first := newClient(&fakeConn{})
	second := newClient(&fakeConn{})

	g.dispatch(first, registerFrame("token-bob"))
	g.dispatch(second, registerFrame("token-bob"))

	h, ok := registry.Lookup("bob")
	require.True(t, ok)
	assert.Same(t, second, h.(*Client))

	events := drain(t, first)
	require.Len(t, events, 2)
	assert.Equal(t, EventRegisterSuccess, events[0].Type)
	assert.Equal(t, EventForceDisconnect, events[1].Type)

	// the old connection's own disconnect cleanup must not resolve the
	// new handle away
	registry.RemoveHandle(first)
	h, ok = registry.Lookup("bob")
	require.True(t, ok)
	assert.Same(t, second, h.(*Client))
}

func TestLogoutStopsConnectionAndUnregisters(t *testing.T) {
	g, registry := newTestGateway()
	c := newClient(&fakeConn{})

	g.dispatch(c, registerFrame("token-alice"))
	b, _ := json.Marshal(map[string]any{"type": EventLogout})
	stop := g.dispatch(c, b)

	assert.True(t, stop)
	assert.Empty(t, c.Subject())
	_, ok := registry.Lookup("alice")
	assert.False(t, ok)
}

func TestPushToSubject(t *testing.T) {
	g, _ := newTestGateway()
	c := newClient(&fakeConn{})
	g.dispatch(c, registerFrame("token-alice"))
	drain(t, c)

	delivered := g.PushToSubject("alice", EventNewMessage, map[string]string{"hello": "world"})
	assert.True(t, delivered)

	events := drain(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, EventNewMessage, events[0].Type)
}

func TestPushToAbsentSubjectIsNoop(t *testing.T) {
	g, _ := newTestGateway()
	assert.False(t, g.PushToSubject("nobody", EventNewMessage, nil))
}

func TestMalformedFrameIgnored(t *testing.T) {
	g, _ := newTestGateway()
	c := newClient(&fakeConn{})

	assert.False(t, g.dispatch(c, []byte("{not json")))
	assert.Empty(t, drain(t, c))
}
