package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverAfterCloseReportsFalse(t *testing.T) {
	c := newClient(&fakeConn{})
	c.Close()

	assert.False(t, c.Deliver([]byte("late")))
	// double close stays safe
	c.Close()
}

func TestDeliverDropsWhenBufferFull(t *testing.T) {
	c := newClient(&fakeConn{})
	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.Deliver([]byte("x")))
	}
	assert.False(t, c.Deliver([]byte("overflow")))
}

func TestKickFlushesTerminalEventBeforeClose(t *testing.T) {
	conn := &fakeConn{}
	c := newClient(conn)
	done := make(chan struct{})
	go func() {
		c.writePump()
		close(done)
	}()

	c.Kick("replaced by new session")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not stop after kick")
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.NotEmpty(t, conn.writes)

	var env Envelope
	require.NoError(t, json.Unmarshal(conn.writes[0], &env))
	assert.Equal(t, EventForceDisconnect, env.Type)

	var p failPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "replaced by new session", p.Message)
	assert.True(t, conn.closed)
}
