package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice|bob", PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestHasParticipantAndPeer(t *testing.T) {
	a, b := "alice", "bob"
	c := Conversation{UserID1: &a, UserID2: &b}

	assert.True(t, c.HasParticipant("alice"))
	assert.True(t, c.HasParticipant("bob"))
	assert.False(t, c.HasParticipant("mallory"))

	peer, ok := c.Peer("alice")
	assert.True(t, ok)
	assert.Equal(t, "bob", peer)

	// a left slot has no peer
	c.UserID2 = nil
	_, ok = c.Peer("alice")
	assert.False(t, ok)
	assert.False(t, c.HasParticipant("bob"))

	// outsiders get nothing
	_, ok = c.Peer("mallory")
	assert.False(t, ok)
}

func TestValidMediaType(t *testing.T) {
	assert.True(t, ValidMediaType(MediaImage))
	assert.True(t, ValidMediaType(MediaVideo))
	assert.True(t, ValidMediaType(MediaAudio))
	assert.False(t, ValidMediaType("gif"))
	assert.False(t, ValidMediaType(""))
}
