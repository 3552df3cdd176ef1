package models

import (
	"sort"
	"strings"
	"time"
)

// Conversation pairs exactly two subjects. A participant slot goes nil
// when that side deletes the conversation; UserDelete records who left.
// When both slots are nil the record (and its messages) is removed.
type Conversation struct {
	ID         string    `bson:"_id" json:"con_id"`
	PairKey    string    `bson:"pair_key" json:"-"`
	UserID1    *string   `bson:"user_id1" json:"user_id1"`
	UserID2    *string   `bson:"user_id2" json:"user_id2"`
	UserDelete *string   `bson:"user_delete" json:"user_delete,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// ConversationPreview joins a conversation with its most recent message.
type ConversationPreview struct {
	Conversation  `bson:",inline"`
	LatestMessage *Message `bson:"latest_message" json:"latest_message,omitempty"`
}

// PairKey canonicalises the unordered participant pair. It is computed
// once at creation and never changes, so the record stays findable while
// one slot is nil.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// HasParticipant reports whether subject currently occupies a slot.
func (c *Conversation) HasParticipant(subject string) bool {
	if c.UserID1 != nil && *c.UserID1 == subject {
		return true
	}
	return c.UserID2 != nil && *c.UserID2 == subject
}

// Peer returns the other current participant, if any.
func (c *Conversation) Peer(subject string) (string, bool) {
	if c.UserID1 != nil && *c.UserID1 == subject {
		if c.UserID2 != nil {
			return *c.UserID2, true
		}
		return "", false
	}
	if c.UserID2 != nil && *c.UserID2 == subject {
		if c.UserID1 != nil {
			return *c.UserID1, true
		}
	}
	return "", false
}
