package models

import "time"

// MediaType tags a message attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// ValidMediaType reports whether t is one of the accepted kinds.
func ValidMediaType(t MediaType) bool {
	switch t {
	case MediaImage, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// MediaAttachment is owned by exactly one message.
type MediaAttachment struct {
	Type MediaType `bson:"type" json:"type"`
	URL  string    `bson:"url" json:"url"`
}

// Message is immutable once created; it only goes away when its
// conversation is hard-deleted.
type Message struct {
	ID        string            `bson:"_id" json:"message_id"`
	ConID     string            `bson:"con_id" json:"con_id"`
	Sender    string            `bson:"sender" json:"sender"`
	Receiver  string            `bson:"receiver" json:"receiver"`
	Content   string            `bson:"content" json:"content"`
	Media     []MediaAttachment `bson:"media" json:"media"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
