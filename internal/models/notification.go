package models

import "time"

// Notification is stored durably before any live push is attempted, so a
// receiver who is offline still finds it through the REST listing.
type Notification struct {
	ID         string    `bson:"_id" json:"notification_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	Type       string    `bson:"type" json:"type"`
	Title      string    `bson:"title" json:"title"`
	Body       string    `bson:"body" json:"body"`
	Read       bool      `bson:"read" json:"read"`
	RelatedURL string    `bson:"related_url,omitempty" json:"related_url,omitempty"`
	RelatedID  string    `bson:"related_id,omitempty" json:"related_id,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
