// Package directory resolves subject identifiers to display names. The
// user account system itself lives outside this service; only the read
// path needed for notification text is implemented here.
package directory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UnknownName is returned whenever a subject cannot be resolved.
const UnknownName = "Unknown"

// Directory looks up a display name for a subject.
type Directory interface {
	NameOf(ctx context.Context, subjectID string) string
}

type MongoDirectory struct {
	coll *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection("users")}
}

func (d *MongoDirectory) NameOf(ctx context.Context, subjectID string) string {
	var doc struct {
		Name     string `bson:"name"`
		Username string `bson:"username"`
	}
	// lookup failures degrade to the fallback name
	if err := d.coll.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&doc); err != nil {
		return UnknownName
	}
	if doc.Name != "" {
		return doc.Name
	}
	if doc.Username != "" {
		return doc.Username
	}
	return UnknownName
}
