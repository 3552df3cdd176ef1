package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hoangnqjl/MaroMart/internal/models"
)

type MessageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{coll: db.Collection(collMessages)}
}

func (r *MessageRepo) Insert(ctx context.Context, m *models.Message) error {
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

// ListByConversation returns all messages in creation order, oldest
// first.
func (r *MessageRepo) ListByConversation(ctx context.Context, conID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"con_id": conID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAllForConversation is the cascade helper behind a conversation
// hard delete.
func (r *MessageRepo) DeleteAllForConversation(ctx context.Context, conID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"con_id": conID})
	return err
}
