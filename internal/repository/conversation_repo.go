package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hoangnqjl/MaroMart/internal/errs"
	"github.com/hoangnqjl/MaroMart/internal/models"
)

type ConversationRepo struct {
	coll *mongo.Collection
}

func NewConversationRepo(db *mongo.Database) *ConversationRepo {
	return &ConversationRepo{coll: db.Collection(collConversations)}
}

func (r *ConversationRepo) Get(ctx context.Context, conID string) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": conID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByPairKey looks up the conversation for an unordered participant
// pair, deleted-by-one-side records included.
func (r *ConversationRepo) FindByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Insert adds a fresh conversation. A concurrent creator for the same
// pair loses on the unique pair_key index; callers refetch on
// errs.ErrDuplicatePair.
func (r *ConversationRepo) Insert(ctx context.Context, c *models.Conversation) error {
	_, err := r.coll.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrDuplicatePair
	}
	return err
}

// Revive undoes a one-sided delete in a single conditional update: the
// null slot is re-filled from the delete marker and the marker cleared.
// A record that is not soft-deleted is returned unchanged.
func (r *ConversationRepo) Revive(ctx context.Context, conID string) (*models.Conversation, error) {
	filter := bson.M{"_id": conID, "user_delete": bson.M{"$ne": nil}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"user_id1":    bson.M{"$ifNull": bson.A{"$user_id1", "$user_delete"}},
			"user_id2":    bson.M{"$ifNull": bson.A{"$user_id2", "$user_delete"}},
			"user_delete": nil,
			"updated_at":  "$$NOW",
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Conversation
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// nothing to revive
		return r.Get(ctx, conID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Leave nulls the subject's slot and records the subject as the deleter,
// as one conditional update so two near-simultaneous deletes cannot lose
// each other's writes. Returns the post-update record.
func (r *ConversationRepo) Leave(ctx context.Context, conID, subject string) (*models.Conversation, error) {
	filter := bson.M{"_id": conID, "$or": bson.A{
		bson.M{"user_id1": subject},
		bson.M{"user_id2": subject},
	}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"user_id1":    bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$user_id1", subject}}, nil, "$user_id1"}},
			"user_id2":    bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$user_id2", subject}}, nil, "$user_id2"}},
			"user_delete": subject,
			"updated_at":  "$$NOW",
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Conversation
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, gerr := r.Get(ctx, conID); gerr != nil {
			return nil, gerr
		}
		return nil, errs.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteIfEmpty removes the record only when both slots are null, so a
// concurrent revive wins over a stale cascade.
func (r *ConversationRepo) DeleteIfEmpty(ctx context.Context, conID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": conID, "user_id1": nil, "user_id2": nil})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Touch bumps updated_at so the conversation sorts to the top of the
// recency listing.
func (r *ConversationRepo) Touch(ctx context.Context, conID string, at time.Time) error {
	_, err := r.coll.UpdateByID(ctx, conID, bson.M{"$set": bson.M{"updated_at": at}})
	return err
}

// ListWithLatest returns every conversation where subject occupies a
// slot, joined with the single most recent message for preview, newest
// activity first.
func (r *ConversationRepo) ListWithLatest(ctx context.Context, subject string) ([]models.ConversationPreview, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"user_id1": subject},
			bson.M{"user_id2": subject},
		}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collMessages,
			"let":  bson.M{"cid": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$con_id", "$$cid"}}}},
				bson.M{"$sort": bson.M{"created_at": -1}},
				bson.M{"$limit": 1},
			},
			"as": "latest_message",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"latest_message": bson.M{"$arrayElemAt": bson.A{"$latest_message", 0}},
		}}},
		{{Key: "$sort", Value: bson.M{"updated_at": -1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ConversationPreview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
