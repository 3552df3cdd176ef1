package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoangnqjl/MaroMart/internal/models"
)

type fakeStore struct {
	inserted  []*models.Notification
	insertErr error
}

func (f *fakeStore) Insert(_ context.Context, n *models.Notification) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, n)
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string, _ int64) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(f.inserted) - 1; i >= 0; i-- {
		if f.inserted[i].UserID == userID {
			out = append(out, *f.inserted[i])
		}
	}
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id, userID string) (*models.Notification, error) {
	for _, n := range f.inserted {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return n, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeStore) Delete(_ context.Context, id, userID string) error {
	for i, n := range f.inserted {
		if n.ID == id && n.UserID == userID {
			f.inserted = append(f.inserted[:i], f.inserted[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type fakePusher struct {
	pushes []string // "subject/event"
	online map[string]bool
}

func (f *fakePusher) PushToSubject(subject, event string, _ any) bool {
	f.pushes = append(f.pushes, subject+"/"+event)
	return f.online[subject]
}

func TestDispatchStoresThenPushes(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{online: map[string]bool{"bob": true}}
	d := NewDispatcher(store, pusher, zap.NewNop().Sugar())

	n, err := d.Dispatch(context.Background(), "bob", NewMessage{
		SenderID: "alice", SenderName: "Alice", ConversationID: "con_1",
	})
	require.NoError(t, err)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "bob", n.UserID)
	assert.Equal(t, "new_message", n.Type)
	assert.Equal(t, "/chat/con_1", n.RelatedURL)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)

	assert.Equal(t, []string{"bob/new_notification"}, pusher.pushes)
}

func TestDispatchSucceedsWhenTargetOffline(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{online: map[string]bool{}}
	d := NewDispatcher(store, pusher, zap.NewNop().Sugar())

	n, err := d.Dispatch(context.Background(), "eve", ProductRefusal{
		ProductName: "Lamp", Reason: "prohibited",
	})
	require.NoError(t, err, "an offline target never fails the dispatch")
	require.Len(t, store.inserted, 1)

	// the durable copy is retrievable regardless of delivery
	list, err := d.List(context.Background(), "eve")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
}

func TestDispatchFailsOnStoreError(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	pusher := &fakePusher{}
	d := NewDispatcher(store, pusher, zap.NewNop().Sugar())

	_, err := d.Dispatch(context.Background(), "bob", SuccessfulUpload{
		ProductName: "Lamp", ProductID: "p1",
	})
	assert.Error(t, err)
	assert.Empty(t, pusher.pushes, "no push without a durable copy")
}

func TestDispatchValidatesPayload(t *testing.T) {
	d := NewDispatcher(&fakeStore{}, &fakePusher{}, zap.NewNop().Sugar())

	_, err := d.Dispatch(context.Background(), "bob", NewMessage{SenderID: "a"})
	assert.Error(t, err)
}

func TestMarkReadAndRemove(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, &fakePusher{}, zap.NewNop().Sugar())

	n, err := d.Dispatch(context.Background(), "bob", SuccessfulUpload{
		ProductName: "Lamp", ProductID: "p1",
	})
	require.NoError(t, err)

	read, err := d.MarkRead(context.Background(), n.ID, "bob")
	require.NoError(t, err)
	assert.True(t, read.Read)

	require.NoError(t, d.Remove(context.Background(), n.ID, "bob"))
	list, _ := d.List(context.Background(), "bob")
	assert.Empty(t, list)
}
