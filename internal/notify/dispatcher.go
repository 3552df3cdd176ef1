// Package notify builds typed notifications, persists them and pushes
// them to the target subject's live connection when one exists.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoangnqjl/MaroMart/internal/models"
)

// Store persists notifications.
type Store interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*models.Notification, error)
	Delete(ctx context.Context, id, userID string) error
}

// Pusher fans an event out to a subject's live connection, reporting
// whether anything was delivered.
type Pusher interface {
	PushToSubject(subject, event string, payload any) bool
}

const pushEvent = "new_notification"

type Dispatcher struct {
	store  Store
	pusher Pusher
	log    *zap.SugaredLogger
}

func NewDispatcher(store Store, pusher Pusher, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{store: store, pusher: pusher, log: log}
}

// Dispatch stores the notification, then attempts the live push. The
// push is best-effort: an absent target never fails the call, the row
// is already durable and reachable through the REST listing.
func (d *Dispatcher) Dispatch(ctx context.Context, target string, p Payload) (*models.Notification, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	title, body, relatedURL, relatedID := p.render()
	n := &models.Notification{
		ID:         uuid.NewString(),
		UserID:     target,
		Type:       string(p.Kind()),
		Title:      title,
		Body:       body,
		RelatedURL: relatedURL,
		RelatedID:  relatedID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.store.Insert(ctx, n); err != nil {
		return nil, err
	}

	if delivered := d.pusher.PushToSubject(target, pushEvent, map[string]any{"notification": n}); !delivered {
		d.log.Debugw("target offline, notification stored only",
			"target", target, "type", n.Type)
	}
	return n, nil
}

const listLimit = 50

// List returns the subject's latest notifications.
func (d *Dispatcher) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return d.store.ListByUser(ctx, userID, listLimit)
}

// MarkRead flips the read flag on a notification the subject owns.
func (d *Dispatcher) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	return d.store.MarkRead(ctx, id, userID)
}

// Remove deletes a notification the subject owns.
func (d *Dispatcher) Remove(ctx context.Context, id, userID string) error {
	return d.store.Delete(ctx, id, userID)
}
