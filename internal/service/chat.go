// Package service holds the conversation/message core: find-or-create
// over unordered pairs, append with live fan-out, soft delete with
// cascade.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoangnqjl/MaroMart/internal/directory"
	"github.com/hoangnqjl/MaroMart/internal/errs"
	"github.com/hoangnqjl/MaroMart/internal/models"
	"github.com/hoangnqjl/MaroMart/internal/notify"
	"github.com/hoangnqjl/MaroMart/internal/ws"
)

// ConversationStore is the persistence surface for conversations. The
// Mongo implementation lives in internal/repository.
type ConversationStore interface {
	Get(ctx context.Context, conID string) (*models.Conversation, error)
	FindByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error)
	Insert(ctx context.Context, c *models.Conversation) error
	Revive(ctx context.Context, conID string) (*models.Conversation, error)
	Leave(ctx context.Context, conID, subject string) (*models.Conversation, error)
	DeleteIfEmpty(ctx context.Context, conID string) (bool, error)
	Touch(ctx context.Context, conID string, at time.Time) error
	ListWithLatest(ctx context.Context, subject string) ([]models.ConversationPreview, error)
}

// MessageStore is the persistence surface for messages.
type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) error
	ListByConversation(ctx context.Context, conID string) ([]models.Message, error)
	DeleteAllForConversation(ctx context.Context, conID string) error
}

// Notifier persists and fans out a notification.
type Notifier interface {
	Dispatch(ctx context.Context, target string, p notify.Payload) (*models.Notification, error)
}

// Pusher delivers a live event to a subject, if reachable.
type Pusher interface {
	PushToSubject(subject, event string, payload any) bool
}

// EventPublisher emits domain events for downstream consumers.
type EventPublisher interface {
	MessageSent(ctx context.Context, m *models.Message) error
}

type ChatService struct {
	convs    ConversationStore
	msgs     MessageStore
	notifier Notifier
	pusher   Pusher
	events   EventPublisher // optional
	names    directory.Directory
	log      *zap.SugaredLogger
}

func NewChatService(
	convs ConversationStore,
	msgs MessageStore,
	notifier Notifier,
	pusher Pusher,
	events EventPublisher,
	names directory.Directory,
	log *zap.SugaredLogger,
) *ChatService {
	return &ChatService{
		convs:    convs,
		msgs:     msgs,
		notifier: notifier,
		pusher:   pusher,
		events:   events,
		names:    names,
		log:      log,
	}
}

func newConversationID() string {
	return fmt.Sprintf("con_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// FindOrCreate resolves the conversation for an unordered pair,
// creating it when absent and reviving it when one side had left.
// FindOrCreate(a, b) and FindOrCreate(b, a) always converge on the same
// record.
func (s *ChatService) FindOrCreate(ctx context.Context, a, b string) (*models.Conversation, error) {
	if a == b {
		return nil, errs.ErrInvalidPair
	}
	key := models.PairKey(a, b)

	c, err := s.convs.FindByPairKey(ctx, key)
	if errors.Is(err, errs.ErrNotFound) {
		now := time.Now().UTC()
		fresh := &models.Conversation{
			ID:        newConversationID(),
			PairKey:   key,
			UserID1:   &a,
			UserID2:   &b,
			CreatedAt: now,
			UpdatedAt: now,
		}
		switch err := s.convs.Insert(ctx, fresh); {
		case err == nil:
			return fresh, nil
		case errors.Is(err, errs.ErrDuplicatePair):
			// lost the race; the winner's record is ours too
			c, err = s.convs.FindByPairKey(ctx, key)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if c.UserDelete != nil {
		return s.convs.Revive(ctx, c.ID)
	}
	return c, nil
}

// SendMessage is the whole send path: resolve conversation, persist the
// message, notify the receiver durably, then fan the message out to
// both parties' live connections. Only persistence failures fail the
// call.
func (s *ChatService) SendMessage(ctx context.Context, sender, receiver, content string, media []models.MediaAttachment) (*models.Message, error) {
	for _, m := range media {
		if !models.ValidMediaType(m.Type) {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidMedia, m.Type)
		}
	}

	conv, err := s.FindOrCreate(ctx, sender, receiver)
	if err != nil {
		return nil, err
	}

	// the live peer may differ from the requested receiver when the
	// conversation was just revived
	realReceiver := receiver
	if peer, ok := conv.Peer(sender); ok {
		realReceiver = peer
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		ConID:     conv.ID,
		Sender:    sender,
		Receiver:  realReceiver,
		Content:   content,
		Media:     media,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.msgs.Insert(ctx, msg); err != nil {
		return nil, err
	}

	// recency ordering may lag if the touch fails; the message itself is
	// already durable
	if err := s.convs.Touch(ctx, conv.ID, msg.CreatedAt); err != nil {
		s.log.Warnw("conversation touch failed", "con_id", conv.ID, "err", err)
	}

	if _, err := s.notifier.Dispatch(ctx, realReceiver, notify.NewMessage{
		SenderID:       sender,
		SenderName:     s.names.NameOf(ctx, sender),
		ConversationID: conv.ID,
	}); err != nil {
		s.log.Errorw("notification dispatch failed", "con_id", conv.ID, "err", err)
	}

	// delivery confirmation to the sender, live delivery to the receiver
	payload := map[string]any{"new_message": msg}
	s.pusher.PushToSubject(sender, ws.EventNewMessage, payload)
	s.pusher.PushToSubject(realReceiver, ws.EventNewMessage, payload)

	if s.events != nil {
		if err := s.events.MessageSent(ctx, msg); err != nil {
			s.log.Warnw("message event publish failed", "message_id", msg.ID, "err", err)
		}
	}
	return msg, nil
}

// ListConversations returns the subject's conversations with latest-
// message previews.
func (s *ChatService) ListConversations(ctx context.Context, subject string) ([]models.ConversationPreview, error) {
	return s.convs.ListWithLatest(ctx, subject)
}

// ListMessages returns a conversation's messages in creation order.
// Only current participants may read.
func (s *ChatService) ListMessages(ctx context.Context, conID, requester string) ([]models.Message, error) {
	conv, err := s.convs.Get(ctx, conID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requester) {
		return nil, errs.ErrForbidden
	}
	return s.msgs.ListByConversation(ctx, conID)
}

// DeleteConversation is the soft-delete entry point. When the second
// side leaves too, the record and every message cascade away for good.
// The returned flag reports whether the hard delete happened.
func (s *ChatService) DeleteConversation(ctx context.Context, conID, subject string) (bool, error) {
	c, err := s.convs.Leave(ctx, conID, subject)
	if err != nil {
		return false, err
	}
	if c.UserID1 != nil || c.UserID2 != nil {
		return false, nil
	}

	deleted, err := s.convs.DeleteIfEmpty(ctx, conID)
	if err != nil {
		return false, err
	}
	if deleted {
		if err := s.msgs.DeleteAllForConversation(ctx, conID); err != nil {
			return true, err
		}
	}
	return deleted, nil
}
