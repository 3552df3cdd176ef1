package notify

import (
	"fmt"

	"github.com/hoangnqjl/MaroMart/internal/errs"
)

// Kind classifies a notification.
type Kind string

const (
	KindNewMessage       Kind = "new_message"
	KindProductRefusal   Kind = "product_refusal"
	KindSuccessfulUpload Kind = "successful_upload"
)

// Payload is the closed set of notification contents. Each variant
// carries exactly the fields its templates need and validates them at
// construction time.
type Payload interface {
	Kind() Kind
	Validate() error
	// render produces the title, body, deep link and related id for the
	// stored notification.
	render() (title, body, relatedURL, relatedID string)
}

// NewMessage notifies the receiver of a chat message, deep-linking to
// the conversation.
type NewMessage struct {
	SenderID       string
	SenderName     string
	ConversationID string
}

func (p NewMessage) Kind() Kind { return KindNewMessage }

func (p NewMessage) Validate() error {
	if p.SenderID == "" || p.SenderName == "" || p.ConversationID == "" {
		return fmt.Errorf("new_message payload incomplete")
	}
	return nil
}

func (p NewMessage) render() (string, string, string, string) {
	title := fmt.Sprintf("New message from %s", p.SenderName)
	body := fmt.Sprintf("%s sent you a message", p.SenderName)
	return title, body, "/chat/" + p.ConversationID, p.ConversationID
}

// ProductRefusal tells a seller their listing was rejected.
type ProductRefusal struct {
	ProductName string
	Reason      string
}

func (p ProductRefusal) Kind() Kind { return KindProductRefusal }

func (p ProductRefusal) Validate() error {
	if p.ProductName == "" || p.Reason == "" {
		return fmt.Errorf("product_refusal payload incomplete")
	}
	return nil
}

func (p ProductRefusal) render() (string, string, string, string) {
	title := "Product upload failed"
	body := fmt.Sprintf("Hi, your product %q was rejected because: %s. Please try again!", p.ProductName, p.Reason)
	return title, body, "", ""
}

// SuccessfulUpload confirms a listing went live, deep-linking to the
// product.
type SuccessfulUpload struct {
	ProductName string
	ProductID   string
}

func (p SuccessfulUpload) Kind() Kind { return KindSuccessfulUpload }

func (p SuccessfulUpload) Validate() error {
	if p.ProductName == "" || p.ProductID == "" {
		return fmt.Errorf("successful_upload payload incomplete")
	}
	return nil
}

func (p SuccessfulUpload) render() (string, string, string, string) {
	title := fmt.Sprintf("%s uploaded", p.ProductName)
	body := fmt.Sprintf("Hi, your product %q was uploaded", p.ProductName)
	return title, body, "/product/" + p.ProductID, p.ProductID
}

// ParsePayload builds a typed payload from an untyped (kind, fields)
// pair, the shape external callers send. Anything outside the supported
// kinds is ErrUnknownType: a malformed notification is a caller bug and
// must fail loudly.
func ParsePayload(kind string, fields map[string]string) (Payload, error) {
	var p Payload
	switch Kind(kind) {
	case KindNewMessage:
		p = NewMessage{
			SenderID:       fields["sender_id"],
			SenderName:     fields["sender_name"],
			ConversationID: fields["con_id"],
		}
	case KindProductRefusal:
		p = ProductRefusal{
			ProductName: fields["product_name"],
			Reason:      fields["reason"],
		}
	case KindSuccessfulUpload:
		p = SuccessfulUpload{
			ProductName: fields["product_name"],
			ProductID:   fields["product_id"],
		}
	default:
		return nil, errs.ErrUnknownType
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
