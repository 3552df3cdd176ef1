// Package ws is the realtime gateway: it authenticates inbound
// connections, binds them into the presence registry and pushes typed
// events to specific subjects. Delivery is best-effort; durable storage
// is always the caller's job.
package ws

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/hoangnqjl/MaroMart/internal/auth"
	"github.com/hoangnqjl/MaroMart/internal/presence"
)

// Wire events.
const (
	EventRegister        = "register"
	EventLogout          = "logout"
	EventRegisterSuccess = "register_success"
	EventRegisterFail    = "register_fail"
	EventForceDisconnect = "force_disconnect"
	EventNewMessage      = "new_message"
	EventNewNotification = "new_notification"
)

// Envelope is the wire format for both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type registerPayload struct {
	Token string `json:"token"`
}

type successPayload struct {
	UserID string `json:"user_id"`
}

type failPayload struct {
	Message string `json:"message"`
}

func encodeEvent(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: event, Payload: raw})
}

type Gateway struct {
	registry *presence.Registry
	verifier auth.Verifier
	log      *zap.SugaredLogger
}

func NewGateway(registry *presence.Registry, verifier auth.Verifier, log *zap.SugaredLogger) *Gateway {
	return &Gateway{registry: registry, verifier: verifier, log: log}
}

// Handler returns the fiber route handler performing the websocket
// upgrade.
func (g *Gateway) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		g.serve(conn)
	})
}

func (g *Gateway) serve(conn wsConn) {
	client := newClient(conn)
	go client.writePump()

	defer func() {
		// the handle-match guard keeps a reconnect that already replaced
		// this entry intact
		g.registry.RemoveHandle(client)
		client.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if stop := g.dispatch(client, raw); stop {
			return
		}
	}
}

// dispatch handles one inbound envelope. It reports true when the
// connection should close.
func (g *Gateway) dispatch(c *Client, raw []byte) bool {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}

	switch env.Type {
	case EventRegister:
		g.register(c, env.Payload)
		return false
	case EventLogout:
		g.registry.RemoveHandle(c)
		c.setSubject("")
		return true
	default:
		return false
	}
}

func (g *Gateway) register(c *Client, payload json.RawMessage) {
	var p registerPayload
	_ = json.Unmarshal(payload, &p)
	if p.Token == "" {
		g.emit(c, EventRegisterFail, failPayload{Message: "missing credential"})
		return
	}

	id, err := g.verifier.Verify(p.Token)
	if err != nil {
		// failure is reported, not fatal: the socket stays open anonymous
		g.emit(c, EventRegisterFail, failPayload{Message: "credential rejected"})
		return
	}

	if prev := c.Subject(); prev != "" && prev != id.Subject {
		// same socket re-registering as someone else drops the old binding
		g.registry.RemoveHandle(c)
	}
	c.setSubject(id.Subject)
	g.registry.Register(id.Subject, c)
	g.log.Infow("subject registered", "subject", id.Subject)
	g.emit(c, EventRegisterSuccess, successPayload{UserID: id.Subject})
}

func (g *Gateway) emit(c *Client, event string, payload any) {
	b, err := encodeEvent(event, payload)
	if err != nil {
		g.log.Errorw("encode event", "event", event, "err", err)
		return
	}
	c.Deliver(b)
}

// PushToSubject delivers one event to the subject's live connection.
// An absent or unreachable subject is a silent no-op; the gateway never
// queues for later.
func (g *Gateway) PushToSubject(subject, event string, payload any) bool {
	h, ok := g.registry.Lookup(subject)
	if !ok {
		return false
	}
	b, err := encodeEvent(event, payload)
	if err != nil {
		g.log.Errorw("encode event", "event", event, "err", err)
		return false
	}
	return h.Deliver(b)
}

// Online exposes the presence snapshot.
func (g *Gateway) Online() []string {
	return g.registry.Online()
}
