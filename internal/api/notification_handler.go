package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hoangnqjl/MaroMart/internal/notify"
)

func (s *Server) listNotifications(c *fiber.Ctx) error {
	notifs, err := s.notifier.List(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifs})
}

func (s *Server) markNotificationRead(c *fiber.Ctx) error {
	n, err := s.notifier.MarkRead(c.Context(), c.Params("id"), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"notification": n})
}

func (s *Server) deleteNotification(c *fiber.Ctx) error {
	if err := s.notifier.Remove(c.Context(), c.Params("id"), callerID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

type adminNotifyReq struct {
	Type   string            `json:"type"`
	UserID string            `json:"user_id"`
	Data   map[string]string `json:"data"`
}

// adminNotify drives product moderation outcomes (refusal, successful
// upload) into the dispatcher. A bad type is a hard 400, never dropped.
func (s *Server) adminNotify(c *fiber.Ctx) error {
	var req adminNotifyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id required"})
	}

	payload, err := notify.ParsePayload(req.Type, req.Data)
	if err != nil {
		return fail(c, err)
	}
	n, err := s.notifier.Dispatch(c.Context(), req.UserID, payload)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"notification": n})
}
