package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hoangnqjl/MaroMart/internal/models"
)

type sendMessageReq struct {
	ReceiverID string                   `json:"receiver_id"`
	Content    string                   `json:"content"`
	Media      []models.MediaAttachment `json:"media"`
}

func (s *Server) sendMessage(c *fiber.Ctx) error {
	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.ReceiverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "receiver_id required"})
	}
	if req.Content == "" && len(req.Media) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty message"})
	}

	msg, err := s.chat.SendMessage(c.Context(), callerID(c), req.ReceiverID, req.Content, req.Media)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"new_message": msg})
}

func (s *Server) listConversations(c *fiber.Ctx) error {
	convs, err := s.chat.ListConversations(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversations": convs})
}

func (s *Server) listMessages(c *fiber.Ctx) error {
	msgs, err := s.chat.ListMessages(c.Context(), c.Params("con_id"), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (s *Server) deleteConversation(c *fiber.Ctx) error {
	hardDeleted, err := s.chat.DeleteConversation(c.Context(), c.Params("con_id"), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	if hardDeleted {
		return c.JSON(fiber.Map{"status": "deleted"})
	}
	return c.JSON(fiber.Map{"status": "hidden"})
}
