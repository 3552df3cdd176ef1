package api

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxMediaBytes = 50 << 20

func mediaKind(contentType string) (string, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image", true
	case strings.HasPrefix(contentType, "video/"):
		return "video", true
	case strings.HasPrefix(contentType, "audio/"):
		return "audio", true
	}
	return "", false
}

// uploadMedia stores one multipart file and returns the URL the client
// references from POST /messages.
func (s *Server) uploadMedia(c *fiber.Ctx) error {
	if s.media == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "media storage not configured"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}
	if fh.Size == 0 || fh.Size > maxMediaBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file size not allowed"})
	}
	contentType := fh.Header.Get("Content-Type")
	kind, ok := mediaKind(contentType)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only image, video or audio accepted"})
	}

	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}

	key := fmt.Sprintf("conversation/%s/%s%s", callerID(c), uuid.NewString(), filepath.Ext(fh.Filename))
	url, err := s.media.Upload(c.Context(), key, contentType, data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url, "type": kind})
}
