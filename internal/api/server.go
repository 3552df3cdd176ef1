// Package api exposes the REST surface and mounts the websocket
// upgrade. Authentication on the realtime channel itself happens over
// the socket (register event), so /ws sits outside the JWT middleware.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hoangnqjl/MaroMart/internal/auth"
	"github.com/hoangnqjl/MaroMart/internal/config"
	"github.com/hoangnqjl/MaroMart/internal/notify"
	"github.com/hoangnqjl/MaroMart/internal/service"
	"github.com/hoangnqjl/MaroMart/internal/storage"
	gateway "github.com/hoangnqjl/MaroMart/internal/ws"
)

type Server struct {
	chat     *service.ChatService
	notifier *notify.Dispatcher
	media    storage.Store // nil when not configured
}

// New assembles the fiber app with all routes and middleware.
func New(
	cfg *config.Config,
	verifier auth.Verifier,
	chat *service.ChatService,
	notifier *notify.Dispatcher,
	gw *gateway.Gateway,
	media storage.Store,
	rdb *redis.Client,
	log *zap.SugaredLogger,
) *fiber.App {
	s := &Server{chat: chat, notifier: notifier, media: media}

	app := fiber.New(fiber.Config{
		BodyLimit: maxMediaBytes + 1<<20,
	})
	app.Use(Recovery(log))
	app.Use(RequestLogger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", gw.Handler())

	limiter := NewRateLimiter(rdb, "chat:send", cfg.RateLimit.Limit, cfg.RateLimitWindow)

	v1 := app.Group("/api/v1", JWTAuth(verifier))
	v1.Get("/conversations", s.listConversations)
	v1.Get("/conversations/:con_id/messages", s.listMessages)
	v1.Post("/messages", limiter.Middleware(callerID), s.sendMessage)
	v1.Delete("/conversations/:con_id", s.deleteConversation)

	v1.Get("/notifications", s.listNotifications)
	v1.Patch("/notifications/:id/read", s.markNotificationRead)
	v1.Delete("/notifications/:id", s.deleteNotification)
	v1.Post("/admin/notifications", RequireRole("admin"), s.adminNotify)

	v1.Post("/media", s.uploadMedia)

	return app
}
