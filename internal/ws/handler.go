package ws

import (
	"net/http"

	"skillbridge/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// UserResolver extracts the authenticated user from the request context.
type UserResolver func(c fiber.Ctx) (uuid.UUID, bool)

type Handler struct {
	hub     *Hub
	log     *logger.Logger
	resolve UserResolver
}

func NewHandler(hub *Hub, resolve UserResolver, log *logger.Logger) *Handler {
	return &Handler{hub: hub, resolve: resolve, log: log}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) Handle(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	userID, ok := h.resolve(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	return adaptor.HTTPHandlerFunc(h.serve(userID))(c)
}

func (h *Handler) serve(userID uuid.UUID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("ws upgrade failed", "user_id", userID, "error", err)
			return
		}

		client := NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}
}
