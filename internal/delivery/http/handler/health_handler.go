package handler

import (
	"context"
	"time"

	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports 503 when the database is down. A missing cache only
// degrades the status.
type HealthHandler struct {
	db    Pinger
	cache Pinger
	log   *logger.Logger
}

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Time     time.Time         `json:"timestamp"`
}

func NewHealthHandler(db, cache Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, log: log}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Status: "ok", Services: map[string]string{}, Time: time.Now().UTC()}

	if err := ping(ctx, h.db); err != nil {
		h.log.Error("health: database unreachable", "error", err)
		out.Status = "unavailable"
		out.Services["database"] = "down"
		return response.Error(c, fiber.StatusServiceUnavailable, "", "Database unavailable", out)
	}
	out.Services["database"] = "up"

	if err := ping(ctx, h.cache); err != nil {
		h.log.Warn("health: cache unreachable", "error", err)
		out.Status = "degraded"
		out.Services["cache"] = "down"
	} else {
		out.Services["cache"] = "up"
	}

	return response.Success(c, fiber.StatusOK, out)
}

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	return p.Ping(ctx)
}
