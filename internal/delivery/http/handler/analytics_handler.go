package handler

import (
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AnalyticsHandler struct {
	uc usecase.AnalyticsUsecase
}

type exportRequest struct {
	Format string `json:"format"`
}

func NewAnalyticsHandler(uc usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/progress", h.Progress)
	r.Get("/market", h.Market)
	r.Get("/competitive", h.Competitive)
	r.Post("/export", h.Export)
}

func (h *AnalyticsHandler) Progress(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	snap, err := h.uc.Progress(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, snap)
}

func (h *AnalyticsHandler) Market(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	snap, err := h.uc.Market(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, snap)
}

func (h *AnalyticsHandler) Competitive(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	snap, err := h.uc.Competitive(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, snap)
}

// Export answers JSON in the usual envelope and CSV as a file download.
func (h *AnalyticsHandler) Export(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req exportRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest("Invalid request payload", err)
		}
	}
	format, err := usecase.ParseExportFormat(req.Format)
	if err != nil {
		return mapUsecaseError(err)
	}

	out, err := h.uc.Export(c.Context(), userID, format)
	if err != nil {
		return mapUsecaseError(err)
	}

	if out.Format == usecase.ExportCSV {
		c.Attachment(out.Filename)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Status(fiber.StatusOK).Send(out.Body)
	}
	return response.Success(c, fiber.StatusOK, out.Snapshot)
}
