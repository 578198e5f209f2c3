package handler

import (
	"strconv"
	"strings"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

type regenerateRequest struct {
	profileRequest
	Count *int `json:"count"`
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Get)
	r.Post("/", h.Regenerate)
}

func (h *RecommendationHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	params, err := parseRecommendationQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.Get(c.Context(), userID, params)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewRecommendationsResponse(res))
}

// Regenerate saves the posted preferences and returns a fresh set.
func (h *RecommendationHandler) Regenerate(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req regenerateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	count := 0
	if req.Count != nil {
		if *req.Count <= 0 {
			return badRequest("count must be a positive integer", nil)
		}
		count = *req.Count
	}

	res, err := h.uc.UpdatePreferencesAndRegenerate(c.Context(), userID, req.input(), count)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusOK, "Recommendations regenerated", dto.NewRecommendationsResponse(res))
}

func parseRecommendationQuery(c fiber.Ctx) (usecase.RecommendationParams, error) {
	var p usecase.RecommendationParams

	if raw := strings.TrimSpace(c.Query("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return p, badRequest("count must be a positive integer", err)
		}
		p.Count = n
	}

	if raw := strings.TrimSpace(c.Query("includeMarketData")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return p, badRequest("includeMarketData must be true or false", err)
		}
		p.IncludeMarketData = b
	}

	p.Timeframe = strings.TrimSpace(c.Query("timeframe"))
	return p, nil
}
