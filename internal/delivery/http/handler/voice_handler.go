package handler

import (
	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type VoiceHandler struct {
	uc usecase.VoiceUsecase
}

type voiceSettingsRequest struct {
	Stability       *float64 `json:"stability"`
	SimilarityBoost *float64 `json:"similarityBoost"`
}

type voiceRequest struct {
	Text          string               `json:"text"`
	VoiceID       string               `json:"voiceId"`
	VoiceSettings voiceSettingsRequest `json:"voiceSettings"`
}

func NewVoiceHandler(uc usecase.VoiceUsecase) *VoiceHandler {
	return &VoiceHandler{uc: uc}
}

func (h *VoiceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.ListVoices)
	r.Post("/", h.Synthesize)
}

func (h *VoiceHandler) ListVoices(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, dto.NewVoiceListResponse(h.uc.ListVoices()))
}

func (h *VoiceHandler) Synthesize(c fiber.Ctx) error {
	var req voiceRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	out, err := h.uc.Synthesize(c.Context(), usecase.VoiceInput{
		Text:            req.Text,
		VoiceID:         req.VoiceID,
		Stability:       req.VoiceSettings.Stability,
		SimilarityBoost: req.VoiceSettings.SimilarityBoost,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewVoiceResponse(out))
}
