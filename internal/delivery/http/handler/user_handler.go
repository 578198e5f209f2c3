package handler

import (
	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type profileRequest struct {
	CurrentRole     *string  `json:"currentRole"`
	TargetRole      *string  `json:"targetRole"`
	ExperienceYears *int     `json:"experienceYears"`
	LearningGoals   []string `json:"learningGoals"`
	PreferredStyle  *string  `json:"preferredStyle"`
	WeeklyHours     *int     `json:"weeklyHours"`
	Timeframe       *string  `json:"timeframe"`
	Industry        *string  `json:"industry"`
}

func (r profileRequest) input() usecase.ProfileInput {
	return usecase.ProfileInput{
		CurrentRole:     r.CurrentRole,
		TargetRole:      r.TargetRole,
		ExperienceYears: r.ExperienceYears,
		LearningGoals:   r.LearningGoals,
		PreferredStyle:  r.PreferredStyle,
		WeeklyHours:     r.WeeklyHours,
		Timeframe:       r.Timeframe,
		Industry:        r.Industry,
	}
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me/profile", h.UpdateProfile)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	me, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewMeResponse(me))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req profileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	p, err := h.uc.UpdateProfile(c.Context(), userID, req.input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusOK, "Profile updated", dto.NewProfileResponse(p))
}
