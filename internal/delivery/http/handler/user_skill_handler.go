package handler

import (
	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserSkillHandler struct {
	uc usecase.UserSkillUsecase
}

type assessSkillRequest struct {
	SkillID         uuid.UUID `json:"skillId"`
	Proficiency     *int      `json:"proficiency"`
	TargetLevel     *string   `json:"targetLevel"`
	YearsExperience *int      `json:"yearsExperience"`
}

func NewUserSkillHandler(uc usecase.UserSkillUsecase) *UserSkillHandler {
	return &UserSkillHandler{uc: uc}
}

func (h *UserSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/skills")
	grp.Get("/", h.List)
	grp.Put("/", h.Assess)
	grp.Delete("/:skillId", h.Remove)
}

func (h *UserSkillHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewUserSkillResponses(items))
}

func (h *UserSkillHandler) Assess(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req assessSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	if req.Proficiency == nil {
		return badRequest("proficiency is required", nil)
	}

	saved, awarded, err := h.uc.Assess(c.Context(), userID, usecase.AssessSkillInput{
		SkillID:         req.SkillID,
		Proficiency:     *req.Proficiency,
		TargetLevel:     req.TargetLevel,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.AssessmentResponse{
		UserSkill:  dto.NewUserSkillResponse(saved),
		Milestones: dto.Milestones(awarded),
	})
}

func (h *UserSkillHandler) Remove(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	skillID, err := uuid.Parse(c.Params("skillId"))
	if err != nil {
		return badRequest("Invalid skill id", err)
	}

	if err := h.uc.Remove(c.Context(), userID, skillID); err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusOK, "Skill removed", nil)
}
