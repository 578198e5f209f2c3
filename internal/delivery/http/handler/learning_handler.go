package handler

import (
	"strconv"
	"strings"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type LearningHandler struct {
	paths    usecase.LearningPathUsecase
	progress usecase.ProgressUsecase
}

type pathSkillRequest struct {
	SkillID     uuid.UUID `json:"skillId"`
	TargetLevel string    `json:"targetLevel"`
}

type resourceRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

type pathRequest struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	Difficulty     *string            `json:"difficulty"`
	EstimatedHours *int               `json:"estimatedHours"`
	IsActive       *bool              `json:"isActive"`
	Skills         []pathSkillRequest `json:"skills"`
	Resources      []resourceRequest  `json:"resources"`
}

func (r pathRequest) input() usecase.PathInput {
	in := usecase.PathInput{
		Title:          r.Title,
		Description:    r.Description,
		Difficulty:     r.Difficulty,
		EstimatedHours: r.EstimatedHours,
		IsActive:       r.IsActive,
	}
	if r.Skills != nil {
		in.Skills = make([]usecase.PathSkillInput, 0, len(r.Skills))
		for _, s := range r.Skills {
			in.Skills = append(in.Skills, usecase.PathSkillInput{SkillID: s.SkillID, TargetLevel: s.TargetLevel})
		}
	}
	if r.Resources != nil {
		in.Resources = make([]usecase.ResourceInput, 0, len(r.Resources))
		for _, res := range r.Resources {
			in.Resources = append(in.Resources, usecase.ResourceInput{
				Title:           res.Title,
				URL:             res.URL,
				Type:            res.Type,
				DurationMinutes: res.Duration,
			})
		}
	}
	return in
}

type progressRequest struct {
	PathID      *uuid.UUID `json:"pathId"`
	SkillID     *uuid.UUID `json:"skillId"`
	Completion  *int       `json:"completion"`
	TimeSpent   int        `json:"timeSpent"`
	Notes       string     `json:"notes"`
	Proficiency *int       `json:"proficiency"`
}

func NewLearningHandler(paths usecase.LearningPathUsecase, progress usecase.ProgressUsecase) *LearningHandler {
	return &LearningHandler{paths: paths, progress: progress}
}

func (h *LearningHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	paths := r.Group("/paths")
	paths.Get("/", h.ListPaths)
	paths.Post("/", h.CreatePath)
	paths.Get("/:id", h.GetPath)
	paths.Put("/:id", h.UpdatePath)
	paths.Delete("/:id", h.DeletePath)

	progress := r.Group("/progress")
	progress.Get("/", h.ListProgress)
	progress.Post("/", h.AppendProgress)
}

func (h *LearningHandler) ListPaths(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	items, err := h.paths.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewPathResponses(items))
}

func (h *LearningHandler) GetPath(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest("Invalid path id", err)
	}

	p, err := h.paths.Get(c.Context(), userID, pathID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewPathResponse(p))
}

func (h *LearningHandler) CreatePath(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req pathRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	p, err := h.paths.Create(c.Context(), userID, req.input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusCreated, "Learning path created", dto.NewPathResponse(p))
}

func (h *LearningHandler) UpdatePath(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest("Invalid path id", err)
	}

	var req pathRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	p, err := h.paths.Update(c.Context(), userID, pathID, req.input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusOK, "Learning path updated", dto.NewPathResponse(p))
}

func (h *LearningHandler) DeletePath(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest("Invalid path id", err)
	}

	if err := h.paths.Delete(c.Context(), userID, pathID); err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusOK, "Learning path deleted", nil)
}

func (h *LearningHandler) ListProgress(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var pathID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("pathId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("Invalid path id", err)
		}
		pathID = &id
	}

	var limit int
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return badRequest("limit must be a positive integer", err)
		}
		limit = n
	}

	hist, err := h.progress.List(c.Context(), userID, pathID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewProgressHistoryResponse(hist))
}

func (h *LearningHandler) AppendProgress(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req progressRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	if req.Completion == nil {
		return badRequest("completion is required", nil)
	}

	res, err := h.progress.Append(c.Context(), userID, usecase.ProgressInput{
		PathID:           req.PathID,
		SkillID:          req.SkillID,
		Completion:       *req.Completion,
		TimeSpentMinutes: req.TimeSpent,
		Notes:            req.Notes,
		Proficiency:      req.Proficiency,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessMessage(c, fiber.StatusCreated, "Progress recorded", dto.NewProgressEntryResponse(res))
}
