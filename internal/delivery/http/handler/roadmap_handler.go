package handler

import (
	"errors"
	"strings"

	"skill-twin/internal/delivery/http/dto"
	"skill-twin/internal/delivery/http/middleware"
	"skill-twin/internal/domain/roadmap"
	"skill-twin/internal/pkg/response"
	"skill-twin/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RoadmapHandler struct {
	uc usecase.RoadmapUsecase
}

type createResourceRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type createModuleRequest struct {
	Title          string                  `json:"title"`
	TargetSkillIDs []uuid.UUID             `json:"target_skill_ids"`
	Resources      []createResourceRequest `json:"resources"`
}

type createRoadmapRequest struct {
	Title    string                `json:"title"`
	Activate bool                  `json:"activate"`
	Modules  []createModuleRequest `json:"modules"`
}

type updateProgressRequest struct {
	Progress int `json:"progress"`
}

func NewRoadmapHandler(uc usecase.RoadmapUsecase) *RoadmapHandler {
	return &RoadmapHandler{uc: uc}
}

func (h *RoadmapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/roadmaps", h.List)
	r.Post("/roadmaps", h.Create)
	r.Get("/roadmaps/:roadmapID", h.Get)
	r.Delete("/roadmaps/:roadmapID", h.Delete)
	r.Get("/roadmaps/:roadmapID/next-resource", h.NextResource)
	r.Patch("/resources/:resourceID/progress", h.UpdateProgress)
}

func (h *RoadmapHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createRoadmapRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in := usecase.CreateRoadmapInput{
		Title:    strings.TrimSpace(req.Title),
		Activate: req.Activate,
	}
	for _, m := range req.Modules {
		module := usecase.GeneratedModule{
			Title:          strings.TrimSpace(m.Title),
			TargetSkillIDs: m.TargetSkillIDs,
		}
		for _, res := range m.Resources {
			module.Resources = append(module.Resources, usecase.GeneratedResource{
				Title: strings.TrimSpace(res.Title),
				Type:  roadmap.ResourceType(res.Type),
				URL:   strings.TrimSpace(res.URL),
			})
		}
		in.Modules = append(in.Modules, module)
	}

	rm, err := h.uc.CreateRoadmap(c.Context(), userID, in)
	if err != nil {
		return mapRoadmapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewRoadmapResponse(rm))
}

func (h *RoadmapHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	activeOnly := strings.EqualFold(c.Query("active_only"), "true")
	items, err := h.uc.ListRoadmaps(c.Context(), userID, activeOnly)
	if err != nil {
		return mapRoadmapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoadmapListResponse(items))
}

func (h *RoadmapHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	roadmapID, err := uuid.Parse(c.Params("roadmapID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid roadmap id", nil, err)
	}

	rm, err := h.uc.GetRoadmap(c.Context(), userID, roadmapID)
	if err != nil {
		return mapRoadmapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoadmapResponse(rm))
}

func (h *RoadmapHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	roadmapID, err := uuid.Parse(c.Params("roadmapID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid roadmap id", nil, err)
	}

	if err := h.uc.DeleteRoadmap(c.Context(), userID, roadmapID); err != nil {
		return mapRoadmapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *RoadmapHandler) NextResource(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	roadmapID, err := uuid.Parse(c.Params("roadmapID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid roadmap id", nil, err)
	}

	next, err := h.uc.GetNextResource(c.Context(), userID, roadmapID)
	if err != nil {
		return mapRoadmapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewNextResourceResponse(next))
}

func (h *RoadmapHandler) UpdateProgress(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	resourceID, err := uuid.Parse(c.Params("resourceID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid resource id", nil, err)
	}

	var req updateProgressRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := h.uc.UpdateResourceProgress(c.Context(), userID, resourceID, req.Progress)
	if err != nil {
		return mapRoadmapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProgressUpdateResponse(res))
}

func mapRoadmapError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrRoadmapNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Roadmap not found", nil, err)
	case errors.Is(err, usecase.ErrResourceNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resource not found", nil, err)
	case errors.Is(err, usecase.ErrModuleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Module not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrRegressiveProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Progress cannot decrease", nil, err)
	case errors.Is(err, usecase.ErrInvalidProgress):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Progress must be between 0 and 100", nil, err)
	case errors.Is(err, usecase.ErrEmptyRoadmap):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Roadmap has no modules", nil, err)
	case errors.Is(err, usecase.ErrRoadmapComplete):
		return middleware.NewAppError(fiber.StatusConflict, "Roadmap already complete", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
