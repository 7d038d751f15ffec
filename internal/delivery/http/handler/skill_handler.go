package handler

import (
	"errors"

	"skill-twin/internal/delivery/http/dto"
	"skill-twin/internal/delivery/http/middleware"
	"skill-twin/internal/pkg/response"
	"skill-twin/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillHandler struct {
	uc usecase.CatalogUsecase
}

type createSkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func NewSkillHandler(uc usecase.CatalogUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.ListCatalog)
	r.Post("/skills", h.Create)
	r.Get("/skills/:skillID/relationships", h.Relationships)
}

// ListCatalog returns every skill alongside the typed relationships
// between them.
func (h *SkillHandler) ListCatalog(c fiber.Ctx) error {
	skills, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return mapCatalogError(err)
	}
	rels, err := h.uc.ListRelationships(c.Context())
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillCatalogResponse(skills, rels))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	s, err := h.uc.CreateSkill(c.Context(), req.Name, req.Category)
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewSkillResponse(s))
}

func (h *SkillHandler) Relationships(c fiber.Ctx) error {
	skillID, err := uuid.Parse(c.Params("skillID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill id", nil, err)
	}

	rels, err := h.uc.GetSkillRelationships(c.Context(), skillID)
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRelationshipListResponse(rels))
}

func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrSkillAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
