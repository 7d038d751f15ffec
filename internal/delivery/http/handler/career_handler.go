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

type CareerHandler struct {
	alignments usecase.AlignmentUsecase
	catalog    usecase.CatalogUsecase
}

type setTargetRoleRequest struct {
	RoleID uuid.UUID `json:"role_id"`
}

func NewCareerHandler(alignments usecase.AlignmentUsecase, catalog usecase.CatalogUsecase) *CareerHandler {
	return &CareerHandler{alignments: alignments, catalog: catalog}
}

func (h *CareerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/careers", h.ListRoles)
	r.Get("/careers/:roleID/alignment", h.GetAlignment)
}

func (h *CareerHandler) RegisterMeRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/target-role", h.GetTargetRole)
	r.Put("/target-role", h.SetTargetRole)
	r.Get("/recommendations", h.GetRecommendations)
}

func (h *CareerHandler) ListRoles(c fiber.Ctx) error {
	roles, err := h.catalog.ListRoles(c.Context())
	if err != nil {
		return mapCareerError(err)
	}

	out := make([]dto.CareerRoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.NewCareerRoleResponse(r.Role, r.Requirements))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CareerHandler) GetAlignment(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	roleID, err := uuid.Parse(c.Params("roleID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid role id", nil, err)
	}

	res, err := h.alignments.GetAlignment(c.Context(), userID, roleID)
	if err != nil {
		return mapCareerError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAlignmentResponse(res))
}

func (h *CareerHandler) GetRecommendations(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.alignments.GetRecommendations(c.Context(), userID)
	if err != nil {
		return mapCareerError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAlignmentListResponse(items))
}

func (h *CareerHandler) GetTargetRole(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	role, err := h.alignments.GetTargetRole(c.Context(), userID)
	if err != nil {
		return mapCareerError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCareerRoleResponse(role, nil))
}

func (h *CareerHandler) SetTargetRole(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req setTargetRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.alignments.SetTargetRole(c.Context(), userID, req.RoleID); err != nil {
		return mapCareerError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapCareerError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role not found", nil, err)
	case errors.Is(err, usecase.ErrNoTargetRole):
		return middleware.NewAppError(fiber.StatusNotFound, "No target role set", nil, err)
	case errors.Is(err, usecase.ErrEmptyRoleRequirements):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Role has no skill requirements", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
