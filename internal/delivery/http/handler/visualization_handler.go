package handler

import (
	"errors"
	"strings"

	"skill-twin/internal/delivery/http/middleware"
	"skill-twin/internal/pkg/response"
	"skill-twin/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type VisualizationHandler struct {
	uc usecase.VisualizationUsecase
}

func NewVisualizationHandler(uc usecase.VisualizationUsecase) *VisualizationHandler {
	return &VisualizationHandler{uc: uc}
}

func (h *VisualizationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/visualization", h.GetVisualization)
	r.Get("/summary", h.GetSummary)
}

func (h *VisualizationHandler) GetVisualization(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	heldOnly := strings.EqualFold(c.Query("held_only"), "true")
	res, err := h.uc.GetVisualization(c.Context(), userID, heldOnly)
	if err != nil {
		return mapVisualizationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *VisualizationHandler) GetSummary(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.uc.GetTwinSummary(c.Context(), userID)
	if err != nil {
		return mapVisualizationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func mapVisualizationError(err error) error {
	if errors.Is(err, usecase.ErrUnauthorized) {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
