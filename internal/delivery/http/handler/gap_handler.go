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

type GapHandler struct {
	uc usecase.GapAnalysisUsecase
}

type explicitTargetRequest struct {
	SkillID       uuid.UUID `json:"skill_id"`
	TargetMastery int       `json:"target_mastery"`
}

type gapTargetsRequest struct {
	Targets []explicitTargetRequest `json:"targets"`
}

func NewGapHandler(uc usecase.GapAnalysisUsecase) *GapHandler {
	return &GapHandler{uc: uc}
}

func (h *GapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/gap-analysis", h.AnalyzeForRole)
	r.Post("/gap-analysis", h.AnalyzeForTargets)
}

// AnalyzeForRole runs gap analysis against the role named by the role_id
// query parameter, falling back to the stored target role when absent.
func (h *GapHandler) AnalyzeForRole(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	roleID := uuid.Nil
	if raw := c.Query("role_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid role id", nil, err)
		}
		roleID = parsed
	}

	res, err := h.uc.AnalyzeForRole(c.Context(), userID, roleID)
	if err != nil {
		return mapGapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewGapAnalysisResponse(res))
}

func (h *GapHandler) AnalyzeForTargets(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req gapTargetsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	targets := make([]usecase.ExplicitTarget, 0, len(req.Targets))
	for _, t := range req.Targets {
		targets = append(targets, usecase.ExplicitTarget{
			SkillID:       t.SkillID,
			TargetMastery: t.TargetMastery,
		})
	}

	res, err := h.uc.AnalyzeForTargets(c.Context(), userID, targets)
	if err != nil {
		return mapGapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewGapAnalysisResponse(res))
}

func mapGapError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNoTargetRole):
		return middleware.NewAppError(fiber.StatusNotFound, "No target role set", nil, err)
	case errors.Is(err, usecase.ErrRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrNoTargetsGiven), errors.Is(err, usecase.ErrInvalidTargetSet):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid target skill set", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
