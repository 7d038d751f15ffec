package handler

import (
	"errors"
	"strings"

	"skill-twin/internal/delivery/http/dto"
	"skill-twin/internal/delivery/http/middleware"
	"skill-twin/internal/pkg/response"
	"skill-twin/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AssessmentHandler struct {
	uc usecase.AssessmentUsecase
}

type createQuestionRequest struct {
	SkillID       uuid.UUID `json:"skill_id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Points        float64   `json:"points"`
}

type createAssessmentRequest struct {
	Title        string                  `json:"title"`
	PassingScore int                     `json:"passing_score"`
	Questions    []createQuestionRequest `json:"questions"`
}

type submittedAnswerRequest struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
}

type submitAssessmentRequest struct {
	Answers []submittedAnswerRequest `json:"answers"`
}

func NewAssessmentHandler(uc usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/assessments", h.List)
	r.Post("/assessments", h.Create)
	r.Get("/assessments/:assessmentID", h.Get)
	r.Post("/assessments/:assessmentID/submit", h.Submit)
	r.Get("/assessments/:assessmentID/results", h.Results)
}

func (h *AssessmentHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createAssessmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in := usecase.CreateAssessmentInput{
		Title:        strings.TrimSpace(req.Title),
		PassingScore: req.PassingScore,
	}
	for _, q := range req.Questions {
		in.Questions = append(in.Questions, usecase.GeneratedQuestion{
			SkillID:       q.SkillID,
			Text:          strings.TrimSpace(q.Text),
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Points:        q.Points,
		})
	}

	a, err := h.uc.CreateAssessment(c.Context(), userID, in)
	if err != nil {
		return mapAssessmentError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewAssessmentResponse(a))
}

func (h *AssessmentHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var completed *bool
	switch strings.ToLower(c.Query("completed")) {
	case "true":
		v := true
		completed = &v
	case "false":
		v := false
		completed = &v
	}

	items, err := h.uc.ListAssessments(c.Context(), userID, completed)
	if err != nil {
		return mapAssessmentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssessmentListResponse(items))
}

func (h *AssessmentHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	assessmentID, err := uuid.Parse(c.Params("assessmentID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid assessment id", nil, err)
	}

	a, err := h.uc.GetAssessment(c.Context(), userID, assessmentID)
	if err != nil {
		return mapAssessmentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssessmentResponse(a))
}

func (h *AssessmentHandler) Submit(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	assessmentID, err := uuid.Parse(c.Params("assessmentID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid assessment id", nil, err)
	}

	var req submitAssessmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	answers := make([]usecase.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, usecase.SubmittedAnswer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
		})
	}

	res, err := h.uc.SubmitAssessment(c.Context(), userID, assessmentID, answers)
	if err != nil {
		return mapAssessmentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssessmentResultResponse(res))
}

func (h *AssessmentHandler) Results(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	assessmentID, err := uuid.Parse(c.Params("assessmentID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid assessment id", nil, err)
	}

	res, err := h.uc.GetResults(c.Context(), userID, assessmentID)
	if err != nil {
		return mapAssessmentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssessmentResultResponse(res))
}

func mapAssessmentError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrAssessmentCompleted):
		return middleware.NewAppError(fiber.StatusConflict, "Assessment already completed", nil, err)
	case errors.Is(err, usecase.ErrAssessmentNotCompleted):
		return middleware.NewAppError(fiber.StatusConflict, "Assessment not completed yet", nil, err)
	case errors.Is(err, usecase.ErrUnknownQuestion):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Answer references unknown question", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
