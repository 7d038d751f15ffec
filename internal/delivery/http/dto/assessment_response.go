package dto

import (
	"time"

	"skill-twin/internal/domain/assessment"
	"skill-twin/internal/usecase"

	"github.com/google/uuid"
)

// QuestionResponse deliberately omits the correct option; it never leaves
// the server before the assessment is graded.
type QuestionResponse struct {
	ID        uuid.UUID `json:"id"`
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name,omitempty"`
	Text      string    `json:"text"`
	Options   []string  `json:"options"`
	Points    float64   `json:"points"`
	Position  int       `json:"position"`
}

type AssessmentResponse struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	PassingScore int                `json:"passing_score"`
	Completed    bool               `json:"completed"`
	Score        float64            `json:"score"`
	Questions    []QuestionResponse `json:"questions,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

type SkillScoreResponse struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Score     float64   `json:"score"`
}

type AssessmentResultResponse struct {
	AssessmentID  uuid.UUID              `json:"assessment_id"`
	OverallScore  float64                `json:"overall_score"`
	Passed        bool                   `json:"passed"`
	Breakdown     []SkillScoreResponse   `json:"breakdown"`
	Gaps          []SkillScoreResponse   `json:"gaps"`
	Strengths     []SkillScoreResponse   `json:"strengths"`
	UpdatedSkills []MasteryBoostResponse `json:"updated_skills"`
	CompletedAt   time.Time              `json:"completed_at"`
}

func NewAssessmentResponse(a assessment.Assessment) AssessmentResponse {
	out := AssessmentResponse{
		ID:           a.ID,
		Title:        a.Title,
		PassingScore: a.PassingScore,
		Completed:    a.Completed,
		Score:        a.Score,
		CreatedAt:    a.CreatedAt,
		CompletedAt:  a.CompletedAt,
	}
	for _, q := range a.Questions {
		out.Questions = append(out.Questions, QuestionResponse{
			ID:        q.ID,
			SkillID:   q.SkillID,
			SkillName: q.SkillName,
			Text:      q.Text,
			Options:   q.Options,
			Points:    q.Points,
			Position:  q.Position,
		})
	}
	return out
}

func NewAssessmentListResponse(items []assessment.Assessment) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewAssessmentResponse(a))
	}
	return out
}

func NewAssessmentResultResponse(res usecase.AssessmentResult) AssessmentResultResponse {
	out := AssessmentResultResponse{
		AssessmentID:  res.AssessmentID,
		OverallScore:  res.OverallScore,
		Passed:        res.Passed,
		Breakdown:     newSkillScoreList(res.Breakdown),
		Gaps:          newSkillScoreList(res.Gaps),
		Strengths:     newSkillScoreList(res.Strengths),
		UpdatedSkills: make([]MasteryBoostResponse, 0, len(res.UpdatedSkills)),
		CompletedAt:   res.CompletedAt,
	}
	for _, s := range res.UpdatedSkills {
		out.UpdatedSkills = append(out.UpdatedSkills, MasteryBoostResponse{
			SkillID:      s.SkillID,
			MasteryLevel: s.MasteryLevel,
		})
	}
	return out
}

func newSkillScoreList(items []assessment.SkillScore) []SkillScoreResponse {
	out := make([]SkillScoreResponse, 0, len(items))
	for _, s := range items {
		out = append(out, SkillScoreResponse{SkillID: s.SkillID, SkillName: s.SkillName, Score: s.Score})
	}
	return out
}
