package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Question is one multiple-choice item tied to a catalog skill. The correct
// option is an index into Options and never leaves the server.
type Question struct {
	ID            uuid.UUID
	AssessmentID  uuid.UUID
	SkillID       uuid.UUID
	SkillName     string
	Text          string
	Options       []string
	CorrectOption int
	Points        float64
	Position      int
}

// Response is a graded answer to one question. Score is the points earned,
// not a percentage.
type Response struct {
	ID             uuid.UUID
	AssessmentID   uuid.UUID
	QuestionID     uuid.UUID
	SelectedOption int
	Correct        bool
	Score          float64
}

// Assessment is a diagnostic test over a set of skills. Score is the overall
// percentage and is meaningful only once Completed is set.
type Assessment struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	PassingScore int
	Completed    bool
	Score        float64
	Questions    []Question
	CreatedAt    time.Time
	CompletedAt  *time.Time
}
