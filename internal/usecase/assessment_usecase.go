package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"skill-twin/internal/config"
	"skill-twin/internal/database"
	"skill-twin/internal/domain/assessment"
	"skill-twin/internal/repository"
	"skill-twin/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentCompleted    = errors.New("assessment already completed")
	ErrAssessmentNotCompleted = errors.New("assessment not completed")
	ErrUnknownQuestion        = errors.New("answer references unknown question")
)

// GeneratedQuestion is what the question-generation collaborator hands over
// at assessment creation: the prompt, its options, and the skill it covers.
// The engine owns ids, ordering, and grading.
type GeneratedQuestion struct {
	SkillID       uuid.UUID
	Text          string
	Options       []string
	CorrectOption int
	Points        float64
}

type CreateAssessmentInput struct {
	Title string
	// PassingScore of 0 falls back to the configured default.
	PassingScore int
	Questions    []GeneratedQuestion
}

type SubmittedAnswer struct {
	QuestionID     uuid.UUID
	SelectedOption int
}

type AssessmentResult struct {
	AssessmentID  uuid.UUID
	OverallScore  float64
	Passed        bool
	Breakdown     []assessment.SkillScore
	Gaps          []assessment.SkillScore
	Strengths     []assessment.SkillScore
	UpdatedSkills []MasteryBoost
	CompletedAt   time.Time
}

type AssessmentUsecase interface {
	CreateAssessment(ctx context.Context, userID uuid.UUID, in CreateAssessmentInput) (assessment.Assessment, error)
	ListAssessments(ctx context.Context, userID uuid.UUID, completed *bool) ([]assessment.Assessment, error)
	GetAssessment(ctx context.Context, userID, assessmentID uuid.UUID) (assessment.Assessment, error)
	SubmitAssessment(ctx context.Context, userID, assessmentID uuid.UUID, answers []SubmittedAnswer) (AssessmentResult, error)
	GetResults(ctx context.Context, userID, assessmentID uuid.UUID) (AssessmentResult, error)
}

type Assessment struct {
	db          database.DB
	assessments repository.AssessmentRepository
	userSkills  repository.UserSkillRepository
	skills      repository.SkillRepository
	cache       AnalyticsInvalidator
	policy      config.PolicyConfig
}

func NewAssessmentUsecase(
	db database.DB,
	assessments repository.AssessmentRepository,
	userSkills repository.UserSkillRepository,
	skills repository.SkillRepository,
	cache AnalyticsInvalidator,
	policy config.PolicyConfig,
) *Assessment {
	return &Assessment{
		db:          db,
		assessments: assessments,
		userSkills:  userSkills,
		skills:      skills,
		cache:       cache,
		policy:      policy,
	}
}

func (u *Assessment) CreateAssessment(ctx context.Context, userID uuid.UUID, in CreateAssessmentInput) (assessment.Assessment, error) {
	if userID == uuid.Nil {
		return assessment.Assessment{}, ErrUnauthorized
	}
	if in.Title == "" || len(in.Questions) == 0 {
		return assessment.Assessment{}, ErrInvalidInput
	}
	if in.PassingScore < 0 || in.PassingScore > 100 {
		return assessment.Assessment{}, ErrInvalidInput
	}
	passing := in.PassingScore
	if passing == 0 {
		passing = u.policy.AssessmentPassingScore
	}

	seen := map[uuid.UUID]bool{}
	for _, q := range in.Questions {
		if q.Text == "" || len(q.Options) < 2 {
			return assessment.Assessment{}, ErrInvalidInput
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return assessment.Assessment{}, ErrInvalidInput
		}
		if q.Points < 0 {
			return assessment.Assessment{}, ErrInvalidInput
		}
		if q.SkillID == uuid.Nil {
			return assessment.Assessment{}, ErrInvalidInput
		}
		if !seen[q.SkillID] {
			exists, err := u.skills.SkillExistsByID(ctx, q.SkillID)
			if err != nil {
				return assessment.Assessment{}, ErrInternal
			}
			if !exists {
				return assessment.Assessment{}, ErrSkillNotFound
			}
			seen[q.SkillID] = true
		}
	}

	a := assessment.Assessment{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        in.Title,
		PassingScore: passing,
	}
	for i, q := range in.Questions {
		points := q.Points
		if points == 0 {
			points = 1
		}
		a.Questions = append(a.Questions, assessment.Question{
			ID:            uuid.New(),
			AssessmentID:  a.ID,
			SkillID:       q.SkillID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Points:        points,
			Position:      i,
		})
	}

	if err := u.assessments.Create(ctx, a); err != nil {
		return assessment.Assessment{}, ErrInternal
	}

	created, err := u.assessments.FindByID(ctx, a.ID, userID)
	if err != nil {
		return assessment.Assessment{}, ErrInternal
	}
	return created, nil
}

func (u *Assessment) ListAssessments(ctx context.Context, userID uuid.UUID, completed *bool) ([]assessment.Assessment, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.assessments.FindByUserID(ctx, userID, completed)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Assessment) GetAssessment(ctx context.Context, userID, assessmentID uuid.UUID) (assessment.Assessment, error) {
	if userID == uuid.Nil {
		return assessment.Assessment{}, ErrUnauthorized
	}
	if assessmentID == uuid.Nil {
		return assessment.Assessment{}, ErrAssessmentNotFound
	}

	a, err := u.assessments.FindByID(ctx, assessmentID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, ErrInternal
	}
	return a, nil
}

// SubmitAssessment grades the submission and completes the assessment in one
// transaction: response rows, the completion flag, and the per-skill mastery
// write-back all commit together. An assessment completes at most once; the
// header row lock serializes concurrent submissions and the second one sees
// the completed flag.
func (u *Assessment) SubmitAssessment(ctx context.Context, userID, assessmentID uuid.UUID, answers []SubmittedAnswer) (AssessmentResult, error) {
	if userID == uuid.Nil {
		return AssessmentResult{}, ErrUnauthorized
	}
	if assessmentID == uuid.Nil {
		return AssessmentResult{}, ErrAssessmentNotFound
	}
	if len(answers) == 0 {
		return AssessmentResult{}, ErrInvalidInput
	}
	answered := map[uuid.UUID]bool{}
	for _, a := range answers {
		if a.QuestionID == uuid.Nil || answered[a.QuestionID] {
			return AssessmentResult{}, ErrInvalidInput
		}
		answered[a.QuestionID] = true
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return AssessmentResult{}, ErrInternal
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	a, err := u.assessments.LockForScoring(ctx, tx, assessmentID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return AssessmentResult{}, ErrAssessmentNotFound
		}
		return AssessmentResult{}, ErrInternal
	}
	if a.Completed {
		return AssessmentResult{}, ErrAssessmentCompleted
	}

	known := map[uuid.UUID]bool{}
	for _, q := range a.Questions {
		known[q.ID] = true
	}
	for _, ans := range answers {
		if !known[ans.QuestionID] {
			return AssessmentResult{}, ErrUnknownQuestion
		}
	}

	domainAnswers := make([]assessment.Answer, 0, len(answers))
	for _, ans := range answers {
		domainAnswers = append(domainAnswers, assessment.Answer{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
		})
	}
	responses := assessment.Grade(a.Questions, domainAnswers)
	for i := range responses {
		responses[i].ID = uuid.New()
		responses[i].AssessmentID = assessmentID
	}

	if err := u.assessments.InsertResponses(ctx, tx, responses); err != nil {
		return AssessmentResult{}, ErrInternal
	}

	outcome := assessment.Evaluate(a.Questions, responses)
	if err := u.assessments.MarkCompleted(ctx, tx, assessmentID, outcome.OverallScore); err != nil {
		return AssessmentResult{}, ErrInternal
	}

	result := AssessmentResult{
		AssessmentID: assessmentID,
		OverallScore: outcome.OverallScore,
		Passed:       outcome.OverallScore >= float64(a.PassingScore),
		Breakdown:    outcome.Breakdown,
		Gaps:         outcome.Gaps,
		Strengths:    outcome.Strengths,
		CompletedAt:  time.Now().UTC(),
	}

	for _, s := range outcome.Breakdown {
		mastery, err := u.userSkills.BlendAssessedMastery(ctx, tx, userID, s.SkillID, int(math.Round(s.Score)))
		if err != nil {
			return AssessmentResult{}, ErrInternal
		}
		result.UpdatedSkills = append(result.UpdatedSkills, MasteryBoost{SkillID: s.SkillID, MasteryLevel: mastery})
	}

	if err := tx.Commit(ctx); err != nil {
		return AssessmentResult{}, ErrInternal
	}

	if len(result.UpdatedSkills) > 0 && u.cache != nil {
		_ = u.cache.InvalidateUserAnalytics(ctx, userID)
	}
	ws.NotifyAssessmentCompleted(userID, assessmentID, result.OverallScore, result.Passed)
	for _, s := range result.UpdatedSkills {
		ws.NotifyMasteryBoost(userID, s.SkillID, s.MasteryLevel)
	}

	return result, nil
}

// GetResults rebuilds the outcome of a completed assessment from its stored
// responses. The mastery write-back already happened at submission, so
// UpdatedSkills stays empty here.
func (u *Assessment) GetResults(ctx context.Context, userID, assessmentID uuid.UUID) (AssessmentResult, error) {
	a, err := u.GetAssessment(ctx, userID, assessmentID)
	if err != nil {
		return AssessmentResult{}, err
	}
	if !a.Completed {
		return AssessmentResult{}, ErrAssessmentNotCompleted
	}

	responses, err := u.assessments.FindResponses(ctx, assessmentID)
	if err != nil {
		return AssessmentResult{}, ErrInternal
	}

	outcome := assessment.Evaluate(a.Questions, responses)
	result := AssessmentResult{
		AssessmentID: a.ID,
		OverallScore: outcome.OverallScore,
		Passed:       outcome.OverallScore >= float64(a.PassingScore),
		Breakdown:    outcome.Breakdown,
		Gaps:         outcome.Gaps,
		Strengths:    outcome.Strengths,
	}
	if a.CompletedAt != nil {
		result.CompletedAt = *a.CompletedAt
	}
	return result, nil
}
