package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-twin/internal/config"
	"skill-twin/internal/database"
	"skill-twin/internal/domain/assessment"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

type asMockAssessmentRepo struct {
	stored    map[uuid.UUID]assessment.Assessment
	responses []assessment.Response

	completeCalls  int
	completedScore float64
}

func (m *asMockAssessmentRepo) Create(_ context.Context, a assessment.Assessment) error {
	if m.stored == nil {
		m.stored = map[uuid.UUID]assessment.Assessment{}
	}
	m.stored[a.ID] = a
	return nil
}
func (m *asMockAssessmentRepo) FindByID(_ context.Context, assessmentID, userID uuid.UUID) (assessment.Assessment, error) {
	a, ok := m.stored[assessmentID]
	if !ok || a.UserID != userID {
		return assessment.Assessment{}, repository.ErrAssessmentNotFound
	}
	return a, nil
}
func (m *asMockAssessmentRepo) FindByUserID(_ context.Context, userID uuid.UUID, completed *bool) ([]assessment.Assessment, error) {
	out := make([]assessment.Assessment, 0)
	for _, a := range m.stored {
		if a.UserID != userID {
			continue
		}
		if completed != nil && a.Completed != *completed {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
func (m *asMockAssessmentRepo) LockForScoring(_ context.Context, _ database.Querier, assessmentID, userID uuid.UUID) (assessment.Assessment, error) {
	return m.FindByID(context.Background(), assessmentID, userID)
}
func (m *asMockAssessmentRepo) InsertResponses(_ context.Context, _ database.Querier, responses []assessment.Response) error {
	m.responses = append(m.responses, responses...)
	return nil
}
func (m *asMockAssessmentRepo) MarkCompleted(_ context.Context, _ database.Querier, assessmentID uuid.UUID, score float64) error {
	a, ok := m.stored[assessmentID]
	if !ok {
		return repository.ErrAssessmentNotFound
	}
	m.completeCalls++
	m.completedScore = score
	now := time.Now().UTC()
	a.Completed = true
	a.Score = score
	a.CompletedAt = &now
	m.stored[assessmentID] = a
	return nil
}
func (m *asMockAssessmentRepo) FindResponses(context.Context, uuid.UUID) ([]assessment.Response, error) {
	return m.responses, nil
}

func asTestUsecase(repo *asMockAssessmentRepo, userSkills *usMockUserSkillRepo, inv *mockInvalidator) (*Assessment, *rmMockDB) {
	db := &rmMockDB{tx: &rmMockTx{}}
	var cache AnalyticsInvalidator
	if inv != nil {
		cache = inv
	}
	uc := NewAssessmentUsecase(db, repo, userSkills, usMockSkillRepo{exists: true}, cache, config.PolicyConfig{AssessmentPassingScore: 70})
	return uc, db
}

func asSeedAssessment(repo *asMockAssessmentRepo, userID uuid.UUID, questions ...assessment.Question) assessment.Assessment {
	a := assessment.Assessment{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Diagnostic",
		PassingScore: 70,
		Questions:    questions,
	}
	_ = repo.Create(context.Background(), a)
	return a
}

func asQuestion(skillID uuid.UUID, name string, correct int) assessment.Question {
	return assessment.Question{
		ID:            uuid.New(),
		SkillID:       skillID,
		SkillName:     name,
		Text:          "pick one",
		Options:       []string{"a", "b", "c"},
		CorrectOption: correct,
		Points:        1,
	}
}

func TestCreateAssessment_Validation(t *testing.T) {
	question := GeneratedQuestion{
		SkillID:       uuid.New(),
		Text:          "pick one",
		Options:       []string{"a", "b"},
		CorrectOption: 0,
	}

	cases := []struct {
		name string
		in   CreateAssessmentInput
		want error
	}{
		{"empty title", CreateAssessmentInput{Questions: []GeneratedQuestion{question}}, ErrInvalidInput},
		{"no questions", CreateAssessmentInput{Title: "t"}, ErrInvalidInput},
		{"passing score out of range", CreateAssessmentInput{Title: "t", PassingScore: 101, Questions: []GeneratedQuestion{question}}, ErrInvalidInput},
		{"single option", CreateAssessmentInput{Title: "t", Questions: []GeneratedQuestion{{
			SkillID: uuid.New(), Text: "q", Options: []string{"a"}, CorrectOption: 0,
		}}}, ErrInvalidInput},
		{"correct option out of range", CreateAssessmentInput{Title: "t", Questions: []GeneratedQuestion{{
			SkillID: uuid.New(), Text: "q", Options: []string{"a", "b"}, CorrectOption: 2,
		}}}, ErrInvalidInput},
		{"negative points", CreateAssessmentInput{Title: "t", Questions: []GeneratedQuestion{{
			SkillID: uuid.New(), Text: "q", Options: []string{"a", "b"}, CorrectOption: 0, Points: -1,
		}}}, ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &asMockAssessmentRepo{}
			uc, _ := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

			_, err := uc.CreateAssessment(context.Background(), uuid.New(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(repo.stored) != 0 {
				t.Fatalf("invalid input must not reach the repository")
			}
		})
	}
}

func TestCreateAssessment_UnknownSkill(t *testing.T) {
	repo := &asMockAssessmentRepo{}
	db := &rmMockDB{tx: &rmMockTx{}}
	uc := NewAssessmentUsecase(db, repo, &usMockUserSkillRepo{}, usMockSkillRepo{exists: false}, nil, config.PolicyConfig{AssessmentPassingScore: 70})

	_, err := uc.CreateAssessment(context.Background(), uuid.New(), CreateAssessmentInput{
		Title: "t",
		Questions: []GeneratedQuestion{{
			SkillID: uuid.New(), Text: "q", Options: []string{"a", "b"}, CorrectOption: 0,
		}},
	})
	if !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}

func TestCreateAssessment_AssignsIdentityAndDefaults(t *testing.T) {
	repo := &asMockAssessmentRepo{}
	uc, _ := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

	a, err := uc.CreateAssessment(context.Background(), uuid.New(), CreateAssessmentInput{
		Title: "Diagnostic",
		Questions: []GeneratedQuestion{
			{SkillID: uuid.New(), Text: "q1", Options: []string{"a", "b"}, CorrectOption: 0},
			{SkillID: uuid.New(), Text: "q2", Options: []string{"a", "b"}, CorrectOption: 1, Points: 2},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Fatalf("assessment id must be assigned")
	}
	if a.PassingScore != 70 {
		t.Fatalf("passing score must fall back to the configured default, got %d", a.PassingScore)
	}
	if len(a.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(a.Questions))
	}
	for i, q := range a.Questions {
		if q.ID == uuid.Nil || q.Position != i {
			t.Fatalf("question %d must carry identity and order: %+v", i, q)
		}
	}
	if a.Questions[0].Points != 1 {
		t.Fatalf("unset points must default to 1, got %v", a.Questions[0].Points)
	}
	if a.Questions[1].Points != 2 {
		t.Fatalf("explicit points must be kept, got %v", a.Questions[1].Points)
	}
}

func TestSubmitAssessment_ScoresAndWritesBackMastery(t *testing.T) {
	userID := uuid.New()
	goID := uuid.New()
	sqlID := uuid.New()

	repo := &asMockAssessmentRepo{}
	q1 := asQuestion(goID, "Go", 0)
	q2 := asQuestion(sqlID, "SQL", 0)
	a := asSeedAssessment(repo, userID, q1, q2)

	userSkills := &usMockUserSkillRepo{}
	inv := &mockInvalidator{}
	uc, db := asTestUsecase(repo, userSkills, inv)

	res, err := uc.SubmitAssessment(context.Background(), userID, a.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, SelectedOption: 0}, // right
		{QuestionID: q2.ID, SelectedOption: 1}, // wrong
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if res.OverallScore != 50 {
		t.Fatalf("expected overall 50, got %v", res.OverallScore)
	}
	if res.Passed {
		t.Fatalf("50 must not pass at bar 70")
	}
	if len(res.Gaps) != 1 || res.Gaps[0].SkillID != sqlID {
		t.Fatalf("SQL must be the only gap: %+v", res.Gaps)
	}
	if len(res.Strengths) != 1 || res.Strengths[0].SkillID != goID {
		t.Fatalf("Go must be the only strength: %+v", res.Strengths)
	}

	if userSkills.blended[goID] != 100 || userSkills.blended[sqlID] != 0 {
		t.Fatalf("per-skill scores must be written back: %v", userSkills.blended)
	}
	if len(res.UpdatedSkills) != 2 {
		t.Fatalf("expected 2 mastery write-backs, got %d", len(res.UpdatedSkills))
	}

	if repo.completeCalls != 1 || repo.completedScore != 50 {
		t.Fatalf("assessment must be marked completed at the overall score")
	}
	if len(repo.responses) != 2 {
		t.Fatalf("expected 2 stored responses, got %d", len(repo.responses))
	}
	if db.tx.commits != 1 {
		t.Fatalf("scoring must commit exactly once, got %d", db.tx.commits)
	}
	if inv.calls != 1 {
		t.Fatalf("mastery write-back must invalidate cached analytics")
	}
}

func TestSubmitAssessment_AlreadyCompleted(t *testing.T) {
	userID := uuid.New()
	repo := &asMockAssessmentRepo{}
	q := asQuestion(uuid.New(), "Go", 0)
	a := asSeedAssessment(repo, userID, q)

	stored := repo.stored[a.ID]
	stored.Completed = true
	repo.stored[a.ID] = stored

	uc, db := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

	_, err := uc.SubmitAssessment(context.Background(), userID, a.ID, []SubmittedAnswer{
		{QuestionID: q.ID, SelectedOption: 0},
	})
	if !errors.Is(err, ErrAssessmentCompleted) {
		t.Fatalf("expected ErrAssessmentCompleted, got %v", err)
	}
	if len(repo.responses) != 0 || db.tx.commits != 0 {
		t.Fatalf("a completed assessment must not be rescored")
	}
}

func TestSubmitAssessment_UnknownQuestion(t *testing.T) {
	userID := uuid.New()
	repo := &asMockAssessmentRepo{}
	a := asSeedAssessment(repo, userID, asQuestion(uuid.New(), "Go", 0))

	uc, db := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

	_, err := uc.SubmitAssessment(context.Background(), userID, a.ID, []SubmittedAnswer{
		{QuestionID: uuid.New(), SelectedOption: 0},
	})
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if len(repo.responses) != 0 || db.tx.commits != 0 {
		t.Fatalf("nothing may be stored for an invalid submission")
	}
}

func TestSubmitAssessment_InvalidSubmissions(t *testing.T) {
	userID := uuid.New()
	repo := &asMockAssessmentRepo{}
	q := asQuestion(uuid.New(), "Go", 0)
	a := asSeedAssessment(repo, userID, q)

	uc, db := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

	if _, err := uc.SubmitAssessment(context.Background(), userID, a.ID, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an empty submission, got %v", err)
	}
	if _, err := uc.SubmitAssessment(context.Background(), userID, a.ID, []SubmittedAnswer{
		{QuestionID: q.ID, SelectedOption: 0},
		{QuestionID: q.ID, SelectedOption: 1},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate answers, got %v", err)
	}
	if db.begins != 0 {
		t.Fatalf("validation must fail before any transaction starts")
	}
}

func TestSubmitAssessment_NotFoundAndForeignOwner(t *testing.T) {
	userID := uuid.New()
	repo := &asMockAssessmentRepo{}
	q := asQuestion(uuid.New(), "Go", 0)
	a := asSeedAssessment(repo, userID, q)

	uc, _ := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

	answers := []SubmittedAnswer{{QuestionID: q.ID, SelectedOption: 0}}
	if _, err := uc.SubmitAssessment(context.Background(), userID, uuid.New(), answers); !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound, got %v", err)
	}
	if _, err := uc.SubmitAssessment(context.Background(), uuid.New(), a.ID, answers); !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("another user's assessment must look like it does not exist, got %v", err)
	}
}

func TestGetResults(t *testing.T) {
	userID := uuid.New()
	goID := uuid.New()
	repo := &asMockAssessmentRepo{}
	q := asQuestion(goID, "Go", 0)
	a := asSeedAssessment(repo, userID, q)

	uc, _ := asTestUsecase(repo, &usMockUserSkillRepo{}, nil)

	if _, err := uc.GetResults(context.Background(), userID, a.ID); !errors.Is(err, ErrAssessmentNotCompleted) {
		t.Fatalf("expected ErrAssessmentNotCompleted before submission, got %v", err)
	}

	if _, err := uc.SubmitAssessment(context.Background(), userID, a.ID, []SubmittedAnswer{
		{QuestionID: q.ID, SelectedOption: 0},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	res, err := uc.GetResults(context.Background(), userID, a.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.OverallScore != 100 || !res.Passed {
		t.Fatalf("expected a passed 100, got %+v", res)
	}
	if len(res.Breakdown) != 1 || res.Breakdown[0].SkillID != goID {
		t.Fatalf("breakdown must be rebuilt from stored responses: %+v", res.Breakdown)
	}
	if len(res.UpdatedSkills) != 0 {
		t.Fatalf("results must not replay the mastery write-back")
	}
}
