package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-twin/internal/database"
	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

type usMockUserSkillRepo struct {
	items        []skillgraph.UserSkill
	upsertCalls  int
	deleteErr    error
	boostMastery int
	boostCalls   int
	blended      map[uuid.UUID]int
}

func (m *usMockUserSkillRepo) FindByUserID(context.Context, uuid.UUID) ([]skillgraph.UserSkill, error) {
	return m.items, nil
}
func (m *usMockUserSkillRepo) FindByUserAndSkill(context.Context, uuid.UUID, uuid.UUID) (skillgraph.UserSkill, error) {
	return skillgraph.UserSkill{}, nil
}
func (m *usMockUserSkillRepo) Upsert(_ context.Context, userID, skillID uuid.UUID, masteryLevel int) (skillgraph.UserSkill, error) {
	m.upsertCalls++
	return skillgraph.UserSkill{UserID: userID, SkillID: skillID, MasteryLevel: masteryLevel}, nil
}
func (m *usMockUserSkillRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return m.deleteErr
}
func (m *usMockUserSkillRepo) ApplyMasteryBoost(context.Context, database.Querier, uuid.UUID, uuid.UUID, int) (int, error) {
	m.boostCalls++
	return m.boostMastery, nil
}
func (m *usMockUserSkillRepo) BlendAssessedMastery(_ context.Context, _ database.Querier, _, skillID uuid.UUID, score int) (int, error) {
	if m.blended == nil {
		m.blended = map[uuid.UUID]int{}
	}
	m.blended[skillID] = score
	return score, nil
}

type usMockSkillRepo struct {
	exists  bool
	catalog []skillgraph.Skill
}

func (m usMockSkillRepo) GetAllSkills(context.Context) ([]skillgraph.Skill, error) {
	return m.catalog, nil
}
func (m usMockSkillRepo) SkillExistsByID(context.Context, uuid.UUID) (bool, error) {
	return m.exists, nil
}
func (m usMockSkillRepo) CreateSkill(context.Context, string, string) (skillgraph.Skill, error) {
	return skillgraph.Skill{}, nil
}

type usMockRelationshipRepo struct {
	rels []skillgraph.Relationship
}

func (m usMockRelationshipRepo) GetAll(context.Context) ([]skillgraph.Relationship, error) {
	return m.rels, nil
}
func (m usMockRelationshipRepo) FindBySkillID(context.Context, uuid.UUID) ([]skillgraph.Relationship, error) {
	return m.rels, nil
}
func (m usMockRelationshipRepo) CreateRelationship(_ context.Context, rel skillgraph.Relationship) (skillgraph.Relationship, error) {
	return rel, nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateUserAnalytics(context.Context, uuid.UUID) error {
	m.calls++
	return nil
}

func TestUserSkillUsecase_Upsert_InvalidMastery(t *testing.T) {
	repo := &usMockUserSkillRepo{}
	uc := NewUserSkillUsecase(repo, usMockSkillRepo{exists: true}, nil)

	for _, level := range []int{-1, 101} {
		_, err := uc.UpsertUserSkill(context.Background(), uuid.New(), UpsertUserSkillInput{
			SkillID:      uuid.New(),
			MasteryLevel: level,
		})
		if !errors.Is(err, ErrInvalidMastery) {
			t.Fatalf("level %d: expected ErrInvalidMastery, got %v", level, err)
		}
	}
	if repo.upsertCalls != 0 {
		t.Fatalf("invalid mastery must not reach the repository")
	}
}

func TestUserSkillUsecase_Upsert_UnknownSkill(t *testing.T) {
	repo := &usMockUserSkillRepo{}
	uc := NewUserSkillUsecase(repo, usMockSkillRepo{exists: false}, nil)

	_, err := uc.UpsertUserSkill(context.Background(), uuid.New(), UpsertUserSkillInput{
		SkillID:      uuid.New(),
		MasteryLevel: 50,
	})
	if !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
	if repo.upsertCalls != 0 {
		t.Fatalf("unknown skill must not reach the repository")
	}
}

func TestUserSkillUsecase_Upsert_Success(t *testing.T) {
	repo := &usMockUserSkillRepo{}
	inv := &mockInvalidator{}
	uc := NewUserSkillUsecase(repo, usMockSkillRepo{exists: true}, inv)

	userID := uuid.New()
	skillID := uuid.New()
	us, err := uc.UpsertUserSkill(context.Background(), userID, UpsertUserSkillInput{
		SkillID:      skillID,
		MasteryLevel: 75,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if us.SkillID != skillID || us.MasteryLevel != 75 {
		t.Fatalf("unexpected result: %+v", us)
	}
	if repo.upsertCalls != 1 {
		t.Fatalf("expected one upsert, got %d", repo.upsertCalls)
	}
	if inv.calls != 1 {
		t.Fatalf("write must invalidate cached analytics")
	}
}

func TestUserSkillUsecase_Remove_NotFound(t *testing.T) {
	repo := &usMockUserSkillRepo{deleteErr: repository.ErrUserSkillNotFound}
	inv := &mockInvalidator{}
	uc := NewUserSkillUsecase(repo, usMockSkillRepo{exists: true}, inv)

	err := uc.RemoveUserSkill(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
	if inv.calls != 0 {
		t.Fatalf("failed delete must not invalidate cache")
	}
}
