package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-twin/internal/config"
	"skill-twin/internal/domain/gap"
	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

type mockRoleRepo struct {
	roles map[uuid.UUID]repository.CareerRole
	reqs  map[uuid.UUID][]repository.RoleSkillRequirement
}

func (m mockRoleRepo) ListRoles(context.Context) ([]repository.CareerRole, error) {
	out := make([]repository.CareerRole, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}
func (m mockRoleRepo) FindByID(_ context.Context, roleID uuid.UUID) (repository.CareerRole, error) {
	r, ok := m.roles[roleID]
	if !ok {
		return repository.CareerRole{}, repository.ErrRoleNotFound
	}
	return r, nil
}
func (m mockRoleRepo) FindRequirements(_ context.Context, roleID uuid.UUID) ([]repository.RoleSkillRequirement, error) {
	return m.reqs[roleID], nil
}
func (m mockRoleRepo) FindRequirementsByRoleIDs(_ context.Context, roleIDs []uuid.UUID) (map[uuid.UUID][]repository.RoleSkillRequirement, error) {
	out := map[uuid.UUID][]repository.RoleSkillRequirement{}
	for _, id := range roleIDs {
		if reqs, ok := m.reqs[id]; ok {
			out[id] = reqs
		}
	}
	return out, nil
}

type mockTargetRoleRepo struct {
	stored map[uuid.UUID]uuid.UUID
}

func (m *mockTargetRoleRepo) Get(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if m.stored == nil {
		return uuid.Nil, repository.ErrTargetRoleNotSet
	}
	roleID, ok := m.stored[userID]
	if !ok {
		return uuid.Nil, repository.ErrTargetRoleNotSet
	}
	return roleID, nil
}
func (m *mockTargetRoleRepo) Set(_ context.Context, userID, roleID uuid.UUID) error {
	if m.stored == nil {
		m.stored = map[uuid.UUID]uuid.UUID{}
	}
	m.stored[userID] = roleID
	return nil
}

type countingRoleRepo struct {
	mockRoleRepo
	findCalls int
	reqCalls  int
}

func (m *countingRoleRepo) FindByID(ctx context.Context, roleID uuid.UUID) (repository.CareerRole, error) {
	m.findCalls++
	return m.mockRoleRepo.FindByID(ctx, roleID)
}
func (m *countingRoleRepo) FindRequirements(ctx context.Context, roleID uuid.UUID) ([]repository.RoleSkillRequirement, error) {
	m.reqCalls++
	return m.mockRoleRepo.FindRequirements(ctx, roleID)
}

func gapTestCatalog(skills ...skillgraph.Skill) usMockSkillRepo {
	return usMockSkillRepo{exists: true, catalog: skills}
}

func TestGapAnalysis_NoTargetRoleSet(t *testing.T) {
	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{roles: map[uuid.UUID]repository.CareerRole{}},
		&mockTargetRoleRepo{},
		usMockSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	_, err := uc.AnalyzeForRole(context.Background(), uuid.New(), uuid.Nil)
	if !errors.Is(err, ErrNoTargetRole) {
		t.Fatalf("expected ErrNoTargetRole, got %v", err)
	}
}

func TestGapAnalysis_UnknownRole(t *testing.T) {
	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{roles: map[uuid.UUID]repository.CareerRole{}},
		&mockTargetRoleRepo{},
		usMockSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	_, err := uc.AnalyzeForRole(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestGapAnalysis_DeletedRoleNotServedFromAnalysisPipeline(t *testing.T) {
	roleID := uuid.New()
	// Requirements for the role still exist, as they would right after a
	// role row is deleted but before dependents are cleaned up. The
	// existence check must run first, so the stale requirements (and any
	// previously cached analysis keyed on this role) are never consulted.
	roles := &countingRoleRepo{mockRoleRepo: mockRoleRepo{
		roles: map[uuid.UUID]repository.CareerRole{},
		reqs: map[uuid.UUID][]repository.RoleSkillRequirement{roleID: {
			{RoleID: roleID, SkillID: uuid.New(), SkillName: "Go", Weight: 1},
		}},
	}}

	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{},
		roles,
		&mockTargetRoleRepo{},
		usMockSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	_, err := uc.AnalyzeForRole(context.Background(), uuid.New(), roleID)
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if roles.findCalls != 1 {
		t.Fatalf("expected one existence check, got %d", roles.findCalls)
	}
	if roles.reqCalls != 0 {
		t.Fatalf("requirements must not be read for a deleted role")
	}
}

func TestGapAnalysis_RoleMode(t *testing.T) {
	roleID := uuid.New()
	held := uuid.New()
	missing := uuid.New()

	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{items: []skillgraph.UserSkill{{SkillID: held, MasteryLevel: 90}}},
		mockRoleRepo{
			roles: map[uuid.UUID]repository.CareerRole{roleID: {ID: roleID, Title: "Backend Engineer"}},
			reqs: map[uuid.UUID][]repository.RoleSkillRequirement{roleID: {
				{RoleID: roleID, SkillID: held, SkillName: "Go", Weight: 0.6},
				{RoleID: roleID, SkillID: missing, SkillName: "Kubernetes", Weight: 0.4},
			}},
		},
		&mockTargetRoleRepo{},
		usMockSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	res, err := uc.AnalyzeForRole(context.Background(), uuid.New(), roleID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.RoleID != roleID || res.RoleTitle != "Backend Engineer" {
		t.Fatalf("role identity missing from result")
	}
	if res.TotalSkills != 2 {
		t.Fatalf("expected total 2, got %d", res.TotalSkills)
	}
	if len(res.Skills) != 1 || res.Skills[0].SkillID != missing {
		t.Fatalf("expected only the missing skill listed")
	}
	if res.Skills[0].TargetMastery != 70 || res.Skills[0].Gap != 70 {
		t.Fatalf("role mode must use the configured target mastery")
	}
	if res.Skills[0].Priority != gap.PriorityHigh {
		t.Fatalf("gap 70 must be high priority")
	}
	// (0*0.6 + 70*0.4) / 1.0
	if res.GapScore != 28 {
		t.Fatalf("expected gap score 28, got %v", res.GapScore)
	}
}

func TestGapAnalysis_FallsBackToStoredTargetRole(t *testing.T) {
	roleID := uuid.New()
	userID := uuid.New()
	skillID := uuid.New()

	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{
			roles: map[uuid.UUID]repository.CareerRole{roleID: {ID: roleID, Title: "Data Engineer"}},
			reqs: map[uuid.UUID][]repository.RoleSkillRequirement{roleID: {
				{RoleID: roleID, SkillID: skillID, SkillName: "SQL", Weight: 1},
			}},
		},
		&mockTargetRoleRepo{stored: map[uuid.UUID]uuid.UUID{userID: roleID}},
		usMockSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	res, err := uc.AnalyzeForRole(context.Background(), userID, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.RoleID != roleID {
		t.Fatalf("expected stored target role to be used")
	}
}

func TestGapAnalysis_ExplicitTargets(t *testing.T) {
	skillID := uuid.New()
	catalog := gapTestCatalog(skillgraph.Skill{ID: skillID, Name: "Go", Category: "Programming Language"})

	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{items: []skillgraph.UserSkill{{SkillID: skillID, MasteryLevel: 30}}},
		mockRoleRepo{},
		&mockTargetRoleRepo{},
		catalog,
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	res, err := uc.AnalyzeForTargets(context.Background(), uuid.New(), []ExplicitTarget{
		{SkillID: skillID, TargetMastery: 80},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Skills) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(res.Skills))
	}
	if res.Skills[0].SkillName != "Go" {
		t.Fatalf("names must come from the catalog")
	}
	if res.Skills[0].Gap != 50 {
		t.Fatalf("expected gap 50, got %d", res.Skills[0].Gap)
	}
}

func TestGapAnalysis_ExplicitTargets_Validation(t *testing.T) {
	uc := NewGapAnalysisUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{},
		&mockTargetRoleRepo{},
		usMockSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	if _, err := uc.AnalyzeForTargets(context.Background(), uuid.New(), nil); !errors.Is(err, ErrNoTargetsGiven) {
		t.Fatalf("expected ErrNoTargetsGiven, got %v", err)
	}
	if _, err := uc.AnalyzeForTargets(context.Background(), uuid.New(), []ExplicitTarget{
		{SkillID: uuid.New(), TargetMastery: 120},
	}); !errors.Is(err, ErrInvalidTargetSet) {
		t.Fatalf("expected ErrInvalidTargetSet, got %v", err)
	}
	if _, err := uc.AnalyzeForTargets(context.Background(), uuid.New(), []ExplicitTarget{
		{SkillID: uuid.New(), TargetMastery: 70},
	}); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound for skill outside the catalog, got %v", err)
	}
}
