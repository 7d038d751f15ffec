package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-twin/internal/config"
	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

func TestAlignment_GetAlignment_EmptyRequirements(t *testing.T) {
	roleID := uuid.New()
	uc := NewAlignmentUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{roles: map[uuid.UUID]repository.CareerRole{roleID: {ID: roleID, Title: "Ghost Role"}}},
		&mockTargetRoleRepo{},
		nil,
		config.PolicyConfig{MatchingThreshold: 50},
	)

	_, err := uc.GetAlignment(context.Background(), uuid.New(), roleID)
	if !errors.Is(err, ErrEmptyRoleRequirements) {
		t.Fatalf("expected ErrEmptyRoleRequirements, got %v", err)
	}
}

func TestAlignment_GetAlignment_PartitionAndReadiness(t *testing.T) {
	roleID := uuid.New()
	matched := uuid.New()
	missing := uuid.New()

	uc := NewAlignmentUsecase(
		&usMockUserSkillRepo{items: []skillgraph.UserSkill{
			{SkillID: matched, MasteryLevel: 80},
			{SkillID: missing, MasteryLevel: 10},
		}},
		mockRoleRepo{
			roles: map[uuid.UUID]repository.CareerRole{roleID: {ID: roleID, Title: "Backend Engineer", Level: "mid"}},
			reqs: map[uuid.UUID][]repository.RoleSkillRequirement{roleID: {
				{RoleID: roleID, SkillID: matched, SkillName: "Go", Weight: 0.6},
				{RoleID: roleID, SkillID: missing, SkillName: "Kubernetes", Weight: 0.4},
			}},
		},
		&mockTargetRoleRepo{},
		nil,
		config.PolicyConfig{MatchingThreshold: 50},
	)

	res, err := uc.GetAlignment(context.Background(), uuid.New(), roleID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.RoleTitle != "Backend Engineer" || res.RoleLevel != "mid" {
		t.Fatalf("role identity missing from result")
	}
	if len(res.Matching) != 1 || res.Matching[0].SkillID != matched {
		t.Fatalf("expected one matching skill")
	}
	if len(res.Missing) != 1 || res.Missing[0].SkillID != missing {
		t.Fatalf("expected the below-threshold skill in missing")
	}
	if res.ReadinessPercentage != 60 {
		t.Fatalf("expected readiness 60, got %v", res.ReadinessPercentage)
	}
}

func TestAlignment_GetRecommendations_SortsAndSkipsEmptyRoles(t *testing.T) {
	strongRole := uuid.New()
	weakRole := uuid.New()
	emptyRole := uuid.New()
	skillID := uuid.New()
	otherID := uuid.New()

	uc := NewAlignmentUsecase(
		&usMockUserSkillRepo{items: []skillgraph.UserSkill{{SkillID: skillID, MasteryLevel: 90}}},
		mockRoleRepo{
			roles: map[uuid.UUID]repository.CareerRole{
				strongRole: {ID: strongRole, Title: "Strong Fit"},
				weakRole:   {ID: weakRole, Title: "Weak Fit"},
				emptyRole:  {ID: emptyRole, Title: "No Requirements"},
			},
			reqs: map[uuid.UUID][]repository.RoleSkillRequirement{
				strongRole: {{RoleID: strongRole, SkillID: skillID, SkillName: "Go", Weight: 1}},
				weakRole:   {{RoleID: weakRole, SkillID: otherID, SkillName: "Rust", Weight: 1}},
			},
		},
		&mockTargetRoleRepo{},
		nil,
		config.PolicyConfig{MatchingThreshold: 50},
	)

	out, err := uc.GetRecommendations(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("roles without requirements must be skipped, got %d results", len(out))
	}
	if out[0].RoleID != strongRole || out[1].RoleID != weakRole {
		t.Fatalf("expected results ordered by readiness descending")
	}
	if out[0].ReadinessPercentage != 100 || out[1].ReadinessPercentage != 0 {
		t.Fatalf("unexpected readiness values: %v, %v", out[0].ReadinessPercentage, out[1].ReadinessPercentage)
	}
}

func TestAlignment_SetTargetRole_UnknownRole(t *testing.T) {
	uc := NewAlignmentUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{roles: map[uuid.UUID]repository.CareerRole{}},
		&mockTargetRoleRepo{},
		nil,
		config.PolicyConfig{MatchingThreshold: 50},
	)

	if err := uc.SetTargetRole(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestAlignment_TargetRoleRoundTrip(t *testing.T) {
	roleID := uuid.New()
	userID := uuid.New()
	targetRoles := &mockTargetRoleRepo{}

	uc := NewAlignmentUsecase(
		&usMockUserSkillRepo{},
		mockRoleRepo{roles: map[uuid.UUID]repository.CareerRole{roleID: {ID: roleID, Title: "Platform Engineer"}}},
		targetRoles,
		nil,
		config.PolicyConfig{MatchingThreshold: 50},
	)

	if _, err := uc.GetTargetRole(context.Background(), userID); !errors.Is(err, ErrNoTargetRole) {
		t.Fatalf("expected ErrNoTargetRole before set, got %v", err)
	}
	if err := uc.SetTargetRole(context.Background(), userID, roleID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	role, err := uc.GetTargetRole(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if role.ID != roleID || role.Title != "Platform Engineer" {
		t.Fatalf("round trip returned wrong role")
	}
}
