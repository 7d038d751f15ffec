package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type catMockSkillRepo struct {
	usMockSkillRepo
	createErr error
	created   []string
}

func (m *catMockSkillRepo) CreateSkill(_ context.Context, name, category string) (skillgraph.Skill, error) {
	if m.createErr != nil {
		return skillgraph.Skill{}, m.createErr
	}
	m.created = append(m.created, name)
	return skillgraph.Skill{ID: uuid.New(), Name: name, Category: category}, nil
}

func TestCatalog_CreateSkill_TrimsInput(t *testing.T) {
	repo := &catMockSkillRepo{}
	uc := NewCatalogUsecase(repo, usMockRelationshipRepo{}, mockRoleRepo{})

	s, err := uc.CreateSkill(context.Background(), "  Go  ", " Programming Language ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Name != "Go" || s.Category != "Programming Language" {
		t.Fatalf("input must be trimmed before persisting: %+v", s)
	}
}

func TestCatalog_CreateSkill_BlankInput(t *testing.T) {
	repo := &catMockSkillRepo{}
	uc := NewCatalogUsecase(repo, usMockRelationshipRepo{}, mockRoleRepo{})

	if _, err := uc.CreateSkill(context.Background(), "   ", "DevOps"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("blank input must not reach the repository")
	}
}

func TestCatalog_CreateSkill_Duplicate(t *testing.T) {
	repo := &catMockSkillRepo{createErr: &pgconn.PgError{Code: "23505"}}
	uc := NewCatalogUsecase(repo, usMockRelationshipRepo{}, mockRoleRepo{})

	if _, err := uc.CreateSkill(context.Background(), "Go", "Programming Language"); !errors.Is(err, ErrSkillAlreadyExists) {
		t.Fatalf("expected ErrSkillAlreadyExists, got %v", err)
	}
}

func TestCatalog_GetSkillRelationships(t *testing.T) {
	skillID := uuid.New()
	rels := []skillgraph.Relationship{
		{SourceSkillID: skillID, TargetSkillID: uuid.New(), Kind: "prerequisite"},
		{SourceSkillID: uuid.New(), TargetSkillID: skillID, Kind: "related"},
	}
	uc := NewCatalogUsecase(&catMockSkillRepo{usMockSkillRepo: usMockSkillRepo{exists: true}}, usMockRelationshipRepo{rels: rels}, mockRoleRepo{})

	out, err := uc.GetSkillRelationships(context.Background(), skillID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected relationships in both directions, got %d", len(out))
	}

	missing := NewCatalogUsecase(&catMockSkillRepo{}, usMockRelationshipRepo{}, mockRoleRepo{})
	if _, err := missing.GetSkillRelationships(context.Background(), uuid.New()); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}

func TestCatalog_ListRoles_AttachesRequirements(t *testing.T) {
	roleID := uuid.New()
	bare := uuid.New()
	uc := NewCatalogUsecase(&catMockSkillRepo{}, usMockRelationshipRepo{}, mockRoleRepo{
		roles: map[uuid.UUID]repository.CareerRole{
			roleID: {ID: roleID, Title: "Backend Engineer"},
			bare:   {ID: bare, Title: "New Role"},
		},
		reqs: map[uuid.UUID][]repository.RoleSkillRequirement{
			roleID: {{RoleID: roleID, SkillName: "Go", Weight: 1}},
		},
	})

	out, err := uc.ListRoles(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected both roles, got %d", len(out))
	}
	for _, r := range out {
		switch r.Role.ID {
		case roleID:
			if len(r.Requirements) != 1 || r.Requirements[0].SkillName != "Go" {
				t.Fatalf("requirements not attached: %+v", r)
			}
		case bare:
			if len(r.Requirements) != 0 {
				t.Fatalf("role without requirements must come back empty: %+v", r)
			}
		}
	}
}
