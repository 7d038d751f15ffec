package usecase

import (
	"context"
	"errors"
	"strings"

	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

var ErrSkillAlreadyExists = errors.New("skill already exists")

type RoleWithRequirements struct {
	Role         repository.CareerRole
	Requirements []repository.RoleSkillRequirement
}

type CatalogUsecase interface {
	ListSkills(ctx context.Context) ([]skillgraph.Skill, error)
	ListRelationships(ctx context.Context) ([]skillgraph.Relationship, error)
	GetSkillRelationships(ctx context.Context, skillID uuid.UUID) ([]skillgraph.Relationship, error)
	CreateSkill(ctx context.Context, name, category string) (skillgraph.Skill, error)
	ListRoles(ctx context.Context) ([]RoleWithRequirements, error)
}

type Catalog struct {
	skills        repository.SkillRepository
	relationships repository.RelationshipRepository
	roles         repository.RoleRepository
}

func NewCatalogUsecase(
	skills repository.SkillRepository,
	relationships repository.RelationshipRepository,
	roles repository.RoleRepository,
) *Catalog {
	return &Catalog{skills: skills, relationships: relationships, roles: roles}
}

func (u *Catalog) ListSkills(ctx context.Context) ([]skillgraph.Skill, error) {
	skills, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return skills, nil
}

func (u *Catalog) ListRelationships(ctx context.Context) ([]skillgraph.Relationship, error) {
	rels, err := u.relationships.GetAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return rels, nil
}

// GetSkillRelationships returns every relationship touching the skill, in
// either direction.
func (u *Catalog) GetSkillRelationships(ctx context.Context, skillID uuid.UUID) ([]skillgraph.Relationship, error) {
	if skillID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	exists, err := u.skills.SkillExistsByID(ctx, skillID)
	if err != nil {
		return nil, ErrInternal
	}
	if !exists {
		return nil, ErrSkillNotFound
	}

	rels, err := u.relationships.FindBySkillID(ctx, skillID)
	if err != nil {
		return nil, ErrInternal
	}
	return rels, nil
}

func (u *Catalog) CreateSkill(ctx context.Context, name, category string) (skillgraph.Skill, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return skillgraph.Skill{}, ErrInvalidInput
	}

	s, err := u.skills.CreateSkill(ctx, name, category)
	if err != nil {
		if isUniqueViolation(err) {
			return skillgraph.Skill{}, ErrSkillAlreadyExists
		}
		return skillgraph.Skill{}, ErrInternal
	}
	return s, nil
}

func (u *Catalog) ListRoles(ctx context.Context) ([]RoleWithRequirements, error) {
	roles, err := u.roles.ListRoles(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	ids := make([]uuid.UUID, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
	}
	reqsByRole, err := u.roles.FindRequirementsByRoleIDs(ctx, ids)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]RoleWithRequirements, 0, len(roles))
	for _, role := range roles {
		out = append(out, RoleWithRequirements{
			Role:         role,
			Requirements: reqsByRole[role.ID],
		})
	}
	return out, nil
}
