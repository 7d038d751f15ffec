package usecase

import (
	"context"
	"errors"
	"sort"

	"skill-twin/internal/config"
	"skill-twin/internal/domain/alignment"
	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

var ErrEmptyRoleRequirements = errors.New("role has no skill requirements")

type AlignmentResult struct {
	RoleID              uuid.UUID
	RoleTitle           string
	RoleLevel           string
	Matching            []alignment.SkillMatch
	Missing             []alignment.SkillMatch
	ReadinessPercentage float64
}

type AlignmentUsecase interface {
	GetAlignment(ctx context.Context, userID, roleID uuid.UUID) (AlignmentResult, error)
	// GetRecommendations ranks every role in the catalog by readiness,
	// descending. Roles without requirements are skipped: their readiness
	// is undefined.
	GetRecommendations(ctx context.Context, userID uuid.UUID) ([]AlignmentResult, error)
	SetTargetRole(ctx context.Context, userID, roleID uuid.UUID) error
	GetTargetRole(ctx context.Context, userID uuid.UUID) (repository.CareerRole, error)
}

type Alignment struct {
	userSkills  repository.UserSkillRepository
	roles       repository.RoleRepository
	targetRoles repository.TargetRoleRepository
	redis       *cache.Redis
	policy      config.PolicyConfig
}

func NewAlignmentUsecase(
	userSkills repository.UserSkillRepository,
	roles repository.RoleRepository,
	targetRoles repository.TargetRoleRepository,
	redis *cache.Redis,
	policy config.PolicyConfig,
) *Alignment {
	return &Alignment{userSkills: userSkills, roles: roles, targetRoles: targetRoles, redis: redis, policy: policy}
}

func (u *Alignment) GetAlignment(ctx context.Context, userID, roleID uuid.UUID) (AlignmentResult, error) {
	if userID == uuid.Nil {
		return AlignmentResult{}, ErrUnauthorized
	}
	if roleID == uuid.Nil {
		return AlignmentResult{}, ErrRoleNotFound
	}

	role, err := u.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return AlignmentResult{}, ErrRoleNotFound
		}
		return AlignmentResult{}, ErrInternal
	}

	reqs, err := u.roles.FindRequirements(ctx, roleID)
	if err != nil {
		return AlignmentResult{}, ErrInternal
	}
	if len(reqs) == 0 {
		return AlignmentResult{}, ErrEmptyRoleRequirements
	}

	held, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return AlignmentResult{}, ErrInternal
	}

	res := alignment.Align(toAlignmentSkills(held), toAlignmentReqs(reqs), u.policy.MatchingThreshold)
	return AlignmentResult{
		RoleID:              role.ID,
		RoleTitle:           role.Title,
		RoleLevel:           role.Level,
		Matching:            res.Matching,
		Missing:             res.Missing,
		ReadinessPercentage: res.ReadinessPercentage,
	}, nil
}

func (u *Alignment) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]AlignmentResult, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	key := cache.RecommendationsKey(userID)
	var cached []AlignmentResult
	if hit, err := u.redis.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	roles, err := u.roles.ListRoles(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	roleIDs := make([]uuid.UUID, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}

	reqsByRole, err := u.roles.FindRequirementsByRoleIDs(ctx, roleIDs)
	if err != nil {
		return nil, ErrInternal
	}

	held, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	skills := toAlignmentSkills(held)

	out := make([]AlignmentResult, 0, len(roles))
	for _, role := range roles {
		reqs := reqsByRole[role.ID]
		if len(reqs) == 0 {
			continue
		}
		res := alignment.Align(skills, toAlignmentReqs(reqs), u.policy.MatchingThreshold)
		out = append(out, AlignmentResult{
			RoleID:              role.ID,
			RoleTitle:           role.Title,
			RoleLevel:           role.Level,
			Matching:            res.Matching,
			Missing:             res.Missing,
			ReadinessPercentage: res.ReadinessPercentage,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReadinessPercentage > out[j].ReadinessPercentage
	})
	_ = u.redis.SetJSON(ctx, key, out, 0)
	return out, nil
}

func (u *Alignment) SetTargetRole(ctx context.Context, userID, roleID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if roleID == uuid.Nil {
		return ErrInvalidInput
	}

	if _, err := u.roles.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return ErrRoleNotFound
		}
		return ErrInternal
	}

	if err := u.targetRoles.Set(ctx, userID, roleID); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *Alignment) GetTargetRole(ctx context.Context, userID uuid.UUID) (repository.CareerRole, error) {
	if userID == uuid.Nil {
		return repository.CareerRole{}, ErrUnauthorized
	}

	roleID, err := u.targetRoles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTargetRoleNotSet) {
			return repository.CareerRole{}, ErrNoTargetRole
		}
		return repository.CareerRole{}, ErrInternal
	}

	role, err := u.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return repository.CareerRole{}, ErrRoleNotFound
		}
		return repository.CareerRole{}, ErrInternal
	}
	return role, nil
}

func toAlignmentSkills(held []skillgraph.UserSkill) []alignment.UserSkill {
	out := make([]alignment.UserSkill, 0, len(held))
	for _, us := range held {
		out = append(out, alignment.UserSkill{SkillID: us.SkillID, MasteryLevel: us.MasteryLevel})
	}
	return out
}

func toAlignmentReqs(reqs []repository.RoleSkillRequirement) []alignment.Requirement {
	out := make([]alignment.Requirement, 0, len(reqs))
	for _, rq := range reqs {
		out = append(out, alignment.Requirement{
			SkillID:   rq.SkillID,
			SkillName: rq.SkillName,
			Weight:    rq.Weight,
		})
	}
	return out
}
