package usecase

import (
	"context"
	"errors"

	"skill-twin/internal/config"
	"skill-twin/internal/domain/gap"
	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrNoTargetRole     = errors.New("no target role set")
	ErrNoTargetsGiven   = errors.New("no target skills given")
	ErrInvalidTargetSet = errors.New("invalid target skill set")
)

type ExplicitTarget struct {
	SkillID       uuid.UUID
	TargetMastery int
}

type GapAnalysisResult struct {
	RoleID      uuid.UUID
	RoleTitle   string
	TotalSkills int
	Skills      []gap.SkillGap
	GapScore    float64
}

type GapAnalysisUsecase interface {
	// AnalyzeForRole runs gap analysis against a role. A nil roleID falls
	// back to the user's stored target role.
	AnalyzeForRole(ctx context.Context, userID uuid.UUID, roleID uuid.UUID) (GapAnalysisResult, error)
	AnalyzeForTargets(ctx context.Context, userID uuid.UUID, targets []ExplicitTarget) (GapAnalysisResult, error)
}

type GapAnalysis struct {
	userSkills  repository.UserSkillRepository
	roles       repository.RoleRepository
	targetRoles repository.TargetRoleRepository
	skills      repository.SkillRepository
	redis       *cache.Redis
	policy      config.PolicyConfig
}

func NewGapAnalysisUsecase(
	userSkills repository.UserSkillRepository,
	roles repository.RoleRepository,
	targetRoles repository.TargetRoleRepository,
	skills repository.SkillRepository,
	redis *cache.Redis,
	policy config.PolicyConfig,
) *GapAnalysis {
	return &GapAnalysis{
		userSkills:  userSkills,
		roles:       roles,
		targetRoles: targetRoles,
		skills:      skills,
		redis:       redis,
		policy:      policy,
	}
}

func (u *GapAnalysis) AnalyzeForRole(ctx context.Context, userID uuid.UUID, roleID uuid.UUID) (GapAnalysisResult, error) {
	if userID == uuid.Nil {
		return GapAnalysisResult{}, ErrUnauthorized
	}

	if roleID == uuid.Nil {
		stored, err := u.targetRoles.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrTargetRoleNotSet) {
				return GapAnalysisResult{}, ErrNoTargetRole
			}
			return GapAnalysisResult{}, ErrInternal
		}
		roleID = stored
	}

	// Role existence gates the cache: a deleted role must surface as not
	// found immediately, not keep serving a stale cached analysis.
	role, err := u.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return GapAnalysisResult{}, ErrRoleNotFound
		}
		return GapAnalysisResult{}, ErrInternal
	}

	key := cache.GapKey(userID, roleID)
	var cached GapAnalysisResult
	if hit, err := u.redis.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	reqs, err := u.roles.FindRequirements(ctx, roleID)
	if err != nil {
		return GapAnalysisResult{}, ErrInternal
	}

	// Role requirements carry no explicit target mastery; presence of a
	// requirement implies the configured proficiency bar.
	targets := make([]gap.Target, 0, len(reqs))
	for _, rq := range reqs {
		targets = append(targets, gap.Target{
			SkillID:       rq.SkillID,
			SkillName:     rq.SkillName,
			TargetMastery: u.policy.GapTargetMastery,
			Weight:        rq.Weight,
		})
	}

	res, err := u.analyze(ctx, userID, targets)
	if err != nil {
		return GapAnalysisResult{}, err
	}
	res.RoleID = role.ID
	res.RoleTitle = role.Title
	_ = u.redis.SetJSON(ctx, key, res, 0)
	return res, nil
}

func (u *GapAnalysis) AnalyzeForTargets(ctx context.Context, userID uuid.UUID, explicit []ExplicitTarget) (GapAnalysisResult, error) {
	if userID == uuid.Nil {
		return GapAnalysisResult{}, ErrUnauthorized
	}
	if len(explicit) == 0 {
		return GapAnalysisResult{}, ErrNoTargetsGiven
	}

	catalog, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return GapAnalysisResult{}, ErrInternal
	}
	names := make(map[uuid.UUID]string, len(catalog))
	for _, s := range catalog {
		names[s.ID] = s.Name
	}

	targets := make([]gap.Target, 0, len(explicit))
	for _, t := range explicit {
		if t.SkillID == uuid.Nil || t.TargetMastery < 0 || t.TargetMastery > 100 {
			return GapAnalysisResult{}, ErrInvalidTargetSet
		}
		name, ok := names[t.SkillID]
		if !ok {
			return GapAnalysisResult{}, ErrSkillNotFound
		}
		targets = append(targets, gap.Target{
			SkillID:       t.SkillID,
			SkillName:     name,
			TargetMastery: t.TargetMastery,
			Weight:        1,
		})
	}

	return u.analyze(ctx, userID, targets)
}

func (u *GapAnalysis) analyze(ctx context.Context, userID uuid.UUID, targets []gap.Target) (GapAnalysisResult, error) {
	held, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return GapAnalysisResult{}, ErrInternal
	}

	current := make([]gap.UserSkill, 0, len(held))
	for _, us := range held {
		current = append(current, gap.UserSkill{SkillID: us.SkillID, MasteryLevel: us.MasteryLevel})
	}

	res := gap.Analyze(current, targets)
	return GapAnalysisResult{
		TotalSkills: res.TotalSkills,
		Skills:      res.Skills,
		GapScore:    res.GapScore,
	}, nil
}
