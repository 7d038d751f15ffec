package usecase

import (
	"context"
	"errors"

	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidMastery = errors.New("mastery level out of range")
	ErrSkillNotFound  = errors.New("skill not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// AnalyticsInvalidator drops a user's cached analytics products after any
// write that changes the underlying skill graph.
type AnalyticsInvalidator interface {
	InvalidateUserAnalytics(ctx context.Context, userID uuid.UUID) error
}

type UpsertUserSkillInput struct {
	SkillID      uuid.UUID
	MasteryLevel int
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skillgraph.UserSkill, error)
	UpsertUserSkill(ctx context.Context, userID uuid.UUID, in UpsertUserSkillInput) (skillgraph.UserSkill, error)
	RemoveUserSkill(ctx context.Context, userID, skillID uuid.UUID) error
}

type UserSkill struct {
	userSkills repository.UserSkillRepository
	skills     repository.SkillRepository
	cache      AnalyticsInvalidator
}

func NewUserSkillUsecase(
	userSkills repository.UserSkillRepository,
	skills repository.SkillRepository,
	cache AnalyticsInvalidator,
) *UserSkill {
	return &UserSkill{userSkills: userSkills, skills: skills, cache: cache}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]skillgraph.UserSkill, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// UpsertUserSkill validates before any write: an out-of-range mastery or an
// unknown skill leaves the stored row untouched.
func (u *UserSkill) UpsertUserSkill(ctx context.Context, userID uuid.UUID, in UpsertUserSkillInput) (skillgraph.UserSkill, error) {
	if userID == uuid.Nil {
		return skillgraph.UserSkill{}, ErrUnauthorized
	}
	if in.SkillID == uuid.Nil {
		return skillgraph.UserSkill{}, ErrInvalidInput
	}
	if !skillgraph.ValidMastery(in.MasteryLevel) {
		return skillgraph.UserSkill{}, ErrInvalidMastery
	}

	exists, err := u.skills.SkillExistsByID(ctx, in.SkillID)
	if err != nil {
		return skillgraph.UserSkill{}, ErrInternal
	}
	if !exists {
		return skillgraph.UserSkill{}, ErrSkillNotFound
	}

	us, err := u.userSkills.Upsert(ctx, userID, in.SkillID, in.MasteryLevel)
	if err != nil {
		if isForeignKeyViolation(err) {
			return skillgraph.UserSkill{}, ErrSkillNotFound
		}
		return skillgraph.UserSkill{}, ErrInternal
	}

	u.invalidate(ctx, userID)
	return us, nil
}

func (u *UserSkill) RemoveUserSkill(ctx context.Context, userID, skillID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if skillID == uuid.Nil {
		return ErrInvalidInput
	}

	if err := u.userSkills.Delete(ctx, userID, skillID); err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return ErrSkillNotFound
		}
		return ErrInternal
	}

	u.invalidate(ctx, userID)
	return nil
}

func (u *UserSkill) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.InvalidateUserAnalytics(ctx, userID)
}
