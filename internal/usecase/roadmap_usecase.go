package usecase

import (
	"context"
	"errors"

	"skill-twin/internal/config"
	"skill-twin/internal/database"
	"skill-twin/internal/domain/roadmap"
	"skill-twin/internal/repository"
	"skill-twin/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrRoadmapNotFound    = errors.New("roadmap not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrRegressiveProgress = errors.New("progress lower than current value")
	ErrInvalidProgress    = errors.New("progress out of range")
	ErrEmptyRoadmap       = errors.New("roadmap has no modules")
	ErrRoadmapComplete    = errors.New("roadmap already complete")
)

type GeneratedResource struct {
	Title string
	Type  roadmap.ResourceType
	URL   string
}

// GeneratedModule is what the content-generation collaborator hands over at
// roadmap creation: titles, resources, and the skills the module targets.
// The engine owns ids, ordering, and initial state.
type GeneratedModule struct {
	Title          string
	TargetSkillIDs []uuid.UUID
	Resources      []GeneratedResource
}

type CreateRoadmapInput struct {
	Title    string
	Activate bool
	Modules  []GeneratedModule
}

type MasteryBoost struct {
	SkillID      uuid.UUID
	MasteryLevel int
}

type ProgressUpdateResult struct {
	ResourceID       uuid.UUID
	Progress         int
	ModuleID         uuid.UUID
	ModuleStatus     roadmap.ModuleStatus
	ModuleCompletion float64
	RoadmapID        uuid.UUID
	RoadmapProgress  float64
	ModuleCompleted  bool
	BoostedSkills    []MasteryBoost
}

type NextResource struct {
	Module   roadmap.Module
	Resource roadmap.Resource
}

type RoadmapUsecase interface {
	CreateRoadmap(ctx context.Context, userID uuid.UUID, in CreateRoadmapInput) (roadmap.Roadmap, error)
	ListRoadmaps(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]roadmap.Roadmap, error)
	GetRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) (roadmap.Roadmap, error)
	DeleteRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) error
	UpdateResourceProgress(ctx context.Context, userID, resourceID uuid.UUID, progress int) (ProgressUpdateResult, error)
	GetNextResource(ctx context.Context, userID, roadmapID uuid.UUID) (NextResource, error)
}

type Roadmap struct {
	db         database.DB
	roadmaps   repository.RoadmapRepository
	userSkills repository.UserSkillRepository
	skills     repository.SkillRepository
	cache      AnalyticsInvalidator
	policy     config.PolicyConfig
}

func NewRoadmapUsecase(
	db database.DB,
	roadmaps repository.RoadmapRepository,
	userSkills repository.UserSkillRepository,
	skills repository.SkillRepository,
	cache AnalyticsInvalidator,
	policy config.PolicyConfig,
) *Roadmap {
	return &Roadmap{
		db:         db,
		roadmaps:   roadmaps,
		userSkills: userSkills,
		skills:     skills,
		cache:      cache,
		policy:     policy,
	}
}

func (u *Roadmap) CreateRoadmap(ctx context.Context, userID uuid.UUID, in CreateRoadmapInput) (roadmap.Roadmap, error) {
	if userID == uuid.Nil {
		return roadmap.Roadmap{}, ErrUnauthorized
	}
	if in.Title == "" || len(in.Modules) == 0 {
		return roadmap.Roadmap{}, ErrInvalidInput
	}

	seen := map[uuid.UUID]bool{}
	for _, m := range in.Modules {
		if m.Title == "" || len(m.Resources) == 0 {
			return roadmap.Roadmap{}, ErrInvalidInput
		}
		for _, res := range m.Resources {
			if res.Title == "" || !res.Type.Valid() {
				return roadmap.Roadmap{}, ErrInvalidInput
			}
		}
		for _, skillID := range m.TargetSkillIDs {
			if skillID == uuid.Nil {
				return roadmap.Roadmap{}, ErrInvalidInput
			}
			if seen[skillID] {
				continue
			}
			exists, err := u.skills.SkillExistsByID(ctx, skillID)
			if err != nil {
				return roadmap.Roadmap{}, ErrInternal
			}
			if !exists {
				return roadmap.Roadmap{}, ErrSkillNotFound
			}
			seen[skillID] = true
		}
	}

	rm := roadmap.Roadmap{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    in.Title,
		IsActive: in.Activate,
	}
	for i, m := range in.Modules {
		module := roadmap.Module{
			ID:             uuid.New(),
			RoadmapID:      rm.ID,
			Title:          m.Title,
			Position:       i,
			Status:         roadmap.StatusNotStarted,
			TargetSkillIDs: m.TargetSkillIDs,
		}
		for j, res := range m.Resources {
			module.Resources = append(module.Resources, roadmap.Resource{
				ID:       uuid.New(),
				ModuleID: module.ID,
				Title:    res.Title,
				Type:     res.Type,
				URL:      res.URL,
				Position: j,
			})
		}
		rm.Modules = append(rm.Modules, module)
	}

	if err := u.roadmaps.Create(ctx, rm); err != nil {
		return roadmap.Roadmap{}, ErrInternal
	}

	created, err := u.roadmaps.FindByID(ctx, rm.ID, userID)
	if err != nil {
		return roadmap.Roadmap{}, ErrInternal
	}
	return created, nil
}

func (u *Roadmap) ListRoadmaps(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]roadmap.Roadmap, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.roadmaps.FindByUserID(ctx, userID, activeOnly)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Roadmap) GetRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) (roadmap.Roadmap, error) {
	if userID == uuid.Nil {
		return roadmap.Roadmap{}, ErrUnauthorized
	}
	if roadmapID == uuid.Nil {
		return roadmap.Roadmap{}, ErrRoadmapNotFound
	}

	rm, err := u.roadmaps.FindByID(ctx, roadmapID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRoadmapNotFound) {
			return roadmap.Roadmap{}, ErrRoadmapNotFound
		}
		return roadmap.Roadmap{}, ErrInternal
	}
	return rm, nil
}

func (u *Roadmap) DeleteRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if roadmapID == uuid.Nil {
		return ErrRoadmapNotFound
	}

	if err := u.roadmaps.Delete(ctx, roadmapID, userID); err != nil {
		if errors.Is(err, repository.ErrRoadmapNotFound) {
			return ErrRoadmapNotFound
		}
		return ErrInternal
	}
	return nil
}

// UpdateResourceProgress is the single mutation path for roadmap state.
// Resource write, module and roadmap recomputation, and any completion
// boosts all commit in one transaction, so no caller can observe a module
// completion whose aggregates or mastery side effects are missing.
func (u *Roadmap) UpdateResourceProgress(ctx context.Context, userID, resourceID uuid.UUID, progress int) (ProgressUpdateResult, error) {
	if userID == uuid.Nil {
		return ProgressUpdateResult{}, ErrUnauthorized
	}
	if resourceID == uuid.Nil {
		return ProgressUpdateResult{}, ErrResourceNotFound
	}
	if !roadmap.ValidProgress(progress) {
		return ProgressUpdateResult{}, ErrInvalidProgress
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return ProgressUpdateResult{}, ErrInternal
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	rc, err := u.roadmaps.LockResourceContext(ctx, tx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return ProgressUpdateResult{}, ErrResourceNotFound
		}
		return ProgressUpdateResult{}, ErrInternal
	}
	if rc.OwnerID != userID {
		return ProgressUpdateResult{}, ErrResourceNotFound
	}
	if progress < rc.Progress {
		return ProgressUpdateResult{}, ErrRegressiveProgress
	}

	if err := u.roadmaps.SetResourceProgress(ctx, tx, resourceID, progress); err != nil {
		return ProgressUpdateResult{}, ErrInternal
	}

	completion, status, err := u.roadmaps.RecomputeModule(ctx, tx, rc.ModuleID)
	if err != nil {
		return ProgressUpdateResult{}, ErrInternal
	}

	roadmapProgress, err := u.roadmaps.RecomputeRoadmap(ctx, tx, rc.RoadmapID)
	if err != nil {
		return ProgressUpdateResult{}, ErrInternal
	}

	result := ProgressUpdateResult{
		ResourceID:       resourceID,
		Progress:         progress,
		ModuleID:         rc.ModuleID,
		ModuleStatus:     status,
		ModuleCompletion: completion,
		RoadmapID:        rc.RoadmapID,
		RoadmapProgress:  roadmapProgress,
		ModuleCompleted:  status == roadmap.StatusCompleted && rc.ModuleStatus != roadmap.StatusCompleted,
	}

	// The boost is at-most-once per (module, skill): the claim is a
	// compare-and-set on boost_applied inside this transaction, so a retry
	// or a concurrent completion of the same module cannot double-boost.
	if status == roadmap.StatusCompleted {
		skillIDs, err := u.roadmaps.ModuleTargetSkills(ctx, tx, rc.ModuleID)
		if err != nil {
			return ProgressUpdateResult{}, ErrInternal
		}
		for _, skillID := range skillIDs {
			claimed, err := u.roadmaps.ClaimBoost(ctx, tx, rc.ModuleID, skillID)
			if err != nil {
				return ProgressUpdateResult{}, ErrInternal
			}
			if !claimed {
				continue
			}
			mastery, err := u.userSkills.ApplyMasteryBoost(ctx, tx, userID, skillID, u.policy.CompletionBoost)
			if err != nil {
				return ProgressUpdateResult{}, ErrInternal
			}
			result.BoostedSkills = append(result.BoostedSkills, MasteryBoost{SkillID: skillID, MasteryLevel: mastery})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ProgressUpdateResult{}, ErrInternal
	}

	if len(result.BoostedSkills) > 0 {
		u.invalidate(ctx, userID)
	}
	ws.NotifyRoadmapProgress(userID, rc.RoadmapID, rc.ModuleID, string(status), roadmapProgress)
	for _, b := range result.BoostedSkills {
		ws.NotifyMasteryBoost(userID, b.SkillID, b.MasteryLevel)
	}

	return result, nil
}

// GetNextResource walks modules and resources in order and returns the
// first incomplete resource of the first incomplete module.
func (u *Roadmap) GetNextResource(ctx context.Context, userID, roadmapID uuid.UUID) (NextResource, error) {
	rm, err := u.GetRoadmap(ctx, userID, roadmapID)
	if err != nil {
		return NextResource{}, err
	}
	if len(rm.Modules) == 0 {
		return NextResource{}, ErrEmptyRoadmap
	}

	for _, m := range rm.Modules {
		if m.Status == roadmap.StatusCompleted {
			continue
		}
		for _, res := range m.Resources {
			if res.Progress < 100 {
				return NextResource{Module: m, Resource: res}, nil
			}
		}
	}
	return NextResource{}, ErrRoadmapComplete
}

func (u *Roadmap) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.InvalidateUserAnalytics(ctx, userID)
}
