package usecase

import (
	"context"
	"math"
	"sort"

	"skill-twin/internal/config"
	"skill-twin/internal/domain/skillgraph"
	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/repository"

	"github.com/google/uuid"
)

type GraphNode struct {
	SkillID      uuid.UUID `json:"skill_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	MasteryLevel int       `json:"mastery_level"`
	Held         bool      `json:"held"`
}

type GraphLink struct {
	SourceID uuid.UUID `json:"source_id"`
	TargetID uuid.UUID `json:"target_id"`
	Kind     string    `json:"kind"`
}

type VisualizationResult struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

type CategorySummary struct {
	Category       string  `json:"category"`
	SkillCount     int     `json:"skill_count"`
	AverageMastery float64 `json:"average_mastery"`
	MasteredCount  int     `json:"mastered_count"`
}

type SkillHighlight struct {
	SkillID      uuid.UUID `json:"skill_id"`
	SkillName    string    `json:"skill_name"`
	MasteryLevel int       `json:"mastery_level"`
}

type TwinSummary struct {
	TotalSkills    int               `json:"total_skills"`
	AverageMastery float64           `json:"average_mastery"`
	TopSkills      []SkillHighlight  `json:"top_skills"`
	WeakestSkills  []SkillHighlight  `json:"weakest_skills"`
	Categories     []CategorySummary `json:"categories"`
}

type VisualizationUsecase interface {
	GetVisualization(ctx context.Context, userID uuid.UUID, heldOnly bool) (VisualizationResult, error)
	GetTwinSummary(ctx context.Context, userID uuid.UUID) (TwinSummary, error)
}

type Visualization struct {
	skills        repository.SkillRepository
	relationships repository.RelationshipRepository
	userSkills    repository.UserSkillRepository
	redis         *cache.Redis
	policy        config.PolicyConfig
}

func NewVisualizationUsecase(
	skills repository.SkillRepository,
	relationships repository.RelationshipRepository,
	userSkills repository.UserSkillRepository,
	redis *cache.Redis,
	policy config.PolicyConfig,
) *Visualization {
	return &Visualization{
		skills:        skills,
		relationships: relationships,
		userSkills:    userSkills,
		redis:         redis,
		policy:        policy,
	}
}

// GetVisualization projects the user's skill graph for rendering. Every
// node comes from the skill catalog, and a link is emitted only when both
// of its endpoints made it into the node set.
func (u *Visualization) GetVisualization(ctx context.Context, userID uuid.UUID, heldOnly bool) (VisualizationResult, error) {
	if userID == uuid.Nil {
		return VisualizationResult{}, ErrUnauthorized
	}

	key := cache.VisualizationKey(userID, heldOnly)
	var cached VisualizationResult
	if hit, err := u.redis.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	catalog, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return VisualizationResult{}, ErrInternal
	}
	held, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return VisualizationResult{}, ErrInternal
	}
	relationships, err := u.relationships.GetAll(ctx)
	if err != nil {
		return VisualizationResult{}, ErrInternal
	}

	mastery := make(map[uuid.UUID]int, len(held))
	for _, hs := range held {
		mastery[hs.SkillID] = hs.MasteryLevel
	}

	result := VisualizationResult{
		Nodes: make([]GraphNode, 0, len(catalog)),
		Links: make([]GraphLink, 0, len(relationships)),
	}
	present := make(map[uuid.UUID]bool, len(catalog))
	for _, s := range catalog {
		level, isHeld := mastery[s.ID]
		if heldOnly && !isHeld {
			continue
		}
		result.Nodes = append(result.Nodes, GraphNode{
			SkillID:      s.ID,
			Name:         s.Name,
			Category:     s.Category,
			MasteryLevel: level,
			Held:         isHeld,
		})
		present[s.ID] = true
	}
	for _, rel := range relationships {
		if !present[rel.SourceSkillID] || !present[rel.TargetSkillID] {
			continue
		}
		result.Links = append(result.Links, GraphLink{
			SourceID: rel.SourceSkillID,
			TargetID: rel.TargetSkillID,
			Kind:     string(rel.Kind),
		})
	}

	_ = u.redis.SetJSON(ctx, key, result, 0)
	return result, nil
}

func (u *Visualization) GetTwinSummary(ctx context.Context, userID uuid.UUID) (TwinSummary, error) {
	if userID == uuid.Nil {
		return TwinSummary{}, ErrUnauthorized
	}

	key := cache.SummaryKey(userID)
	var cached TwinSummary
	if hit, err := u.redis.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	held, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return TwinSummary{}, ErrInternal
	}

	summary := buildTwinSummary(held, u.policy.GapTargetMastery)
	_ = u.redis.SetJSON(ctx, key, summary, 0)
	return summary, nil
}

func buildTwinSummary(held []skillgraph.UserSkill, masteredFloor int) TwinSummary {
	summary := TwinSummary{
		TotalSkills:   len(held),
		TopSkills:     []SkillHighlight{},
		WeakestSkills: []SkillHighlight{},
		Categories:    []CategorySummary{},
	}
	if len(held) == 0 {
		return summary
	}

	sorted := make([]skillgraph.UserSkill, len(held))
	copy(sorted, held)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MasteryLevel != sorted[j].MasteryLevel {
			return sorted[i].MasteryLevel > sorted[j].MasteryLevel
		}
		return sorted[i].SkillName < sorted[j].SkillName
	})

	total := 0
	byCategory := map[string]*CategorySummary{}
	categoryTotals := map[string]int{}
	for _, hs := range sorted {
		total += hs.MasteryLevel
		cs, ok := byCategory[hs.Category]
		if !ok {
			cs = &CategorySummary{Category: hs.Category}
			byCategory[hs.Category] = cs
		}
		cs.SkillCount++
		categoryTotals[hs.Category] += hs.MasteryLevel
		if hs.MasteryLevel >= masteredFloor {
			cs.MasteredCount++
		}
	}
	summary.AverageMastery = round2(float64(total) / float64(len(sorted)))

	for i := 0; i < len(sorted) && i < 5; i++ {
		summary.TopSkills = append(summary.TopSkills, SkillHighlight{
			SkillID:      sorted[i].SkillID,
			SkillName:    sorted[i].SkillName,
			MasteryLevel: sorted[i].MasteryLevel,
		})
	}
	for i := len(sorted) - 1; i >= 0 && len(summary.WeakestSkills) < 5; i-- {
		summary.WeakestSkills = append(summary.WeakestSkills, SkillHighlight{
			SkillID:      sorted[i].SkillID,
			SkillName:    sorted[i].SkillName,
			MasteryLevel: sorted[i].MasteryLevel,
		})
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := byCategory[name]
		cs.AverageMastery = round2(float64(categoryTotals[name]) / float64(cs.SkillCount))
		summary.Categories = append(summary.Categories, *cs)
	}

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
