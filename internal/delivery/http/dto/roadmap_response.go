package dto

import (
	"time"

	"skill-twin/internal/domain/roadmap"
	"skill-twin/internal/usecase"

	"github.com/google/uuid"
)

type ResourceResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
	Progress int       `json:"progress"`
}

type ModuleResponse struct {
	ID                   uuid.UUID          `json:"id"`
	Title                string             `json:"title"`
	Position             int                `json:"position"`
	Status               string             `json:"status"`
	CompletionPercentage float64            `json:"completion_percentage"`
	TargetSkillIDs       []uuid.UUID        `json:"target_skill_ids"`
	Resources            []ResourceResponse `json:"resources"`
}

type RoadmapResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Title              string           `json:"title"`
	IsActive           bool             `json:"is_active"`
	ProgressPercentage float64          `json:"progress_percentage"`
	Modules            []ModuleResponse `json:"modules"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type MasteryBoostResponse struct {
	SkillID      uuid.UUID `json:"skill_id"`
	MasteryLevel int       `json:"mastery_level"`
}

type ProgressUpdateResponse struct {
	ResourceID       uuid.UUID              `json:"resource_id"`
	Progress         int                    `json:"progress"`
	ModuleID         uuid.UUID              `json:"module_id"`
	ModuleStatus     string                 `json:"module_status"`
	ModuleCompletion float64                `json:"module_completion"`
	RoadmapID        uuid.UUID              `json:"roadmap_id"`
	RoadmapProgress  float64                `json:"roadmap_progress"`
	ModuleCompleted  bool                   `json:"module_completed"`
	BoostedSkills    []MasteryBoostResponse `json:"boosted_skills"`
}

type NextResourceResponse struct {
	ModuleID    uuid.UUID        `json:"module_id"`
	ModuleTitle string           `json:"module_title"`
	Resource    ResourceResponse `json:"resource"`
}

func NewRoadmapResponse(rm roadmap.Roadmap) RoadmapResponse {
	out := RoadmapResponse{
		ID:                 rm.ID,
		Title:              rm.Title,
		IsActive:           rm.IsActive,
		ProgressPercentage: rm.ProgressPercentage,
		Modules:            make([]ModuleResponse, 0, len(rm.Modules)),
		CreatedAt:          rm.CreatedAt,
		UpdatedAt:          rm.UpdatedAt,
	}
	for _, m := range rm.Modules {
		out.Modules = append(out.Modules, newModuleResponse(m))
	}
	return out
}

func NewRoadmapListResponse(items []roadmap.Roadmap) []RoadmapResponse {
	out := make([]RoadmapResponse, 0, len(items))
	for _, rm := range items {
		out = append(out, NewRoadmapResponse(rm))
	}
	return out
}

func NewProgressUpdateResponse(res usecase.ProgressUpdateResult) ProgressUpdateResponse {
	out := ProgressUpdateResponse{
		ResourceID:       res.ResourceID,
		Progress:         res.Progress,
		ModuleID:         res.ModuleID,
		ModuleStatus:     string(res.ModuleStatus),
		ModuleCompletion: res.ModuleCompletion,
		RoadmapID:        res.RoadmapID,
		RoadmapProgress:  res.RoadmapProgress,
		ModuleCompleted:  res.ModuleCompleted,
		BoostedSkills:    make([]MasteryBoostResponse, 0, len(res.BoostedSkills)),
	}
	for _, b := range res.BoostedSkills {
		out.BoostedSkills = append(out.BoostedSkills, MasteryBoostResponse{
			SkillID:      b.SkillID,
			MasteryLevel: b.MasteryLevel,
		})
	}
	return out
}

func NewNextResourceResponse(res usecase.NextResource) NextResourceResponse {
	return NextResourceResponse{
		ModuleID:    res.Module.ID,
		ModuleTitle: res.Module.Title,
		Resource:    newResourceResponse(res.Resource),
	}
}

func newModuleResponse(m roadmap.Module) ModuleResponse {
	out := ModuleResponse{
		ID:                   m.ID,
		Title:                m.Title,
		Position:             m.Position,
		Status:               string(m.Status),
		CompletionPercentage: m.CompletionPercentage,
		TargetSkillIDs:       m.TargetSkillIDs,
		Resources:            make([]ResourceResponse, 0, len(m.Resources)),
	}
	for _, res := range m.Resources {
		out.Resources = append(out.Resources, newResourceResponse(res))
	}
	return out
}

func newResourceResponse(res roadmap.Resource) ResourceResponse {
	return ResourceResponse{
		ID:       res.ID,
		Title:    res.Title,
		Type:     string(res.Type),
		URL:      res.URL,
		Position: res.Position,
		Progress: res.Progress,
	}
}
