package dto

import (
	"time"

	"skill-twin/internal/domain/skillgraph"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type RelationshipResponse struct {
	SourceSkillID uuid.UUID `json:"source_skill_id"`
	TargetSkillID uuid.UUID `json:"target_skill_id"`
	Kind          string    `json:"kind"`
}

type SkillCatalogResponse struct {
	Skills        []SkillResponse        `json:"skills"`
	Relationships []RelationshipResponse `json:"relationships"`
}

func NewSkillResponse(s skillgraph.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, Name: s.Name, Category: s.Category, CreatedAt: s.CreatedAt}
}

func NewRelationshipListResponse(rels []skillgraph.Relationship) []RelationshipResponse {
	out := make([]RelationshipResponse, 0, len(rels))
	for _, rel := range rels {
		out = append(out, RelationshipResponse{
			SourceSkillID: rel.SourceSkillID,
			TargetSkillID: rel.TargetSkillID,
			Kind:          string(rel.Kind),
		})
	}
	return out
}

func NewSkillCatalogResponse(skills []skillgraph.Skill, rels []skillgraph.Relationship) SkillCatalogResponse {
	out := SkillCatalogResponse{
		Skills:        make([]SkillResponse, 0, len(skills)),
		Relationships: make([]RelationshipResponse, 0, len(rels)),
	}
	for _, s := range skills {
		out.Skills = append(out.Skills, NewSkillResponse(s))
	}
	for _, rel := range rels {
		out.Relationships = append(out.Relationships, RelationshipResponse{
			SourceSkillID: rel.SourceSkillID,
			TargetSkillID: rel.TargetSkillID,
			Kind:          string(rel.Kind),
		})
	}
	return out
}
