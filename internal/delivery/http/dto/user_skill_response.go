package dto

import (
	"time"

	"skill-twin/internal/domain/skillgraph"

	"github.com/google/uuid"
)

type UserSkillResponse struct {
	SkillID      uuid.UUID `json:"skill_id"`
	SkillName    string    `json:"skill_name"`
	Category     string    `json:"category"`
	MasteryLevel int       `json:"mastery_level"`
	LastUpdated  time.Time `json:"last_updated"`
}

func NewUserSkillResponse(us skillgraph.UserSkill) UserSkillResponse {
	return UserSkillResponse{
		SkillID:      us.SkillID,
		SkillName:    us.SkillName,
		Category:     us.Category,
		MasteryLevel: us.MasteryLevel,
		LastUpdated:  us.LastUpdated,
	}
}

func NewUserSkillListResponse(items []skillgraph.UserSkill) []UserSkillResponse {
	out := make([]UserSkillResponse, 0, len(items))
	for _, us := range items {
		out = append(out, NewUserSkillResponse(us))
	}
	return out
}
