package dto

import (
	"skill-twin/internal/usecase"

	"github.com/google/uuid"
)

type SkillGapResponse struct {
	SkillID        uuid.UUID `json:"skill_id"`
	SkillName      string    `json:"skill_name"`
	CurrentMastery int       `json:"current_mastery"`
	TargetMastery  int       `json:"target_mastery"`
	Gap            int       `json:"gap"`
	Priority       string    `json:"priority"`
}

type GapAnalysisResponse struct {
	RoleID      *uuid.UUID         `json:"role_id,omitempty"`
	RoleTitle   string             `json:"role_title,omitempty"`
	TotalSkills int                `json:"total_skills"`
	Skills      []SkillGapResponse `json:"skills"`
	GapScore    float64            `json:"gap_score"`
}

func NewGapAnalysisResponse(res usecase.GapAnalysisResult) GapAnalysisResponse {
	out := GapAnalysisResponse{
		RoleTitle:   res.RoleTitle,
		TotalSkills: res.TotalSkills,
		Skills:      make([]SkillGapResponse, 0, len(res.Skills)),
		GapScore:    res.GapScore,
	}
	if res.RoleID != uuid.Nil {
		roleID := res.RoleID
		out.RoleID = &roleID
	}
	for _, sg := range res.Skills {
		out.Skills = append(out.Skills, SkillGapResponse{
			SkillID:        sg.SkillID,
			SkillName:      sg.SkillName,
			CurrentMastery: sg.CurrentLevel,
			TargetMastery:  sg.TargetMastery,
			Gap:            sg.Gap,
			Priority:       string(sg.Priority),
		})
	}
	return out
}
