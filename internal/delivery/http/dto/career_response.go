package dto

import (
	"skill-twin/internal/domain/alignment"
	"skill-twin/internal/repository"
	"skill-twin/internal/usecase"

	"github.com/google/uuid"
)

type RoleRequirementResponse struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Weight    float64   `json:"weight"`
}

type CareerRoleResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Title        string                    `json:"title"`
	Level        string                    `json:"level"`
	Requirements []RoleRequirementResponse `json:"requirements,omitempty"`
}

type SkillMatchResponse struct {
	SkillID      uuid.UUID `json:"skill_id"`
	SkillName    string    `json:"skill_name"`
	MasteryLevel int       `json:"mastery_level"`
	Weight       float64   `json:"weight"`
}

type AlignmentResponse struct {
	RoleID              uuid.UUID            `json:"role_id"`
	RoleTitle           string               `json:"role_title"`
	RoleLevel           string               `json:"role_level"`
	Matching            []SkillMatchResponse `json:"matching_skills"`
	Missing             []SkillMatchResponse `json:"missing_skills"`
	ReadinessPercentage float64              `json:"readiness_percentage"`
}

func NewCareerRoleResponse(role repository.CareerRole, reqs []repository.RoleSkillRequirement) CareerRoleResponse {
	out := CareerRoleResponse{ID: role.ID, Title: role.Title, Level: role.Level}
	for _, rq := range reqs {
		out.Requirements = append(out.Requirements, RoleRequirementResponse{
			SkillID:   rq.SkillID,
			SkillName: rq.SkillName,
			Weight:    rq.Weight,
		})
	}
	return out
}

func NewAlignmentResponse(res usecase.AlignmentResult) AlignmentResponse {
	return AlignmentResponse{
		RoleID:              res.RoleID,
		RoleTitle:           res.RoleTitle,
		RoleLevel:           res.RoleLevel,
		Matching:            newSkillMatchResponses(res.Matching),
		Missing:             newSkillMatchResponses(res.Missing),
		ReadinessPercentage: res.ReadinessPercentage,
	}
}

func NewAlignmentListResponse(items []usecase.AlignmentResult) []AlignmentResponse {
	out := make([]AlignmentResponse, 0, len(items))
	for _, res := range items {
		out = append(out, NewAlignmentResponse(res))
	}
	return out
}

func newSkillMatchResponses(matches []alignment.SkillMatch) []SkillMatchResponse {
	out := make([]SkillMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, SkillMatchResponse{
			SkillID:      m.SkillID,
			SkillName:    m.SkillName,
			MasteryLevel: m.MasteryLevel,
			Weight:       m.Weight,
		})
	}
	return out
}
