package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type RoadmapProgressEvent struct {
	Type            string  `json:"type"`
	RoadmapID       string  `json:"roadmap_id"`
	ModuleID        string  `json:"module_id"`
	ModuleStatus    string  `json:"module_status"`
	RoadmapProgress float64 `json:"roadmap_progress"`
	Timestamp       string  `json:"timestamp"`
}

type MasteryBoostEvent struct {
	Type         string `json:"type"`
	SkillID      string `json:"skill_id"`
	MasteryLevel int    `json:"mastery_level"`
	Timestamp    string `json:"timestamp"`
}

type AssessmentCompletedEvent struct {
	Type         string  `json:"type"`
	AssessmentID string  `json:"assessment_id"`
	OverallScore float64 `json:"overall_score"`
	Passed       bool    `json:"passed"`
	Timestamp    string  `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifyRoadmapProgress(userID, roadmapID, moduleID uuid.UUID, moduleStatus string, roadmapProgress float64) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := RoadmapProgressEvent{
		Type:            "roadmap_progress",
		RoadmapID:       roadmapID.String(),
		ModuleID:        moduleID.String(),
		ModuleStatus:    moduleStatus,
		RoadmapProgress: roadmapProgress,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(userID, b)
}

func NotifyAssessmentCompleted(userID, assessmentID uuid.UUID, overallScore float64, passed bool) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := AssessmentCompletedEvent{
		Type:         "assessment_completed",
		AssessmentID: assessmentID.String(),
		OverallScore: overallScore,
		Passed:       passed,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(userID, b)
}

func NotifyMasteryBoost(userID, skillID uuid.UUID, masteryLevel int) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := MasteryBoostEvent{
		Type:         "mastery_boost",
		SkillID:      skillID.String(),
		MasteryLevel: masteryLevel,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(userID, b)
}
