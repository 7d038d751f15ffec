package roadmap

import (
	"time"

	"github.com/google/uuid"
)

type ModuleStatus string

const (
	StatusNotStarted ModuleStatus = "not_started"
	StatusInProgress ModuleStatus = "in_progress"
	StatusCompleted  ModuleStatus = "completed"
)

type ResourceType string

const (
	TypeVideo   ResourceType = "video"
	TypeArticle ResourceType = "article"
	TypeCourse  ResourceType = "course"
)

func (t ResourceType) Valid() bool {
	switch t {
	case TypeVideo, TypeArticle, TypeCourse:
		return true
	}
	return false
}

type Resource struct {
	ID       uuid.UUID
	ModuleID uuid.UUID
	Title    string
	Type     ResourceType
	URL      string
	Position int
	Progress int
}

type Module struct {
	ID                   uuid.UUID
	RoadmapID            uuid.UUID
	Title                string
	Position             int
	Status               ModuleStatus
	CompletionPercentage float64
	TargetSkillIDs       []uuid.UUID
	Resources            []Resource
}

type Roadmap struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	IsActive           bool
	ProgressPercentage float64
	Modules            []Module
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
