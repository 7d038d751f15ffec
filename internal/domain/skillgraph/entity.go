package skillgraph

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipKind is the closed set of typed edges between catalog skills.
type RelationshipKind string

const (
	KindPrerequisite RelationshipKind = "prerequisite"
	KindRelated      RelationshipKind = "related"
	KindSubsetOf     RelationshipKind = "subset_of"
)

func (k RelationshipKind) Valid() bool {
	switch k {
	case KindPrerequisite, KindRelated, KindSubsetOf:
		return true
	}
	return false
}

// Skill is a catalog entry: global reference data, no owner.
type Skill struct {
	ID        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}

// Relationship is a directed edge between two catalog skills. The
// relationship set is a directed graph; cycles are allowed, self-loops are
// not.
type Relationship struct {
	ID            uuid.UUID
	SourceSkillID uuid.UUID
	TargetSkillID uuid.UUID
	Kind          RelationshipKind
}

// UserSkill is a user's held skill. At most one row exists per
// (user, skill) pair and mastery is always within [0, 100].
type UserSkill struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SkillID      uuid.UUID
	SkillName    string
	Category     string
	MasteryLevel int
	LastUpdated  time.Time
}

const (
	MasteryMin = 0
	MasteryMax = 100
)

func ValidMastery(v int) bool {
	return v >= MasteryMin && v <= MasteryMax
}
