package alignment

import (
	"github.com/google/uuid"
)

type UserSkill struct {
	SkillID      uuid.UUID
	MasteryLevel int
}

// Requirement is one weighted skill a career role asks for. Weights are
// independent importances in (0, 1]; they are not required to sum to 1
// across a role.
type Requirement struct {
	SkillID   uuid.UUID
	SkillName string
	Weight    float64
}

type SkillMatch struct {
	SkillID      uuid.UUID
	SkillName    string
	MasteryLevel int
	Weight       float64
}

type Result struct {
	Matching            []SkillMatch
	Missing             []SkillMatch
	ReadinessPercentage float64
}

// Align partitions a role's requirements into matching and missing sets
// against the user's mastery and computes the weighted readiness
// percentage. A skill matches when its mastery meets the threshold; absent
// skills count as mastery 0. Callers must not pass an empty requirement
// set: readiness is undefined there and the caller surfaces that as an
// error instead of a degenerate score.
func Align(userSkills []UserSkill, reqs []Requirement, threshold int) Result {
	current := make(map[uuid.UUID]int, len(userSkills))
	for _, us := range userSkills {
		if us.SkillID == uuid.Nil {
			continue
		}
		current[us.SkillID] = us.MasteryLevel
	}

	matching := make([]SkillMatch, 0, len(reqs))
	missing := make([]SkillMatch, 0)

	var matchedWeight float64
	var totalWeight float64

	for _, r := range reqs {
		if r.SkillID == uuid.Nil {
			continue
		}

		w := r.Weight
		if w <= 0 {
			continue
		}
		totalWeight += w

		mastery := current[r.SkillID]
		m := SkillMatch{
			SkillID:      r.SkillID,
			SkillName:    r.SkillName,
			MasteryLevel: mastery,
			Weight:       w,
		}

		if mastery >= threshold {
			matchedWeight += w
			matching = append(matching, m)
		} else {
			missing = append(missing, m)
		}
	}

	readiness := 0.0
	if totalWeight > 0 {
		readiness = 100 * matchedWeight / totalWeight
	}

	return Result{
		Matching:            matching,
		Missing:             missing,
		ReadinessPercentage: readiness,
	}
}
