package gap

import (
	"sort"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Thresholds for priority classification, on the 0-100 gap scale.
const (
	highGapFloor   = 40
	mediumGapFloor = 20
)

type UserSkill struct {
	SkillID      uuid.UUID
	MasteryLevel int
}

// Target is a single skill the analysis measures the user against. Weight
// defaults to 1 when the caller supplies an explicit skill set; in role mode
// it is the role requirement's importance weight.
type Target struct {
	SkillID       uuid.UUID
	SkillName     string
	TargetMastery int
	Weight        float64
}

type SkillGap struct {
	SkillID       uuid.UUID
	SkillName     string
	CurrentLevel  int
	TargetMastery int
	Gap           int
	Weight        float64
	Priority      Priority
}

type Result struct {
	TotalSkills int
	Skills      []SkillGap
	GapScore    float64
}

// Analyze computes the per-skill deficiency against the given targets and
// the weighted aggregate gap score. Skills already at or above target are
// counted in TotalSkills but omitted from Skills. The returned list is
// ordered by priority, then gap descending.
func Analyze(userSkills []UserSkill, targets []Target) Result {
	current := make(map[uuid.UUID]int, len(userSkills))
	for _, us := range userSkills {
		if us.SkillID == uuid.Nil {
			continue
		}
		current[us.SkillID] = us.MasteryLevel
	}

	gaps := make([]SkillGap, 0, len(targets))
	var weightedSum float64
	var weightTotal float64
	total := 0

	for _, t := range targets {
		if t.SkillID == uuid.Nil {
			continue
		}
		total++

		w := t.Weight
		if w <= 0 {
			w = 1
		}

		cur := clampMastery(current[t.SkillID])
		g := t.TargetMastery - cur
		if g < 0 {
			g = 0
		}

		weightedSum += float64(g) * w
		weightTotal += w

		if g == 0 {
			continue
		}

		gaps = append(gaps, SkillGap{
			SkillID:       t.SkillID,
			SkillName:     t.SkillName,
			CurrentLevel:  cur,
			TargetMastery: t.TargetMastery,
			Gap:           g,
			Weight:        w,
			Priority:      classify(g),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		ri, rj := priorityRank(gaps[i].Priority), priorityRank(gaps[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return gaps[i].Gap > gaps[j].Gap
	})

	score := 0.0
	if weightTotal > 0 {
		score = weightedSum / weightTotal
	}

	return Result{TotalSkills: total, Skills: gaps, GapScore: score}
}

func classify(g int) Priority {
	switch {
	case g >= highGapFloor:
		return PriorityHigh
	case g >= mediumGapFloor:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

func clampMastery(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
