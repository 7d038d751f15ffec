package alignment

import (
	"testing"

	"github.com/google/uuid"
)

func TestAlign_PartitionAndReadiness(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	res := Align(
		[]UserSkill{{SkillID: a, MasteryLevel: 80}, {SkillID: b, MasteryLevel: 10}},
		[]Requirement{
			{SkillID: a, SkillName: "Go", Weight: 0.6},
			{SkillID: b, SkillName: "Kubernetes", Weight: 0.4},
		},
		50,
	)

	if len(res.Matching) != 1 || res.Matching[0].SkillID != a {
		t.Fatalf("expected only skill A matching")
	}
	if len(res.Missing) != 1 || res.Missing[0].SkillID != b {
		t.Fatalf("expected only skill B missing")
	}
	// 100 * 0.6 / 1.0
	if res.ReadinessPercentage != 60 {
		t.Fatalf("expected readiness 60, got %v", res.ReadinessPercentage)
	}
}

func TestAlign_ThresholdIsInclusive(t *testing.T) {
	skillID := uuid.New()

	res := Align(
		[]UserSkill{{SkillID: skillID, MasteryLevel: 50}},
		[]Requirement{{SkillID: skillID, Weight: 1}},
		50,
	)

	if len(res.Matching) != 1 {
		t.Fatalf("mastery equal to threshold must match")
	}
	if res.ReadinessPercentage != 100 {
		t.Fatalf("expected readiness 100, got %v", res.ReadinessPercentage)
	}
}

func TestAlign_AbsentSkillCountsAsZero(t *testing.T) {
	skillID := uuid.New()

	res := Align(nil, []Requirement{{SkillID: skillID, SkillName: "Redis", Weight: 0.5}}, 50)

	if len(res.Matching) != 0 {
		t.Fatalf("expected no matches")
	}
	if len(res.Missing) != 1 {
		t.Fatalf("expected requirement reported missing")
	}
	if res.Missing[0].MasteryLevel != 0 {
		t.Fatalf("absent skill must report mastery 0, got %d", res.Missing[0].MasteryLevel)
	}
	if res.ReadinessPercentage != 0 {
		t.Fatalf("expected readiness 0, got %v", res.ReadinessPercentage)
	}
}

func TestAlign_FullMatch(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	res := Align(
		[]UserSkill{{SkillID: a, MasteryLevel: 70}, {SkillID: b, MasteryLevel: 95}},
		[]Requirement{
			{SkillID: a, Weight: 0.3},
			{SkillID: b, Weight: 0.7},
		},
		50,
	)

	if len(res.Missing) != 0 {
		t.Fatalf("expected nothing missing")
	}
	if res.ReadinessPercentage != 100 {
		t.Fatalf("expected readiness 100, got %v", res.ReadinessPercentage)
	}
}
