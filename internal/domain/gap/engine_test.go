package gap

import (
	"testing"

	"github.com/google/uuid"
)

func TestAnalyze_NoSkillsHeld(t *testing.T) {
	target := Target{SkillID: uuid.New(), SkillName: "Go", TargetMastery: 70, Weight: 1}

	res := Analyze(nil, []Target{target})

	if res.TotalSkills != 1 {
		t.Fatalf("expected total 1, got %d", res.TotalSkills)
	}
	if len(res.Skills) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(res.Skills))
	}
	sg := res.Skills[0]
	if sg.CurrentLevel != 0 || sg.Gap != 70 {
		t.Fatalf("expected current 0 gap 70, got current %d gap %d", sg.CurrentLevel, sg.Gap)
	}
	if sg.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %s", sg.Priority)
	}
	if res.GapScore != 70 {
		t.Fatalf("expected gap score 70, got %v", res.GapScore)
	}
}

func TestAnalyze_MetTargetExcludedButCounted(t *testing.T) {
	met := uuid.New()
	unmet := uuid.New()

	res := Analyze(
		[]UserSkill{{SkillID: met, MasteryLevel: 90}, {SkillID: unmet, MasteryLevel: 40}},
		[]Target{
			{SkillID: met, TargetMastery: 70},
			{SkillID: unmet, TargetMastery: 70},
		},
	)

	if res.TotalSkills != 2 {
		t.Fatalf("expected total 2, got %d", res.TotalSkills)
	}
	if len(res.Skills) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(res.Skills))
	}
	if res.Skills[0].SkillID != unmet {
		t.Fatalf("expected only the unmet skill listed")
	}
	// met contributes 0 to the weighted sum but still dilutes the score
	if res.GapScore != 15 {
		t.Fatalf("expected gap score 15, got %v", res.GapScore)
	}
}

func TestAnalyze_PriorityBands(t *testing.T) {
	cases := []struct {
		mastery int
		want    Priority
	}{
		{mastery: 30, want: PriorityHigh},   // gap 40
		{mastery: 31, want: PriorityMedium}, // gap 39
		{mastery: 50, want: PriorityMedium}, // gap 20
		{mastery: 51, want: PriorityLow},    // gap 19
		{mastery: 69, want: PriorityLow},    // gap 1
	}
	for _, tc := range cases {
		skillID := uuid.New()
		res := Analyze(
			[]UserSkill{{SkillID: skillID, MasteryLevel: tc.mastery}},
			[]Target{{SkillID: skillID, TargetMastery: 70}},
		)
		if len(res.Skills) != 1 {
			t.Fatalf("mastery %d: expected 1 gap", tc.mastery)
		}
		if res.Skills[0].Priority != tc.want {
			t.Fatalf("mastery %d: expected %s, got %s", tc.mastery, tc.want, res.Skills[0].Priority)
		}
	}
}

func TestAnalyze_Ordering(t *testing.T) {
	low := uuid.New()
	medium := uuid.New()
	highSmall := uuid.New()
	highBig := uuid.New()

	res := Analyze(
		[]UserSkill{
			{SkillID: low, MasteryLevel: 60},       // gap 10
			{SkillID: medium, MasteryLevel: 45},    // gap 25
			{SkillID: highSmall, MasteryLevel: 25}, // gap 45
			{SkillID: highBig, MasteryLevel: 0},    // gap 70
		},
		[]Target{
			{SkillID: low, TargetMastery: 70},
			{SkillID: medium, TargetMastery: 70},
			{SkillID: highSmall, TargetMastery: 70},
			{SkillID: highBig, TargetMastery: 70},
		},
	)

	want := []uuid.UUID{highBig, highSmall, medium, low}
	if len(res.Skills) != len(want) {
		t.Fatalf("expected %d gaps, got %d", len(want), len(res.Skills))
	}
	for i, id := range want {
		if res.Skills[i].SkillID != id {
			t.Fatalf("position %d: wrong ordering", i)
		}
	}
}

func TestAnalyze_WeightedScore(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	res := Analyze(
		[]UserSkill{{SkillID: a, MasteryLevel: 50}, {SkillID: b, MasteryLevel: 60}},
		[]Target{
			{SkillID: a, TargetMastery: 70, Weight: 0.8}, // gap 20
			{SkillID: b, TargetMastery: 70, Weight: 0.2}, // gap 10
		},
	)

	// (20*0.8 + 10*0.2) / 1.0
	if res.GapScore != 18 {
		t.Fatalf("expected gap score 18, got %v", res.GapScore)
	}
}

func TestAnalyze_ZeroWeightDefaultsToOne(t *testing.T) {
	skillID := uuid.New()
	res := Analyze(nil, []Target{{SkillID: skillID, TargetMastery: 50}})

	if res.GapScore != 50 {
		t.Fatalf("expected gap score 50, got %v", res.GapScore)
	}
	if res.Skills[0].Weight != 1 {
		t.Fatalf("expected weight defaulted to 1, got %v", res.Skills[0].Weight)
	}
}

func TestAnalyze_NoTargets(t *testing.T) {
	res := Analyze([]UserSkill{{SkillID: uuid.New(), MasteryLevel: 80}}, nil)

	if res.TotalSkills != 0 || len(res.Skills) != 0 || res.GapScore != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}
