package assessment

import (
	"sort"

	"github.com/google/uuid"
)

// A skill scoring below this percentage on an assessment counts as a gap.
const gapScoreFloor = 60

type Answer struct {
	QuestionID     uuid.UUID
	SelectedOption int
}

type SkillScore struct {
	SkillID   uuid.UUID
	SkillName string
	Score     float64
}

// Outcome is the scored result of a completed assessment. Breakdown covers
// every assessed skill ordered worst first; Gaps and Strengths partition it
// at the gap floor.
type Outcome struct {
	OverallScore float64
	Breakdown    []SkillScore
	Gaps         []SkillScore
	Strengths    []SkillScore
}

// Grade evaluates answers against their questions. An out-of-range selection
// grades as incorrect; unanswered questions produce no response and earn
// nothing. Answers to unknown questions are skipped, callers reject them
// before grading.
func Grade(questions []Question, answers []Answer) []Response {
	byID := make(map[uuid.UUID]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	out := make([]Response, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		correct := a.SelectedOption >= 0 &&
			a.SelectedOption < len(q.Options) &&
			a.SelectedOption == q.CorrectOption
		score := 0.0
		if correct {
			score = q.Points
		}
		out = append(out, Response{
			AssessmentID:   q.AssessmentID,
			QuestionID:     q.ID,
			SelectedOption: a.SelectedOption,
			Correct:        correct,
			Score:          score,
		})
	}
	return out
}

// Evaluate aggregates graded responses into the overall percentage and the
// per-skill breakdown. Unanswered questions weigh in as zero, so skipping a
// question costs its full points.
func Evaluate(questions []Question, responses []Response) Outcome {
	earned := make(map[uuid.UUID]float64, len(responses))
	for _, r := range responses {
		earned[r.QuestionID] += r.Score
	}

	var totalPoints, totalEarned float64
	type tally struct {
		name   string
		total  float64
		earned float64
	}
	perSkill := map[uuid.UUID]*tally{}

	for _, q := range questions {
		totalPoints += q.Points
		totalEarned += earned[q.ID]

		t, ok := perSkill[q.SkillID]
		if !ok {
			t = &tally{name: q.SkillName}
			perSkill[q.SkillID] = t
		}
		t.total += q.Points
		t.earned += earned[q.ID]
	}

	out := Outcome{}
	if totalPoints > 0 {
		out.OverallScore = 100 * totalEarned / totalPoints
	}

	for skillID, t := range perSkill {
		if t.total <= 0 {
			continue
		}
		out.Breakdown = append(out.Breakdown, SkillScore{
			SkillID:   skillID,
			SkillName: t.name,
			Score:     100 * t.earned / t.total,
		})
	}
	sort.SliceStable(out.Breakdown, func(i, j int) bool {
		if out.Breakdown[i].Score != out.Breakdown[j].Score {
			return out.Breakdown[i].Score < out.Breakdown[j].Score
		}
		return out.Breakdown[i].SkillName < out.Breakdown[j].SkillName
	})

	for _, s := range out.Breakdown {
		if s.Score < gapScoreFloor {
			out.Gaps = append(out.Gaps, s)
		} else {
			out.Strengths = append(out.Strengths, s)
		}
	}
	return out
}
