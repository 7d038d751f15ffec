package usecase

import (
	"context"
	"testing"

	"skill-twin/internal/config"
	"skill-twin/internal/domain/skillgraph"

	"github.com/google/uuid"
)

func TestGetVisualization_NodesAndLinks(t *testing.T) {
	goID := uuid.New()
	dockerID := uuid.New()
	rustID := uuid.New()
	strayID := uuid.New()

	catalog := []skillgraph.Skill{
		{ID: goID, Name: "Go", Category: "Programming Language"},
		{ID: dockerID, Name: "Docker", Category: "DevOps"},
		{ID: rustID, Name: "Rust", Category: "Programming Language"},
	}
	rels := []skillgraph.Relationship{
		{SourceSkillID: goID, TargetSkillID: dockerID, Kind: "related"},
		{SourceSkillID: goID, TargetSkillID: strayID, Kind: "related"},
	}

	uc := NewVisualizationUsecase(
		usMockSkillRepo{catalog: catalog},
		usMockRelationshipRepo{rels: rels},
		&usMockUserSkillRepo{items: []skillgraph.UserSkill{{SkillID: goID, MasteryLevel: 75}}},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	res, err := uc.GetVisualization(context.Background(), uuid.New(), false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Nodes) != 3 {
		t.Fatalf("expected every catalog skill as a node, got %d", len(res.Nodes))
	}
	for _, n := range res.Nodes {
		if n.SkillID == goID {
			if !n.Held || n.MasteryLevel != 75 {
				t.Fatalf("held skill must carry its mastery: %+v", n)
			}
		} else if n.Held || n.MasteryLevel != 0 {
			t.Fatalf("unheld skill must render at zero mastery: %+v", n)
		}
	}
	if len(res.Links) != 1 {
		t.Fatalf("links with an endpoint outside the node set must be dropped, got %d", len(res.Links))
	}
	if res.Links[0].SourceID != goID || res.Links[0].TargetID != dockerID {
		t.Fatalf("unexpected link: %+v", res.Links[0])
	}
}

func TestGetVisualization_HeldOnly(t *testing.T) {
	goID := uuid.New()
	dockerID := uuid.New()
	rustID := uuid.New()

	catalog := []skillgraph.Skill{
		{ID: goID, Name: "Go", Category: "Programming Language"},
		{ID: dockerID, Name: "Docker", Category: "DevOps"},
		{ID: rustID, Name: "Rust", Category: "Programming Language"},
	}
	rels := []skillgraph.Relationship{
		{SourceSkillID: goID, TargetSkillID: dockerID, Kind: "related"},
		{SourceSkillID: goID, TargetSkillID: rustID, Kind: "related"},
	}

	uc := NewVisualizationUsecase(
		usMockSkillRepo{catalog: catalog},
		usMockRelationshipRepo{rels: rels},
		&usMockUserSkillRepo{items: []skillgraph.UserSkill{
			{SkillID: goID, MasteryLevel: 75},
			{SkillID: dockerID, MasteryLevel: 40},
		}},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	res, err := uc.GetVisualization(context.Background(), uuid.New(), true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Nodes) != 2 {
		t.Fatalf("heldOnly must drop unheld nodes, got %d", len(res.Nodes))
	}
	// The Go-Rust link loses an endpoint once Rust is filtered out.
	if len(res.Links) != 1 || res.Links[0].TargetID != dockerID {
		t.Fatalf("links must be restricted to surviving nodes: %+v", res.Links)
	}
}

func TestGetTwinSummary_Empty(t *testing.T) {
	uc := NewVisualizationUsecase(
		usMockSkillRepo{},
		usMockRelationshipRepo{},
		&usMockUserSkillRepo{},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	sum, err := uc.GetTwinSummary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.TotalSkills != 0 || sum.AverageMastery != 0 {
		t.Fatalf("empty graph must produce a zero summary: %+v", sum)
	}
	if sum.TopSkills == nil || sum.Categories == nil {
		t.Fatalf("summary slices must be non-nil for serialization")
	}
}

func TestGetTwinSummary_Stats(t *testing.T) {
	held := []skillgraph.UserSkill{
		{SkillID: uuid.New(), SkillName: "Go", Category: "Programming Language", MasteryLevel: 90},
		{SkillID: uuid.New(), SkillName: "Rust", Category: "Programming Language", MasteryLevel: 40},
		{SkillID: uuid.New(), SkillName: "Docker", Category: "DevOps", MasteryLevel: 70},
		{SkillID: uuid.New(), SkillName: "Kubernetes", Category: "DevOps", MasteryLevel: 30},
		{SkillID: uuid.New(), SkillName: "Terraform", Category: "DevOps", MasteryLevel: 55},
		{SkillID: uuid.New(), SkillName: "SQL", Category: "Data", MasteryLevel: 85},
	}

	uc := NewVisualizationUsecase(
		usMockSkillRepo{},
		usMockRelationshipRepo{},
		&usMockUserSkillRepo{items: held},
		nil,
		config.PolicyConfig{GapTargetMastery: 70},
	)

	sum, err := uc.GetTwinSummary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.TotalSkills != 6 {
		t.Fatalf("expected 6 skills, got %d", sum.TotalSkills)
	}
	// (90+40+70+30+55+85)/6
	if sum.AverageMastery != 61.67 {
		t.Fatalf("expected average 61.67, got %v", sum.AverageMastery)
	}
	if len(sum.TopSkills) != 5 || sum.TopSkills[0].SkillName != "Go" || sum.TopSkills[1].SkillName != "SQL" {
		t.Fatalf("top skills must be ordered by mastery descending: %+v", sum.TopSkills)
	}
	if len(sum.WeakestSkills) != 5 || sum.WeakestSkills[0].SkillName != "Kubernetes" || sum.WeakestSkills[1].SkillName != "Rust" {
		t.Fatalf("weakest skills must be ordered by mastery ascending: %+v", sum.WeakestSkills)
	}

	byCat := map[string]CategorySummary{}
	for _, c := range sum.Categories {
		byCat[c.Category] = c
	}
	devops := byCat["DevOps"]
	if devops.SkillCount != 3 || devops.AverageMastery != 51.67 || devops.MasteredCount != 1 {
		t.Fatalf("unexpected DevOps summary: %+v", devops)
	}
	lang := byCat["Programming Language"]
	if lang.SkillCount != 2 || lang.AverageMastery != 65 || lang.MasteredCount != 1 {
		t.Fatalf("unexpected language summary: %+v", lang)
	}
}
