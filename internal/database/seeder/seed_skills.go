package seeder

import (
	"context"
	"fmt"

	"skill-twin/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "skill_relationships", "id", "source_skill_id", "target_skill_id", "relationship_kind"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	skills := []struct {
		Name     string
		Category string
	}{
		{Name: "Go", Category: "Programming Language"},
		{Name: "Python", Category: "Programming Language"},
		{Name: "JavaScript", Category: "Programming Language"},
		{Name: "TypeScript", Category: "Programming Language"},
		{Name: "SQL", Category: "Database"},
		{Name: "PostgreSQL", Category: "Database"},
		{Name: "Redis", Category: "Database"},
		{Name: "HTTP APIs", Category: "Backend"},
		{Name: "gRPC", Category: "Backend"},
		{Name: "Docker", Category: "DevOps"},
		{Name: "Kubernetes", Category: "DevOps"},
		{Name: "CI/CD", Category: "DevOps"},
		{Name: "AWS", Category: "Cloud"},
		{Name: "GCP", Category: "Cloud"},
		{Name: "React", Category: "Frontend"},
		{Name: "CSS", Category: "Frontend"},
		{Name: "Data Modeling", Category: "Architecture"},
		{Name: "System Design", Category: "Architecture"},
	}

	for _, it := range skills {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name, category) DO NOTHING`,
			it.Name,
			it.Category,
		); err != nil {
			return err
		}
	}

	relationships := []struct {
		Source string
		Target string
		Kind   string
	}{
		{Source: "SQL", Target: "PostgreSQL", Kind: "prerequisite"},
		{Source: "SQL", Target: "Data Modeling", Kind: "prerequisite"},
		{Source: "JavaScript", Target: "TypeScript", Kind: "prerequisite"},
		{Source: "JavaScript", Target: "React", Kind: "prerequisite"},
		{Source: "Docker", Target: "Kubernetes", Kind: "prerequisite"},
		{Source: "HTTP APIs", Target: "gRPC", Kind: "related"},
		{Source: "PostgreSQL", Target: "Redis", Kind: "related"},
		{Source: "AWS", Target: "GCP", Kind: "related"},
		{Source: "Docker", Target: "CI/CD", Kind: "related"},
		{Source: "Data Modeling", Target: "System Design", Kind: "subset_of"},
		{Source: "CSS", Target: "React", Kind: "related"},
	}

	for _, rel := range relationships {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skill_relationships (source_skill_id, target_skill_id, relationship_kind)
			 SELECT s.id, t.id, $3
			 FROM skills s, skills t
			 WHERE s.name = $1 AND t.name = $2
			 ON CONFLICT (source_skill_id, target_skill_id, relationship_kind) DO NOTHING`,
			rel.Source,
			rel.Target,
			rel.Kind,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
