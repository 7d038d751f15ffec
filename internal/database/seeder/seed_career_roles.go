package seeder

import (
	"context"
	"fmt"

	"skill-twin/internal/database"
)

type CareerRolesSeeder struct{}

func (CareerRolesSeeder) Name() string { return "career_roles" }

func (CareerRolesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "career_roles", "id", "title", "level", "created_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "role_skill_requirements", "id", "role_id", "skill_id", "weight", "position"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	type requirement struct {
		Skill  string
		Weight float64
	}
	roles := []struct {
		Title        string
		Level        string
		Requirements []requirement
	}{
		{
			Title: "Backend Engineer",
			Level: "mid",
			Requirements: []requirement{
				{Skill: "Go", Weight: 0.9},
				{Skill: "PostgreSQL", Weight: 0.8},
				{Skill: "HTTP APIs", Weight: 0.8},
				{Skill: "Redis", Weight: 0.5},
				{Skill: "Docker", Weight: 0.5},
			},
		},
		{
			Title: "Frontend Engineer",
			Level: "mid",
			Requirements: []requirement{
				{Skill: "JavaScript", Weight: 0.9},
				{Skill: "TypeScript", Weight: 0.8},
				{Skill: "React", Weight: 0.8},
				{Skill: "CSS", Weight: 0.6},
				{Skill: "HTTP APIs", Weight: 0.4},
			},
		},
		{
			Title: "Platform Engineer",
			Level: "senior",
			Requirements: []requirement{
				{Skill: "Kubernetes", Weight: 0.9},
				{Skill: "Docker", Weight: 0.8},
				{Skill: "CI/CD", Weight: 0.7},
				{Skill: "AWS", Weight: 0.6},
				{Skill: "Go", Weight: 0.5},
			},
		},
		{
			Title: "Data Engineer",
			Level: "mid",
			Requirements: []requirement{
				{Skill: "SQL", Weight: 0.9},
				{Skill: "Python", Weight: 0.8},
				{Skill: "Data Modeling", Weight: 0.7},
				{Skill: "PostgreSQL", Weight: 0.6},
				{Skill: "GCP", Weight: 0.4},
			},
		},
		{
			Title: "Software Architect",
			Level: "senior",
			Requirements: []requirement{
				{Skill: "System Design", Weight: 1.0},
				{Skill: "Data Modeling", Weight: 0.7},
				{Skill: "HTTP APIs", Weight: 0.6},
				{Skill: "gRPC", Weight: 0.5},
				{Skill: "Kubernetes", Weight: 0.4},
			},
		},
	}

	for _, role := range roles {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO career_roles (id, title, level) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (title, level) DO NOTHING`,
			role.Title,
			role.Level,
		); err != nil {
			return err
		}

		for pos, rq := range role.Requirements {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO role_skill_requirements (role_id, skill_id, weight, position)
				 SELECT r.id, s.id, $4, $5
				 FROM career_roles r, skills s
				 WHERE r.title = $1 AND r.level = $2 AND s.name = $3
				 ON CONFLICT (role_id, skill_id) DO NOTHING`,
				role.Title,
				role.Level,
				rq.Skill,
				rq.Weight,
				pos,
			); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
