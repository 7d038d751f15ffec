package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-twin/internal/database"
	"skill-twin/internal/domain/skillgraph"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]skillgraph.Skill, error)
	SkillExistsByID(ctx context.Context, skillID uuid.UUID) (bool, error)
	CreateSkill(ctx context.Context, name, category string) (skillgraph.Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]skillgraph.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category, created_at FROM skills ORDER BY category ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skillgraph.Skill, 0)
	for rows.Next() {
		var s skillgraph.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) SkillExistsByID(ctx context.Context, skillID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, skillID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, name, category string) (skillgraph.Skill, error) {
	id := uuid.New()
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name, category) VALUES ($1, $2, $3) RETURNING id, name, category, created_at`,
		id, name, category,
	)

	var s skillgraph.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		return skillgraph.Skill{}, err
	}
	return s, nil
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}
