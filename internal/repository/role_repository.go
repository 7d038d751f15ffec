package repository

import (
	"context"
	"errors"
	"time"

	"skill-twin/internal/database"

	"github.com/google/uuid"
)

var ErrRoleNotFound = errors.New("role not found")

type CareerRole struct {
	ID        uuid.UUID
	Title     string
	Level     string
	CreatedAt time.Time
}

type RoleSkillRequirement struct {
	RoleID    uuid.UUID
	SkillID   uuid.UUID
	SkillName string
	Weight    float64
	Position  int
}

type RoleRepository interface {
	ListRoles(ctx context.Context) ([]CareerRole, error)
	FindByID(ctx context.Context, roleID uuid.UUID) (CareerRole, error)
	FindRequirements(ctx context.Context, roleID uuid.UUID) ([]RoleSkillRequirement, error)
	FindRequirementsByRoleIDs(ctx context.Context, roleIDs []uuid.UUID) (map[uuid.UUID][]RoleSkillRequirement, error)
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) ListRoles(ctx context.Context) ([]CareerRole, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, level, created_at FROM career_roles ORDER BY title ASC, level ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CareerRole, 0)
	for rows.Next() {
		var role CareerRole
		if err := rows.Scan(&role.ID, &role.Title, &role.Level, &role.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoleRepository) FindByID(ctx context.Context, roleID uuid.UUID) (CareerRole, error) {
	row := r.db.QueryRow(ctx, `SELECT id, title, level, created_at FROM career_roles WHERE id = $1`, roleID)

	var role CareerRole
	if err := row.Scan(&role.ID, &role.Title, &role.Level, &role.CreatedAt); err != nil {
		if isNoRows(err) {
			return CareerRole{}, ErrRoleNotFound
		}
		return CareerRole{}, err
	}
	return role, nil
}

func (r *PostgresRoleRepository) FindRequirements(ctx context.Context, roleID uuid.UUID) ([]RoleSkillRequirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rq.role_id, rq.skill_id, s.name, rq.weight, rq.position
		 FROM role_skill_requirements rq
		 JOIN skills s ON s.id = rq.skill_id
		 WHERE rq.role_id = $1
		 ORDER BY rq.position ASC`,
		roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequirements(rows)
}

func (r *PostgresRoleRepository) FindRequirementsByRoleIDs(ctx context.Context, roleIDs []uuid.UUID) (map[uuid.UUID][]RoleSkillRequirement, error) {
	out := make(map[uuid.UUID][]RoleSkillRequirement, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT rq.role_id, rq.skill_id, s.name, rq.weight, rq.position
		 FROM role_skill_requirements rq
		 JOIN skills s ON s.id = rq.skill_id
		 WHERE rq.role_id = ANY($1)
		 ORDER BY rq.role_id, rq.position ASC`,
		roleIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs, err := scanRequirements(rows)
	if err != nil {
		return nil, err
	}
	for _, rq := range reqs {
		out[rq.RoleID] = append(out[rq.RoleID], rq)
	}
	return out, nil
}

func scanRequirements(rows database.Rows) ([]RoleSkillRequirement, error) {
	out := make([]RoleSkillRequirement, 0)
	for rows.Next() {
		var rq RoleSkillRequirement
		if err := rows.Scan(&rq.RoleID, &rq.SkillID, &rq.SkillName, &rq.Weight, &rq.Position); err != nil {
			return nil, err
		}
		out = append(out, rq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
