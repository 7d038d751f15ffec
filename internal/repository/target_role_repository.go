package repository

import (
	"context"
	"errors"

	"skill-twin/internal/database"

	"github.com/google/uuid"
)

var ErrTargetRoleNotSet = errors.New("target role not set")

type TargetRoleRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Set(ctx context.Context, userID, roleID uuid.UUID) error
}

type PostgresTargetRoleRepository struct {
	db database.DB
}

func NewPostgresTargetRoleRepository(db database.DB) *PostgresTargetRoleRepository {
	return &PostgresTargetRoleRepository{db: db}
}

func (r *PostgresTargetRoleRepository) Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	row := r.db.QueryRow(ctx, `SELECT role_id FROM user_target_roles WHERE user_id = $1`, userID)

	var roleID uuid.UUID
	if err := row.Scan(&roleID); err != nil {
		if isNoRows(err) {
			return uuid.Nil, ErrTargetRoleNotSet
		}
		return uuid.Nil, err
	}
	return roleID, nil
}

func (r *PostgresTargetRoleRepository) Set(ctx context.Context, userID, roleID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_target_roles (user_id, role_id, chosen_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET role_id = EXCLUDED.role_id, chosen_at = now()`,
		userID, roleID,
	)
	return err
}
