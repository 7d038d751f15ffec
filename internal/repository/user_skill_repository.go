package repository

import (
	"context"
	"errors"

	"skill-twin/internal/database"
	"skill-twin/internal/domain/skillgraph"

	"github.com/google/uuid"
)

var ErrUserSkillNotFound = errors.New("user skill not found")

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skillgraph.UserSkill, error)
	FindByUserAndSkill(ctx context.Context, userID, skillID uuid.UUID) (skillgraph.UserSkill, error)
	Upsert(ctx context.Context, userID, skillID uuid.UUID, masteryLevel int) (skillgraph.UserSkill, error)
	Delete(ctx context.Context, userID, skillID uuid.UUID) error

	// ApplyMasteryBoost raises the pair's mastery by delta (creating the row
	// at mastery=delta when absent), capped at 100, as a single atomic
	// statement. It runs on the caller's Querier so the roadmap engine can
	// scope it to the same transaction as the boost-applied flag.
	ApplyMasteryBoost(ctx context.Context, q database.Querier, userID, skillID uuid.UUID, delta int) (int, error)

	// BlendAssessedMastery folds an assessed per-skill score into the pair's
	// mastery as a 30/70 weighted average of prior mastery and the score,
	// creating the row at the score when absent. Like ApplyMasteryBoost it
	// runs on the caller's Querier so the assessment engine can scope it to
	// the scoring transaction.
	BlendAssessedMastery(ctx context.Context, q database.Querier, userID, skillID uuid.UUID, score int) (int, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skillgraph.UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.id, us.user_id, us.skill_id, s.name, s.category, us.mastery_level, us.last_updated
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skillgraph.UserSkill, 0)
	for rows.Next() {
		var us skillgraph.UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Category, &us.MasteryLevel, &us.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) FindByUserAndSkill(ctx context.Context, userID, skillID uuid.UUID) (skillgraph.UserSkill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT us.id, us.user_id, us.skill_id, s.name, s.category, us.mastery_level, us.last_updated
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1 AND us.skill_id = $2`,
		userID, skillID,
	)

	var us skillgraph.UserSkill
	if err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Category, &us.MasteryLevel, &us.LastUpdated); err != nil {
		if isNoRows(err) {
			return skillgraph.UserSkill{}, ErrUserSkillNotFound
		}
		return skillgraph.UserSkill{}, err
	}
	return us, nil
}

// Upsert writes the pair's mastery in one statement, so a concurrent reader
// never observes a partial write and last-writer-wins holds per pair.
func (r *PostgresUserSkillRepository) Upsert(ctx context.Context, userID, skillID uuid.UUID, masteryLevel int) (skillgraph.UserSkill, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, mastery_level, last_updated)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, skill_id)
		 DO UPDATE SET mastery_level = EXCLUDED.mastery_level, last_updated = now()
		 RETURNING id, user_id, skill_id, mastery_level, last_updated`,
		uuid.New(), userID, skillID, masteryLevel,
	)

	var us skillgraph.UserSkill
	if err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.MasteryLevel, &us.LastUpdated); err != nil {
		return skillgraph.UserSkill{}, err
	}

	nameRow := r.db.QueryRow(ctx, `SELECT name, category FROM skills WHERE id = $1`, skillID)
	if err := nameRow.Scan(&us.SkillName, &us.Category); err != nil && !isNoRows(err) {
		return skillgraph.UserSkill{}, err
	}
	return us, nil
}

func (r *PostgresUserSkillRepository) Delete(ctx context.Context, userID, skillID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND skill_id = $2`,
		userID, skillID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserSkillNotFound
	}
	return nil
}

func (r *PostgresUserSkillRepository) ApplyMasteryBoost(ctx context.Context, q database.Querier, userID, skillID uuid.UUID, delta int) (int, error) {
	if q == nil {
		q = r.db
	}
	row := q.QueryRow(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, mastery_level, last_updated)
		 VALUES ($1, $2, $3, LEAST(100, $4::int), now())
		 ON CONFLICT (user_id, skill_id)
		 DO UPDATE SET mastery_level = LEAST(100, user_skills.mastery_level + $4::int), last_updated = now()
		 RETURNING mastery_level`,
		uuid.New(), userID, skillID, delta,
	)

	var mastery int
	if err := row.Scan(&mastery); err != nil {
		return 0, err
	}
	return mastery, nil
}

func (r *PostgresUserSkillRepository) BlendAssessedMastery(ctx context.Context, q database.Querier, userID, skillID uuid.UUID, score int) (int, error) {
	if q == nil {
		q = r.db
	}
	row := q.QueryRow(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, mastery_level, last_updated)
		 VALUES ($1, $2, $3, LEAST(100, GREATEST(0, $4::int)), now())
		 ON CONFLICT (user_id, skill_id)
		 DO UPDATE SET mastery_level = LEAST(100, GREATEST(0, ROUND(user_skills.mastery_level * 0.3 + $4::int * 0.7)))::int, last_updated = now()
		 RETURNING mastery_level`,
		uuid.New(), userID, skillID, score,
	)

	var mastery int
	if err := row.Scan(&mastery); err != nil {
		return 0, err
	}
	return mastery, nil
}
