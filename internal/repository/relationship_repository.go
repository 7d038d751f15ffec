package repository

import (
	"context"

	"skill-twin/internal/database"
	"skill-twin/internal/domain/skillgraph"

	"github.com/google/uuid"
)

type RelationshipRepository interface {
	GetAll(ctx context.Context) ([]skillgraph.Relationship, error)
	FindBySkillID(ctx context.Context, skillID uuid.UUID) ([]skillgraph.Relationship, error)
	CreateRelationship(ctx context.Context, rel skillgraph.Relationship) (skillgraph.Relationship, error)
}

type PostgresRelationshipRepository struct {
	db database.DB
}

func NewPostgresRelationshipRepository(db database.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

func (r *PostgresRelationshipRepository) GetAll(ctx context.Context) ([]skillgraph.Relationship, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, source_skill_id, target_skill_id, relationship_kind FROM skill_relationships`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// FindBySkillID returns edges in both directions so graph traversal from a
// skill can follow incoming as well as outgoing relationships.
func (r *PostgresRelationshipRepository) FindBySkillID(ctx context.Context, skillID uuid.UUID) ([]skillgraph.Relationship, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, source_skill_id, target_skill_id, relationship_kind
		 FROM skill_relationships
		 WHERE source_skill_id = $1 OR target_skill_id = $1`,
		skillID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRelationships(rows)
}

func (r *PostgresRelationshipRepository) CreateRelationship(ctx context.Context, rel skillgraph.Relationship) (skillgraph.Relationship, error) {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_relationships (id, source_skill_id, target_skill_id, relationship_kind)
		 VALUES ($1, $2, $3, $4)`,
		rel.ID, rel.SourceSkillID, rel.TargetSkillID, string(rel.Kind),
	)
	if err != nil {
		return skillgraph.Relationship{}, err
	}
	return rel, nil
}

func scanRelationships(rows database.Rows) ([]skillgraph.Relationship, error) {
	out := make([]skillgraph.Relationship, 0)
	for rows.Next() {
		var rel skillgraph.Relationship
		var kind string
		if err := rows.Scan(&rel.ID, &rel.SourceSkillID, &rel.TargetSkillID, &kind); err != nil {
			return nil, err
		}
		rel.Kind = skillgraph.RelationshipKind(kind)
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
