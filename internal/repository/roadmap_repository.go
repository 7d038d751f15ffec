package repository

import (
	"context"
	"errors"

	"skill-twin/internal/database"
	"skill-twin/internal/domain/roadmap"

	"github.com/google/uuid"
)

var (
	ErrRoadmapNotFound  = errors.New("roadmap not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrModuleNotFound   = errors.New("module not found")
)

// ResourceContext is the row-locked ancestry of a resource, read at the top
// of a progress-update transaction so concurrent updates to the same module
// serialize instead of interleaving.
type ResourceContext struct {
	ResourceID   uuid.UUID
	ModuleID     uuid.UUID
	RoadmapID    uuid.UUID
	OwnerID      uuid.UUID
	Progress     int
	ModuleStatus roadmap.ModuleStatus
}

type RoadmapRepository interface {
	Create(ctx context.Context, rm roadmap.Roadmap) error
	FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]roadmap.Roadmap, error)
	FindByID(ctx context.Context, roadmapID, userID uuid.UUID) (roadmap.Roadmap, error)
	Delete(ctx context.Context, roadmapID, userID uuid.UUID) error

	LockResourceContext(ctx context.Context, q database.Querier, resourceID uuid.UUID) (ResourceContext, error)
	SetResourceProgress(ctx context.Context, q database.Querier, resourceID uuid.UUID, progress int) error
	RecomputeModule(ctx context.Context, q database.Querier, moduleID uuid.UUID) (float64, roadmap.ModuleStatus, error)
	RecomputeRoadmap(ctx context.Context, q database.Querier, roadmapID uuid.UUID) (float64, error)
	ModuleTargetSkills(ctx context.Context, q database.Querier, moduleID uuid.UUID) ([]uuid.UUID, error)
	ClaimBoost(ctx context.Context, q database.Querier, moduleID, skillID uuid.UUID) (bool, error)
}

type PostgresRoadmapRepository struct {
	db database.DB
}

func NewPostgresRoadmapRepository(db database.DB) *PostgresRoadmapRepository {
	return &PostgresRoadmapRepository{db: db}
}

func (r *PostgresRoadmapRepository) Create(ctx context.Context, rm roadmap.Roadmap) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if rm.IsActive {
		_, err = tx.Exec(ctx,
			`UPDATE learning_roadmaps SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND is_active`,
			rm.UserID,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO learning_roadmaps (id, user_id, title, is_active, progress_percentage)
		 VALUES ($1, $2, $3, $4, 0)`,
		rm.ID, rm.UserID, rm.Title, rm.IsActive,
	)
	if err != nil {
		return err
	}

	for _, m := range rm.Modules {
		_, err = tx.Exec(ctx,
			`INSERT INTO roadmap_modules (id, roadmap_id, title, position, status, completion_percentage)
			 VALUES ($1, $2, $3, $4, $5, 0)`,
			m.ID, rm.ID, m.Title, m.Position, string(roadmap.StatusNotStarted),
		)
		if err != nil {
			return err
		}

		for _, res := range m.Resources {
			_, err = tx.Exec(ctx,
				`INSERT INTO module_resources (id, module_id, title, resource_type, url, position, progress)
				 VALUES ($1, $2, $3, $4, $5, $6, 0)`,
				res.ID, m.ID, res.Title, string(res.Type), res.URL, res.Position,
			)
			if err != nil {
				return err
			}
		}

		for _, skillID := range m.TargetSkillIDs {
			_, err = tx.Exec(ctx,
				`INSERT INTO module_skills (module_id, skill_id, boost_applied)
				 VALUES ($1, $2, FALSE)
				 ON CONFLICT (module_id, skill_id) DO NOTHING`,
				m.ID, skillID,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRoadmapRepository) FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]roadmap.Roadmap, error) {
	query := `SELECT id, user_id, title, is_active, progress_percentage, created_at, updated_at
		 FROM learning_roadmaps
		 WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]roadmap.Roadmap, 0)
	for rows.Next() {
		var rm roadmap.Roadmap
		if err := rows.Scan(&rm.ID, &rm.UserID, &rm.Title, &rm.IsActive, &rm.ProgressPercentage, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoadmapRepository) FindByID(ctx context.Context, roadmapID, userID uuid.UUID) (roadmap.Roadmap, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, is_active, progress_percentage, created_at, updated_at
		 FROM learning_roadmaps
		 WHERE id = $1 AND user_id = $2`,
		roadmapID, userID,
	)

	var rm roadmap.Roadmap
	if err := row.Scan(&rm.ID, &rm.UserID, &rm.Title, &rm.IsActive, &rm.ProgressPercentage, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		if isNoRows(err) {
			return roadmap.Roadmap{}, ErrRoadmapNotFound
		}
		return roadmap.Roadmap{}, err
	}

	modules, err := r.findModules(ctx, roadmapID)
	if err != nil {
		return roadmap.Roadmap{}, err
	}
	rm.Modules = modules
	return rm, nil
}

func (r *PostgresRoadmapRepository) findModules(ctx context.Context, roadmapID uuid.UUID) ([]roadmap.Module, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, roadmap_id, title, position, status, completion_percentage
		 FROM roadmap_modules
		 WHERE roadmap_id = $1
		 ORDER BY position ASC`,
		roadmapID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]roadmap.Module, 0)
	for rows.Next() {
		var m roadmap.Module
		var status string
		if err := rows.Scan(&m.ID, &m.RoadmapID, &m.Title, &m.Position, &status, &m.CompletionPercentage); err != nil {
			return nil, err
		}
		m.Status = roadmap.ModuleStatus(status)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range modules {
		resources, err := r.findResources(ctx, modules[i].ID)
		if err != nil {
			return nil, err
		}
		modules[i].Resources = resources

		skillIDs, err := r.ModuleTargetSkills(ctx, r.db, modules[i].ID)
		if err != nil {
			return nil, err
		}
		modules[i].TargetSkillIDs = skillIDs
	}
	return modules, nil
}

func (r *PostgresRoadmapRepository) findResources(ctx context.Context, moduleID uuid.UUID) ([]roadmap.Resource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, module_id, title, resource_type, url, position, progress
		 FROM module_resources
		 WHERE module_id = $1
		 ORDER BY position ASC`,
		moduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]roadmap.Resource, 0)
	for rows.Next() {
		var res roadmap.Resource
		var typ string
		if err := rows.Scan(&res.ID, &res.ModuleID, &res.Title, &typ, &res.URL, &res.Position, &res.Progress); err != nil {
			return nil, err
		}
		res.Type = roadmap.ResourceType(typ)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoadmapRepository) Delete(ctx context.Context, roadmapID, userID uuid.UUID) error {
	// Modules and resources go with the roadmap via ON DELETE CASCADE.
	affected, err := r.db.Exec(ctx,
		`DELETE FROM learning_roadmaps WHERE id = $1 AND user_id = $2`,
		roadmapID, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoadmapNotFound
	}
	return nil
}

func (r *PostgresRoadmapRepository) LockResourceContext(ctx context.Context, q database.Querier, resourceID uuid.UUID) (ResourceContext, error) {
	if q == nil {
		q = r.db
	}
	row := q.QueryRow(ctx,
		`SELECT res.id, res.progress, m.id, m.status, rm.id, rm.user_id
		 FROM module_resources res
		 JOIN roadmap_modules m ON m.id = res.module_id
		 JOIN learning_roadmaps rm ON rm.id = m.roadmap_id
		 WHERE res.id = $1
		 FOR UPDATE OF res, m, rm`,
		resourceID,
	)

	var rc ResourceContext
	var status string
	if err := row.Scan(&rc.ResourceID, &rc.Progress, &rc.ModuleID, &status, &rc.RoadmapID, &rc.OwnerID); err != nil {
		if isNoRows(err) {
			return ResourceContext{}, ErrResourceNotFound
		}
		return ResourceContext{}, err
	}
	rc.ModuleStatus = roadmap.ModuleStatus(status)
	return rc, nil
}

func (r *PostgresRoadmapRepository) SetResourceProgress(ctx context.Context, q database.Querier, resourceID uuid.UUID, progress int) error {
	if q == nil {
		q = r.db
	}
	affected, err := q.Exec(ctx,
		`UPDATE module_resources SET progress = $1 WHERE id = $2`,
		progress, resourceID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func (r *PostgresRoadmapRepository) RecomputeModule(ctx context.Context, q database.Querier, moduleID uuid.UUID) (float64, roadmap.ModuleStatus, error) {
	if q == nil {
		q = r.db
	}
	rows, err := q.Query(ctx, `SELECT progress FROM module_resources WHERE module_id = $1`, moduleID)
	if err != nil {
		return 0, "", err
	}
	defer rows.Close()

	progresses := make([]int, 0)
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return 0, "", err
		}
		progresses = append(progresses, p)
	}
	if err := rows.Err(); err != nil {
		return 0, "", err
	}

	completion := roadmap.ModuleCompletion(progresses)
	status := roadmap.DeriveStatus(completion)

	affected, err := q.Exec(ctx,
		`UPDATE roadmap_modules SET completion_percentage = $1, status = $2 WHERE id = $3`,
		completion, string(status), moduleID,
	)
	if err != nil {
		return 0, "", err
	}
	if affected == 0 {
		return 0, "", ErrModuleNotFound
	}
	return completion, status, nil
}

func (r *PostgresRoadmapRepository) RecomputeRoadmap(ctx context.Context, q database.Querier, roadmapID uuid.UUID) (float64, error) {
	if q == nil {
		q = r.db
	}
	rows, err := q.Query(ctx, `SELECT completion_percentage FROM roadmap_modules WHERE roadmap_id = $1`, roadmapID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	completions := make([]float64, 0)
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return 0, err
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	progress := roadmap.RoadmapProgress(completions)
	affected, err := q.Exec(ctx,
		`UPDATE learning_roadmaps SET progress_percentage = $1, updated_at = now() WHERE id = $2`,
		progress, roadmapID,
	)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrRoadmapNotFound
	}
	return progress, nil
}

func (r *PostgresRoadmapRepository) ModuleTargetSkills(ctx context.Context, q database.Querier, moduleID uuid.UUID) ([]uuid.UUID, error) {
	if q == nil {
		q = r.db
	}
	rows, err := q.Query(ctx, `SELECT skill_id FROM module_skills WHERE module_id = $1`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimBoost flips the pair's boost_applied flag and reports whether this
// call won the claim. The compare-and-set lives in the WHERE clause, so two
// concurrent completions of the same module cannot both apply the boost.
func (r *PostgresRoadmapRepository) ClaimBoost(ctx context.Context, q database.Querier, moduleID, skillID uuid.UUID) (bool, error) {
	if q == nil {
		q = r.db
	}
	affected, err := q.Exec(ctx,
		`UPDATE module_skills SET boost_applied = TRUE
		 WHERE module_id = $1 AND skill_id = $2 AND NOT boost_applied`,
		moduleID, skillID,
	)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
