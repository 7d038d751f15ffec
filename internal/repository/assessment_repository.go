package repository

import (
	"context"
	"errors"

	"skill-twin/internal/database"
	"skill-twin/internal/domain/assessment"

	"github.com/google/uuid"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type AssessmentRepository interface {
	Create(ctx context.Context, a assessment.Assessment) error
	FindByID(ctx context.Context, assessmentID, userID uuid.UUID) (assessment.Assessment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, completed *bool) ([]assessment.Assessment, error)

	// LockForScoring reads the assessment header under FOR UPDATE together
	// with its questions, so concurrent submissions of the same assessment
	// serialize on the header row.
	LockForScoring(ctx context.Context, q database.Querier, assessmentID, userID uuid.UUID) (assessment.Assessment, error)
	InsertResponses(ctx context.Context, q database.Querier, responses []assessment.Response) error
	MarkCompleted(ctx context.Context, q database.Querier, assessmentID uuid.UUID, score float64) error
	FindResponses(ctx context.Context, assessmentID uuid.UUID) ([]assessment.Response, error)
}

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

func (r *PostgresAssessmentRepository) Create(ctx context.Context, a assessment.Assessment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO assessments (id, user_id, title, passing_score)
		 VALUES ($1, $2, $3, $4)`,
		a.ID, a.UserID, a.Title, a.PassingScore,
	)
	if err != nil {
		return err
	}

	for _, q := range a.Questions {
		_, err = tx.Exec(ctx,
			`INSERT INTO assessment_questions (id, assessment_id, skill_id, question_text, options, correct_option, points, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			q.ID, a.ID, q.SkillID, q.Text, q.Options, q.CorrectOption, q.Points, q.Position,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresAssessmentRepository) FindByID(ctx context.Context, assessmentID, userID uuid.UUID) (assessment.Assessment, error) {
	a, err := r.findHeader(ctx, r.db, assessmentID, userID, false)
	if err != nil {
		return assessment.Assessment{}, err
	}

	questions, err := r.findQuestions(ctx, r.db, assessmentID)
	if err != nil {
		return assessment.Assessment{}, err
	}
	a.Questions = questions
	return a, nil
}

func (r *PostgresAssessmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID, completed *bool) ([]assessment.Assessment, error) {
	query := `SELECT id, user_id, title, passing_score, completed, score, created_at, completed_at
		 FROM assessments
		 WHERE user_id = $1`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Assessment, 0)
	for rows.Next() {
		var a assessment.Assessment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.PassingScore, &a.Completed, &a.Score, &a.CreatedAt, &a.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAssessmentRepository) LockForScoring(ctx context.Context, q database.Querier, assessmentID, userID uuid.UUID) (assessment.Assessment, error) {
	if q == nil {
		q = r.db
	}
	a, err := r.findHeader(ctx, q, assessmentID, userID, true)
	if err != nil {
		return assessment.Assessment{}, err
	}

	questions, err := r.findQuestions(ctx, q, assessmentID)
	if err != nil {
		return assessment.Assessment{}, err
	}
	a.Questions = questions
	return a, nil
}

func (r *PostgresAssessmentRepository) findHeader(ctx context.Context, q database.Querier, assessmentID, userID uuid.UUID, forUpdate bool) (assessment.Assessment, error) {
	query := `SELECT id, user_id, title, passing_score, completed, score, created_at, completed_at
		 FROM assessments
		 WHERE id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var a assessment.Assessment
	row := q.QueryRow(ctx, query, assessmentID, userID)
	if err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.PassingScore, &a.Completed, &a.Score, &a.CreatedAt, &a.CompletedAt); err != nil {
		if isNoRows(err) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, err
	}
	return a, nil
}

func (r *PostgresAssessmentRepository) findQuestions(ctx context.Context, q database.Querier, assessmentID uuid.UUID) ([]assessment.Question, error) {
	rows, err := q.Query(ctx,
		`SELECT aq.id, aq.assessment_id, aq.skill_id, s.name, aq.question_text, aq.options, aq.correct_option, aq.points, aq.position
		 FROM assessment_questions aq
		 JOIN skills s ON s.id = aq.skill_id
		 WHERE aq.assessment_id = $1
		 ORDER BY aq.position ASC`,
		assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Question, 0)
	for rows.Next() {
		var qu assessment.Question
		if err := rows.Scan(&qu.ID, &qu.AssessmentID, &qu.SkillID, &qu.SkillName, &qu.Text, &qu.Options, &qu.CorrectOption, &qu.Points, &qu.Position); err != nil {
			return nil, err
		}
		out = append(out, qu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAssessmentRepository) InsertResponses(ctx context.Context, q database.Querier, responses []assessment.Response) error {
	if q == nil {
		q = r.db
	}
	for _, resp := range responses {
		_, err := q.Exec(ctx,
			`INSERT INTO assessment_responses (id, assessment_id, question_id, selected_option, is_correct, score)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			resp.ID, resp.AssessmentID, resp.QuestionID, resp.SelectedOption, resp.Correct, resp.Score,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresAssessmentRepository) MarkCompleted(ctx context.Context, q database.Querier, assessmentID uuid.UUID, score float64) error {
	if q == nil {
		q = r.db
	}
	affected, err := q.Exec(ctx,
		`UPDATE assessments SET completed = TRUE, score = $1, completed_at = now() WHERE id = $2`,
		score, assessmentID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

func (r *PostgresAssessmentRepository) FindResponses(ctx context.Context, assessmentID uuid.UUID) ([]assessment.Response, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, assessment_id, question_id, selected_option, is_correct, score
		 FROM assessment_responses
		 WHERE assessment_id = $1`,
		assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Response, 0)
	for rows.Next() {
		var resp assessment.Response
		if err := rows.Scan(&resp.ID, &resp.AssessmentID, &resp.QuestionID, &resp.SelectedOption, &resp.Correct, &resp.Score); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
