package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
)

type QuestionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, q *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)

	AddSamples(ctx context.Context, tx *sql.Tx, questionID string, samples []model.Sample) error
	GetSamples(ctx context.Context, questionID string) ([]model.Sample, error)

	AddTestCases(ctx context.Context, tx *sql.Tx, questionID string, testCases []model.TestCase) error
	// GetTestCases returns hidden cases in their stored order.
	GetTestCases(ctx context.Context, questionID string) ([]model.TestCase, error)
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

func (r *pgQuestionRepository) Create(ctx context.Context, tx *sql.Tx, q *model.Question) error {
	solutions := q.ReferenceSolutions
	if solutions == nil {
		solutions = map[string]string{}
	}
	rawSolutions, err := json.Marshal(solutions)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.Create encode solutions: %w", err)
	}

	query := `INSERT INTO questions (id, contest_id, title, slug, description, points, time_limit_ms, memory_limit_kb, reference_solutions)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	err = conn(r.db, tx).QueryRowContext(ctx, query,
		q.ID, q.ContestID, q.Title, q.Slug, q.Description, q.Points, q.TimeLimitMs, q.MemoryLimitKb, rawSolutions,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("question with this slug already exists in the contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgQuestionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	query := `SELECT id, contest_id, title, slug, description, points, time_limit_ms, memory_limit_kb,
	                 reference_solutions, created_at, updated_at
	          FROM questions WHERE id = $1`
	q := &model.Question{}
	var rawSolutions []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.ContestID, &q.Title, &q.Slug, &q.Description, &q.Points, &q.TimeLimitMs, &q.MemoryLimitKb,
		&rawSolutions, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, lookupErr("pgQuestionRepository.FindByID", err)
	}
	if len(rawSolutions) > 0 {
		if err := json.Unmarshal(rawSolutions, &q.ReferenceSolutions); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.FindByID decode solutions: %w", err)
		}
	}
	return q, nil
}

func (r *pgQuestionRepository) AddSamples(ctx context.Context, tx *sql.Tx, questionID string, samples []model.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO question_samples (id, question_id, input, expected_output, explanation, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.AddSamples prepare: %w", err)
	}
	defer stmt.Close()

	for i := range samples {
		s := &samples[i]
		s.QuestionID = questionID
		s.SortOrder = i + 1
		if _, err := stmt.ExecContext(ctx, s.ID, questionID, s.Input, s.ExpectedOutput, s.Explanation, s.SortOrder); err != nil {
			return fmt.Errorf("pgQuestionRepository.AddSamples exec for sample %s: %w", s.ID, err)
		}
	}
	return nil
}

func (r *pgQuestionRepository) GetSamples(ctx context.Context, questionID string) ([]model.Sample, error) {
	query := `SELECT id, question_id, input, expected_output, explanation, sort_order
	          FROM question_samples WHERE question_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.GetSamples query: %w", err)
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		var s model.Sample
		if err := rows.Scan(&s.ID, &s.QuestionID, &s.Input, &s.ExpectedOutput, &s.Explanation, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.GetSamples scan: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.GetSamples rows.Err: %w", err)
	}
	return samples, nil
}

func (r *pgQuestionRepository) AddTestCases(ctx context.Context, tx *sql.Tx, questionID string, testCases []model.TestCase) error {
	if len(testCases) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO question_test_cases (id, question_id, input, expected_output, sort_order) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.AddTestCases prepare: %w", err)
	}
	defer stmt.Close()

	for i := range testCases {
		tc := &testCases[i]
		tc.QuestionID = questionID
		tc.SortOrder = i + 1
		if _, err := stmt.ExecContext(ctx, tc.ID, questionID, tc.Input, tc.ExpectedOutput, tc.SortOrder); err != nil {
			return fmt.Errorf("pgQuestionRepository.AddTestCases exec for case %s: %w", tc.ID, err)
		}
	}
	return nil
}

func (r *pgQuestionRepository) GetTestCases(ctx context.Context, questionID string) ([]model.TestCase, error) {
	query := `SELECT id, question_id, input, expected_output, sort_order
	          FROM question_test_cases WHERE question_id = $1 ORDER BY sort_order ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.GetTestCases query: %w", err)
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.QuestionID, &tc.Input, &tc.ExpectedOutput, &tc.SortOrder); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.GetTestCases scan: %w", err)
		}
		cases = append(cases, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.GetTestCases rows.Err: %w", err)
	}
	return cases, nil
}
