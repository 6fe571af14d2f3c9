package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eventsphere/internal/domain/model"
)

// SubmissionRepository has no update path: a submission is written once.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	// ListByUser returns newest first. An empty contestID lists every contest.
	ListByUser(ctx context.Context, userID, contestID string, limit, offset int) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	results := s.TestResults
	if results == nil {
		results = []model.TestResult{}
	}
	rawResults, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create encode results: %w", err)
	}

	query := `INSERT INTO submissions (id, contest_id, question_id, participant_id, user_id, language, code,
	                                   verdict, score, execution_time_ms, memory_kb, test_results,
	                                   submitted_at, client_ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.ContestID, s.QuestionID, s.ParticipantID, s.UserID, s.Language, s.Code,
		s.Verdict, s.Score, s.ExecutionTimeMs, s.MemoryKb, rawResults,
		s.SubmittedAt, s.ClientIP, s.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, contest_id, question_id, participant_id, user_id, language, code,
	                 verdict, score, execution_time_ms, memory_kb, test_results,
	                 submitted_at, client_ip, user_agent
	          FROM submissions WHERE id = $1`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		return nil, lookupErr("pgSubmissionRepository.FindByID", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID, contestID string, limit, offset int) ([]model.Submission, error) {
	query := `SELECT id, contest_id, question_id, participant_id, user_id, language, '',
	                 verdict, score, execution_time_ms, memory_kb, '[]'::jsonb,
	                 submitted_at, client_ip, user_agent
	          FROM submissions
	          WHERE user_id = $1 AND ($2 = '' OR contest_id::text = $2)
	          ORDER BY submitted_at DESC
	          LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, contestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows, false)
		if err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser rows.Err: %w", err)
	}
	return subs, nil
}

func scanSubmission(row rowScanner, withResults bool) (*model.Submission, error) {
	s := &model.Submission{}
	var rawResults []byte
	err := row.Scan(
		&s.ID, &s.ContestID, &s.QuestionID, &s.ParticipantID, &s.UserID, &s.Language, &s.Code,
		&s.Verdict, &s.Score, &s.ExecutionTimeMs, &s.MemoryKb, &rawResults,
		&s.SubmittedAt, &s.ClientIP, &s.UserAgent,
	)
	if err != nil {
		return nil, err
	}
	if withResults && len(rawResults) > 0 {
		if err := json.Unmarshal(rawResults, &s.TestResults); err != nil {
			return nil, fmt.Errorf("decode test results: %w", err)
		}
	}
	return s, nil
}
