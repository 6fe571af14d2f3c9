package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *model.Participant) error
	FindByContestAndUser(ctx context.Context, contestID, userID string) (*model.Participant, error)
	// IncrementSubmissions bumps submissions_count in a single statement and
	// stamps last_activity_at.
	IncrementSubmissions(ctx context.Context, participantID string, at time.Time) error
}

type pgParticipantRepository struct {
	db *sql.DB
}

func NewPgParticipantRepository(db *sql.DB) ParticipantRepository {
	return &pgParticipantRepository{db: db}
}

func (r *pgParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	query := `INSERT INTO participants (id, contest_id, user_id)
	          VALUES ($1, $2, $3)
	          RETURNING registered_at, submissions_count`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.ContestID, p.UserID).Scan(&p.RegisteredAt, &p.SubmissionsCount)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("already registered for this contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgParticipantRepository.Create: %w", err)
	}
	return nil
}

func (r *pgParticipantRepository) FindByContestAndUser(ctx context.Context, contestID, userID string) (*model.Participant, error) {
	query := `SELECT id, contest_id, user_id, registered_at, submissions_count, last_activity_at
	          FROM participants WHERE contest_id = $1 AND user_id = $2`
	p := &model.Participant{}
	var lastActivity sql.NullTime
	err := r.db.QueryRowContext(ctx, query, contestID, userID).Scan(
		&p.ID, &p.ContestID, &p.UserID, &p.RegisteredAt, &p.SubmissionsCount, &lastActivity,
	)
	if err != nil {
		return nil, lookupErr("pgParticipantRepository.FindByContestAndUser", err)
	}
	if lastActivity.Valid {
		p.LastActivityAt = &lastActivity.Time
	}
	return p, nil
}

func (r *pgParticipantRepository) IncrementSubmissions(ctx context.Context, participantID string, at time.Time) error {
	query := `UPDATE participants
	          SET submissions_count = submissions_count + 1, last_activity_at = $2
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, participantID, at)
	if err != nil {
		return fmt.Errorf("pgParticipantRepository.IncrementSubmissions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgParticipantRepository.IncrementSubmissions rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pgParticipantRepository.IncrementSubmissions: participant %s does not exist", participantID)
	}
	return nil
}
