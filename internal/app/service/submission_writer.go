package service

import (
	"context"
	"fmt"
	"time"

	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"
	"eventsphere/internal/platform/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher delivers a recorded submission to downstream consumers.
type EventPublisher interface {
	Push(ctx context.Context, v any) error
}

// SubmissionContext carries request metadata stored with a submission.
type SubmissionContext struct {
	UserID    string
	ClientIP  string
	UserAgent string
}

type SubmissionWriter struct {
	submissionRepo  repository.SubmissionRepository
	participantRepo repository.ParticipantRepository
	events          EventPublisher
	now             func() time.Time
}

func NewSubmissionWriter(
	submissionRepo repository.SubmissionRepository,
	participantRepo repository.ParticipantRepository,
	events EventPublisher,
) *SubmissionWriter {
	return &SubmissionWriter{
		submissionRepo:  submissionRepo,
		participantRepo: participantRepo,
		events:          events,
		now:             time.Now,
	}
}

// Record stores the evaluation as a new submission and bumps the
// participant's counter. If the counter update fails the submission is
// kept and an error is still returned.
func (w *SubmissionWriter) Record(ctx context.Context, res *EvaluationResult, sc SubmissionContext) (string, error) {
	now := w.now().UTC()
	sub := &model.Submission{
		ID:              uuid.NewString(),
		ContestID:       res.ContestID,
		QuestionID:      res.QuestionID,
		ParticipantID:   res.ParticipantID,
		UserID:          res.UserID,
		Language:        res.Language,
		Code:            res.Code,
		Verdict:         res.Verdict,
		Score:           res.Score,
		ExecutionTimeMs: res.ExecutionTimeMs,
		MemoryKb:        res.MemoryKb,
		TestResults:     res.TestResults,
		SubmittedAt:     now,
		ClientIP:        sc.ClientIP,
		UserAgent:       sc.UserAgent,
	}

	if err := w.submissionRepo.Create(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to store submission: %w", err)
	}

	if err := w.participantRepo.IncrementSubmissions(ctx, res.ParticipantID, now); err != nil {
		logger.Error(ctx, "Submission stored but participant counter not updated",
			zap.String("submission_id", sub.ID),
			zap.String("participant_id", res.ParticipantID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to update participant counter for submission %s: %w", sub.ID, err)
	}

	if w.events != nil {
		event := model.SubmissionRecordedEvent{
			SubmissionID: sub.ID,
			ContestID:    sub.ContestID,
			QuestionID:   sub.QuestionID,
			UserID:       sub.UserID,
			Verdict:      sub.Verdict,
			Score:        sub.Score,
			SubmittedAt:  sub.SubmittedAt,
		}
		if err := w.events.Push(ctx, event); err != nil {
			logger.Warn(ctx, "Failed to publish submission event", zap.String("submission_id", sub.ID), zap.Error(err))
		}
	}

	return sub.ID, nil
}
