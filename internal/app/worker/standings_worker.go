package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"
	"eventsphere/internal/platform/logger"

	"go.uber.org/zap"
)

const (
	popTimeout   = 5 * time.Second
	errorBackoff = time.Second
)

type EventSource interface {
	Name() string
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
}

// StandingsWorker consumes submission events and credits accepted solves
// to the contest standings.
type StandingsWorker struct {
	events    EventSource
	standings repository.StandingsRepository
}

func NewStandingsWorker(events EventSource, standings repository.StandingsRepository) *StandingsWorker {
	return &StandingsWorker{events: events, standings: standings}
}

// Start blocks until ctx is cancelled.
func (w *StandingsWorker) Start(ctx context.Context) {
	logger.Info(ctx, "Standings worker started", zap.String("queue", w.events.Name()))
	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Standings worker stopping")
			return
		default:
		}

		payload, err := w.events.Pop(ctx, popTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error(ctx, "Failed to pop submission event", zap.Error(err))
			sleep(ctx, errorBackoff)
			continue
		}
		if payload == nil {
			continue
		}
		w.handle(ctx, payload)
	}
}

func (w *StandingsWorker) handle(ctx context.Context, payload []byte) {
	var event model.SubmissionRecordedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn(ctx, "Dropping malformed submission event", zap.ByteString("payload", payload), zap.Error(err))
		return
	}
	if event.Verdict != model.VerdictAccepted {
		return
	}

	changed, err := w.standings.RecordSolve(ctx, event.ContestID, event.UserID, event.QuestionID, event.Score)
	if err != nil {
		logger.Error(ctx, "Failed to update standings",
			zap.String("submission_id", event.SubmissionID),
			zap.String("contest_id", event.ContestID),
			zap.Error(err),
		)
		return
	}
	if changed {
		logger.Info(ctx, "Standings updated",
			zap.String("contest_id", event.ContestID),
			zap.String("user_id", event.UserID),
			zap.String("question_id", event.QuestionID),
			zap.Int("points", event.Score),
		)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
