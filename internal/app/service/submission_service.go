package service

import (
	"context"
	"fmt"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type SubmissionService struct {
	evaluator      *EvaluationService
	writer         *SubmissionWriter
	submissionRepo repository.SubmissionRepository
}

func NewSubmissionService(
	evaluator *EvaluationService,
	writer *SubmissionWriter,
	submissionRepo repository.SubmissionRepository,
) *SubmissionService {
	return &SubmissionService{
		evaluator:      evaluator,
		writer:         writer,
		submissionRepo: submissionRepo,
	}
}

type SubmissionResponse struct {
	SubmissionID string             `json:"submission_id"`
	Verdict      model.Verdict      `json:"verdict"`
	Score        int                `json:"score"`
	TestResults  []model.TestResult `json:"test_results"`
}

// CreateSubmission grades the code and records the outcome. Nothing is
// stored when a precondition fails.
func (s *SubmissionService) CreateSubmission(ctx context.Context, sc SubmissionContext, req CreateSubmissionRequest) (*SubmissionResponse, error) {
	res, err := s.evaluator.Evaluate(ctx, sc.UserID, req)
	if err != nil {
		return nil, err
	}

	id, err := s.writer.Record(ctx, res, sc)
	if err != nil {
		return nil, err
	}

	return &SubmissionResponse{
		SubmissionID: id,
		Verdict:      res.Verdict,
		Score:        res.Score,
		TestResults:  res.TestResults,
	}, nil
}

// GetSubmission returns a stored submission to its owner or an admin.
func (s *SubmissionService) GetSubmission(ctx context.Context, id, userID, role string) (*model.Submission, error) {
	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID && role != model.RoleAdmin {
		// Hide existence from other users.
		return nil, common.ErrNotFound
	}
	return sub, nil
}

func (s *SubmissionService) ListMySubmissions(ctx context.Context, userID, contestID string, limit, offset int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)

	subs, err := s.submissionRepo.ListByUser(ctx, userID, contestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}
