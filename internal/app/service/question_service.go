package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	defaultPoints        = 100
	defaultTimeLimitMs   = 2000
	defaultMemoryLimitKb = 262144
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	contestRepo  repository.ContestRepository
	db           *sql.DB // For transactions
}

func NewQuestionService(questionRepo repository.QuestionRepository, contestRepo repository.ContestRepository, db *sql.DB) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		contestRepo:  contestRepo,
		db:           db,
	}
}

type CreateQuestionRequest struct {
	ContestID          string            `json:"contest_id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Points             int               `json:"points"`
	TimeLimitMs        int               `json:"time_limit_ms"`
	MemoryLimitKb      int               `json:"memory_limit_kb"`
	ReferenceSolutions map[string]string `json:"reference_solutions"`
	Samples            []model.Sample    `json:"samples"`
	TestCases          []model.TestCase  `json:"test_cases"`
}

func (r *CreateQuestionRequest) validate() error {
	if strings.TrimSpace(r.ContestID) == "" || strings.TrimSpace(r.Title) == "" || len(r.TestCases) == 0 {
		return common.Errorf("contest_id, title and at least one test case are required: %w", common.ErrBadRequest)
	}
	if r.Points < 0 || r.TimeLimitMs < 0 || r.MemoryLimitKb < 0 {
		return common.Errorf("points and limits must not be negative: %w", common.ErrValidation)
	}
	for lang := range r.ReferenceSolutions {
		if _, ok := model.ParseLanguage(lang); !ok {
			return common.Errorf("reference solution for unsupported language %q: %w", lang, common.ErrValidation)
		}
	}
	return nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := s.contestRepo.FindByID(ctx, req.ContestID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("contest not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load contest: %w", err)
	}

	q := &model.Question{
		ID:                 uuid.NewString(),
		ContestID:          req.ContestID,
		Title:              strings.TrimSpace(req.Title),
		Slug:               slug.Make(req.Title),
		Description:        req.Description,
		Points:             req.Points,
		TimeLimitMs:        req.TimeLimitMs,
		MemoryLimitKb:      req.MemoryLimitKb,
		ReferenceSolutions: req.ReferenceSolutions,
	}
	if q.Points == 0 {
		q.Points = defaultPoints
	}
	if q.TimeLimitMs == 0 {
		q.TimeLimitMs = defaultTimeLimitMs
	}
	if q.MemoryLimitKb == 0 {
		q.MemoryLimitKb = defaultMemoryLimitKb
	}
	for i := range req.Samples {
		if req.Samples[i].ID == "" {
			req.Samples[i].ID = uuid.NewString()
		}
	}
	for i := range req.TestCases {
		if req.TestCases[i].ID == "" {
			req.TestCases[i].ID = uuid.NewString()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.questionRepo.Create(ctx, tx, q); err != nil {
		return nil, common.Errorf("failed to create question: %w", err)
	}
	if err := s.questionRepo.AddSamples(ctx, tx, q.ID, req.Samples); err != nil {
		return nil, common.Errorf("failed to add samples: %w", err)
	}
	if err := s.questionRepo.AddTestCases(ctx, tx, q.ID, req.TestCases); err != nil {
		return nil, common.Errorf("failed to add test cases: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	q.Samples = req.Samples
	q.TestCases = req.TestCases
	return q, nil
}

// GetQuestion returns the statement and samples. Hidden test cases and
// reference solutions are only included for admins.
func (s *QuestionService) GetQuestion(ctx context.Context, id, role string) (*model.Question, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	samples, err := s.questionRepo.GetSamples(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	q.Samples = samples

	if role != model.RoleAdmin {
		q.ReferenceSolutions = nil
		return q, nil
	}

	cases, err := s.questionRepo.GetTestCases(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	q.TestCases = cases
	return q, nil
}
