package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"
	"eventsphere/internal/platform/executor"
	"eventsphere/internal/platform/logger"

	"go.uber.org/zap"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type PracticeService struct {
	executor     CodeExecutor
	questionRepo repository.QuestionRepository
	limiter      RateLimiter
	limit        int
	window       time.Duration
	caseTimeout  time.Duration
}

type PracticeOptions struct {
	RateLimit   int // runs per window, 0 disables
	RateWindow  time.Duration
	CaseTimeout time.Duration
}

func NewPracticeService(exec CodeExecutor, questionRepo repository.QuestionRepository, limiter RateLimiter, opts PracticeOptions) *PracticeService {
	return &PracticeService{
		executor:     exec,
		questionRepo: questionRepo,
		limiter:      limiter,
		limit:        opts.RateLimit,
		window:       opts.RateWindow,
		caseTimeout:  opts.CaseTimeout,
	}
}

type PracticeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin"`
}

type SampleRunRequest struct {
	QuestionID string `json:"question_id"`
	Language   string `json:"language"`
	Code       string `json:"code"`
}

// RunPractice executes code once against the caller's stdin. Execution
// failures come back as a result with Success=false, not as an error.
func (s *PracticeService) RunPractice(ctx context.Context, userID string, req PracticeRequest) (*executor.ExecutionResult, error) {
	if strings.TrimSpace(req.Language) == "" || strings.TrimSpace(req.Code) == "" {
		return nil, common.Errorf("language and code are required: %w", common.ErrBadRequest)
	}
	if err := s.checkRate(ctx, userID); err != nil {
		return nil, err
	}

	runCtx, cancel := withTimeout(ctx, s.caseTimeout)
	defer cancel()
	res := s.executor.Execute(runCtx, req.Language, req.Code, req.Stdin)
	return &res, nil
}

// RunSamples runs code against every public sample of a question without
// grading or persisting anything.
func (s *PracticeService) RunSamples(ctx context.Context, userID string, req SampleRunRequest) ([]model.TestResult, error) {
	if strings.TrimSpace(req.QuestionID) == "" || strings.TrimSpace(req.Language) == "" || strings.TrimSpace(req.Code) == "" {
		return nil, common.Errorf("question_id, language and code are required: %w", common.ErrBadRequest)
	}
	lang, ok := model.ParseLanguage(req.Language)
	if !ok {
		return nil, common.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	question, err := s.questionRepo.FindByID(ctx, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	samples, err := s.questionRepo.GetSamples(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	if err := s.checkRate(ctx, userID); err != nil {
		return nil, err
	}

	results := make([]model.TestResult, 0, len(samples))
	for _, sample := range samples {
		runCtx, cancel := withTimeout(ctx, s.caseTimeout)
		res := s.executor.Execute(runCtx, string(lang), req.Code, sample.Input)
		cancel()

		verdict := judge(res, sample.ExpectedOutput, question.TimeLimitMs, question.MemoryLimitKb)
		tr := model.TestResult{
			Input:    sample.Input,
			Expected: strings.TrimSpace(sample.ExpectedOutput),
			Output:   strings.TrimSpace(res.Output),
			Pass:     verdict == model.VerdictAccepted,
			Verdict:  verdict,
			Stderr:   res.Stderr,
		}
		if res.CompileFailed {
			tr.Output = res.CompileOutput
		}
		results = append(results, tr)
	}
	return results, nil
}

func (s *PracticeService) checkRate(ctx context.Context, userID string) error {
	if s.limiter == nil || s.limit <= 0 {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, "practice:"+userID, s.limit, s.window)
	if err != nil {
		// Fail open.
		logger.Warn(ctx, "Practice rate limiter unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return common.Errorf("practice run limit reached, try again later: %w", common.ErrTooManyRequests)
	}
	return nil
}
