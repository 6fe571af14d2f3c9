package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/domain/repository"
	"eventsphere/internal/platform/executor"
	"eventsphere/internal/platform/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CodeExecutor runs one program against one stdin.
type CodeExecutor interface {
	Execute(ctx context.Context, language, code, stdin string) executor.ExecutionResult
}

type EvaluationService struct {
	participantRepo repository.ParticipantRepository
	questionRepo    repository.QuestionRepository
	executor        CodeExecutor
	caseTimeout     time.Duration
	parallelism     int
}

type EvaluationOptions struct {
	CaseTimeout time.Duration
	Parallelism int // 1 runs hidden cases one after another
}

func NewEvaluationService(
	participantRepo repository.ParticipantRepository,
	questionRepo repository.QuestionRepository,
	exec CodeExecutor,
	opts EvaluationOptions,
) *EvaluationService {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	return &EvaluationService{
		participantRepo: participantRepo,
		questionRepo:    questionRepo,
		executor:        exec,
		caseTimeout:     opts.CaseTimeout,
		parallelism:     opts.Parallelism,
	}
}

type CreateSubmissionRequest struct {
	ContestID string `json:"contest_id"`
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// EvaluationResult is what the evaluator hands to the record writer.
type EvaluationResult struct {
	ContestID       string
	QuestionID      string
	ParticipantID   string
	UserID          string
	Language        model.Language
	Code            string
	Verdict         model.Verdict
	Score           int
	TestResults     []model.TestResult
	ExecutionTimeMs int
	MemoryKb        int
}

type caseOutcome struct {
	result   model.TestResult
	timeMs   int64
	memoryKb int64
}

// Evaluate checks preconditions, then grades code against the question's
// hidden test cases. The first failing case ends grading with score 0 and is
// the last entry in TestResults.
func (s *EvaluationService) Evaluate(ctx context.Context, userID string, req CreateSubmissionRequest) (*EvaluationResult, error) {
	req.ContestID = strings.TrimSpace(req.ContestID)
	req.ProblemID = strings.TrimSpace(req.ProblemID)
	if userID == "" || req.ContestID == "" || req.ProblemID == "" || req.Language == "" || strings.TrimSpace(req.Code) == "" {
		return nil, common.Errorf("missing required fields: %w", common.ErrBadRequest)
	}
	lang, ok := model.ParseLanguage(req.Language)
	if !ok {
		return nil, common.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	participant, err := s.participantRepo.FindByContestAndUser(ctx, req.ContestID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("not registered for this contest: %w", common.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	question, err := s.questionRepo.FindByID(ctx, req.ProblemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("problem not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question.ContestID != req.ContestID {
		return nil, common.Errorf("problem not found in this contest: %w", common.ErrNotFound)
	}

	cases, err := s.questionRepo.GetTestCases(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}

	var outcomes []caseOutcome
	if s.parallelism > 1 && len(cases) > 1 {
		outcomes = s.runParallel(ctx, lang, req.Code, question, cases)
	} else {
		outcomes = s.runSequential(ctx, lang, req.Code, question, cases)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation aborted: %w", err)
	}

	result := &EvaluationResult{
		ContestID:     req.ContestID,
		QuestionID:    question.ID,
		ParticipantID: participant.ID,
		UserID:        userID,
		Language:      lang,
		Code:          req.Code,
		Verdict:       model.VerdictAccepted,
		Score:         question.Points,
		TestResults:   make([]model.TestResult, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		result.TestResults = append(result.TestResults, o.result)
		result.ExecutionTimeMs = max(result.ExecutionTimeMs, int(o.timeMs))
		result.MemoryKb = max(result.MemoryKb, int(o.memoryKb))
		if !o.result.Pass {
			result.Verdict = o.result.Verdict
			result.Score = 0
		}
	}

	logger.Info(ctx, "Submission evaluated",
		zap.String("contest_id", result.ContestID),
		zap.String("question_id", result.QuestionID),
		zap.String("language", string(lang)),
		zap.String("verdict", string(result.Verdict)),
		zap.Int("cases_run", len(outcomes)),
		zap.Int("cases_total", len(cases)),
	)
	return result, nil
}

func (s *EvaluationService) runSequential(ctx context.Context, lang model.Language, code string, q *model.Question, cases []model.TestCase) []caseOutcome {
	outcomes := make([]caseOutcome, 0, len(cases))
	for _, tc := range cases {
		if ctx.Err() != nil {
			break
		}
		o := s.runCase(ctx, lang, code, q, tc)
		outcomes = append(outcomes, o)
		if !o.result.Pass {
			break
		}
	}
	return outcomes
}

// runParallel runs every case concurrently, then reports only up to the
// first failure by stored order so the result matches runSequential.
func (s *EvaluationService) runParallel(ctx context.Context, lang model.Language, code string, q *model.Question, cases []model.TestCase) []caseOutcome {
	all := make([]caseOutcome, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, tc := range cases {
		g.Go(func() error {
			all[i] = s.runCase(gctx, lang, code, q, tc)
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range all {
		if !o.result.Pass {
			return all[:i+1]
		}
	}
	return all
}

func (s *EvaluationService) runCase(ctx context.Context, lang model.Language, code string, q *model.Question, tc model.TestCase) caseOutcome {
	caseCtx, cancel := withTimeout(ctx, s.caseTimeout)
	defer cancel()

	res := s.executor.Execute(caseCtx, string(lang), code, tc.Input)
	verdict := judge(res, tc.ExpectedOutput, q.TimeLimitMs, q.MemoryLimitKb)

	tr := model.TestResult{
		Input:    tc.Input,
		Expected: strings.TrimSpace(tc.ExpectedOutput),
		Output:   strings.TrimSpace(res.Output),
		Pass:     verdict == model.VerdictAccepted,
	}
	if !tr.Pass {
		tr.Verdict = verdict
		tr.Stderr = res.Stderr
		if res.CompileFailed {
			tr.Output = res.CompileOutput
		}
	}
	return caseOutcome{result: tr, timeMs: res.Time, memoryKb: res.Memory / 1024}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
