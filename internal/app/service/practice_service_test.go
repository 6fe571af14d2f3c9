package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/platform/cache"
	"eventsphere/internal/platform/executor"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPracticeDelegatesToExecutor(t *testing.T) {
	exec := &fakeExecutor{run: adder}
	svc := NewPracticeService(exec, newFakeQuestionRepo(), nil, PracticeOptions{})

	res, err := svc.RunPractice(context.Background(), "u1", PracticeRequest{Language: "python", Code: "x", Stdin: "4 5"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "9\n", res.Output)
	assert.Equal(t, []string{"4 5"}, exec.stdins)
}

func TestRunPracticeReturnsFailureShapeAsData(t *testing.T) {
	exec := &fakeExecutor{run: func(context.Context, string, string, string) executor.ExecutionResult {
		return executor.ExecutionResult{Success: false, Output: "execution service unreachable"}
	}}
	svc := NewPracticeService(exec, newFakeQuestionRepo(), nil, PracticeOptions{})

	res, err := svc.RunPractice(context.Background(), "u1", PracticeRequest{Language: "python", Code: "x"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "execution service unreachable", res.Output)
}

func TestRunPracticeRequiresLanguageAndCode(t *testing.T) {
	exec := &fakeExecutor{run: adder}
	svc := NewPracticeService(exec, newFakeQuestionRepo(), nil, PracticeOptions{})

	_, err := svc.RunPractice(context.Background(), "u1", PracticeRequest{Code: "x"})
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	_, err = svc.RunPractice(context.Background(), "u1", PracticeRequest{Language: "python"})
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	assert.Zero(t, exec.callCount())
}

func TestRunPracticeRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exec := &fakeExecutor{run: adder}
	svc := NewPracticeService(exec, newFakeQuestionRepo(), cache.NewRateLimiter(rdb, "rl:"), PracticeOptions{RateLimit: 2, RateWindow: time.Minute})
	req := PracticeRequest{Language: "python", Code: "x"}

	for i := 0; i < 2; i++ {
		_, err := svc.RunPractice(context.Background(), "u1", req)
		require.NoError(t, err)
	}
	_, err := svc.RunPractice(context.Background(), "u1", req)
	assert.True(t, errors.Is(err, common.ErrTooManyRequests))
	assert.Equal(t, 2, exec.callCount())

	_, err = svc.RunPractice(context.Background(), "u2", req)
	assert.NoError(t, err)
}

func TestRunPracticeFailsOpenWhenLimiterDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	svc := NewPracticeService(&fakeExecutor{run: adder}, newFakeQuestionRepo(), cache.NewRateLimiter(rdb, "rl:"), PracticeOptions{RateLimit: 1, RateWindow: time.Minute})

	_, err := svc.RunPractice(context.Background(), "u1", PracticeRequest{Language: "python", Code: "x"})
	assert.NoError(t, err)
}

func TestRunSamplesRunsEverySample(t *testing.T) {
	questions := newFakeQuestionRepo()
	questions.questions["q1"] = &model.Question{ID: "q1", ContestID: "c1", TimeLimitMs: 1000}
	questions.samples["q1"] = []model.Sample{
		{Input: "1 2", ExpectedOutput: "3"},
		{Input: "2 2", ExpectedOutput: "5"},
		{Input: "5 5", ExpectedOutput: "10\n"},
	}
	exec := &fakeExecutor{run: adder}
	svc := NewPracticeService(exec, questions, nil, PracticeOptions{})

	results, err := svc.RunSamples(context.Background(), "u1", SampleRunRequest{QuestionID: "q1", Language: "go", Code: "x"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Pass)
	assert.False(t, results[1].Pass)
	assert.Equal(t, model.VerdictWrongAnswer, results[1].Verdict)
	assert.True(t, results[2].Pass)
	assert.Equal(t, 3, exec.callCount())
}

func TestRunSamplesUnknownQuestion(t *testing.T) {
	svc := NewPracticeService(&fakeExecutor{run: adder}, newFakeQuestionRepo(), nil, PracticeOptions{})

	_, err := svc.RunSamples(context.Background(), "u1", SampleRunRequest{QuestionID: "nope", Language: "go", Code: "x"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
