package api

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"
	"time"

	"eventsphere/internal/app/service"
	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/platform/executor"
)

// sumExecutor prints the sum of the integers on stdin.
type sumExecutor struct{}

func (sumExecutor) Execute(_ context.Context, _, _, stdin string) executor.ExecutionResult {
	sum := 0
	for _, f := range strings.Fields(stdin) {
		n, _ := strconv.Atoi(f)
		sum += n
	}
	return executor.ExecutionResult{Success: true, Output: strconv.Itoa(sum) + "\n"}
}

type memQuestions struct {
	questions map[string]*model.Question
	cases     map[string][]model.TestCase
}

func (m *memQuestions) Create(context.Context, *sql.Tx, *model.Question) error { return nil }

func (m *memQuestions) FindByID(_ context.Context, id string) (*model.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return q, nil
}

func (m *memQuestions) AddSamples(context.Context, *sql.Tx, string, []model.Sample) error { return nil }

func (m *memQuestions) GetSamples(context.Context, string) ([]model.Sample, error) { return nil, nil }

func (m *memQuestions) AddTestCases(context.Context, *sql.Tx, string, []model.TestCase) error {
	return nil
}

func (m *memQuestions) GetTestCases(_ context.Context, questionID string) ([]model.TestCase, error) {
	return m.cases[questionID], nil
}

type memParticipants struct {
	mu     sync.Mutex
	byKey  map[string]*model.Participant
	counts map[string]int
}

func (m *memParticipants) Create(context.Context, *model.Participant) error { return nil }

func (m *memParticipants) FindByContestAndUser(_ context.Context, contestID, userID string) (*model.Participant, error) {
	p, ok := m.byKey[contestID+"|"+userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (m *memParticipants) IncrementSubmissions(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[id]++
	return nil
}

type memSubmissions struct {
	mu    sync.Mutex
	saved []*model.Submission
}

func (m *memSubmissions) Create(_ context.Context, sub *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, sub)
	return nil
}

func (m *memSubmissions) FindByID(context.Context, string) (*model.Submission, error) {
	return nil, common.ErrNotFound
}

func (m *memSubmissions) ListByUser(context.Context, string, string, int, int) ([]model.Submission, error) {
	return nil, nil
}

type submissionStack struct {
	participants *memParticipants
	submissions  *memSubmissions
	service      *service.SubmissionService
}

// newSubmissionStack registers user-1 in contest c1, whose question q1 has
// the hidden cases "2 3"->"5" and "10 20"->"30". Question q2 belongs to c2.
func newSubmissionStack() *submissionStack {
	questions := &memQuestions{
		questions: map[string]*model.Question{
			"q1": {ID: "q1", ContestID: "c1", Points: 100},
			"q2": {ID: "q2", ContestID: "c2", Points: 50},
		},
		cases: map[string][]model.TestCase{
			"q1": {
				{ID: "t1", Input: "2 3", ExpectedOutput: "5", SortOrder: 1},
				{ID: "t2", Input: "10 20", ExpectedOutput: "30", SortOrder: 2},
			},
		},
	}
	participants := &memParticipants{
		byKey:  map[string]*model.Participant{"c1|user-1": {ID: "p1", ContestID: "c1", UserID: "user-1"}},
		counts: map[string]int{},
	}
	submissions := &memSubmissions{}

	evaluator := service.NewEvaluationService(participants, questions, sumExecutor{}, service.EvaluationOptions{CaseTimeout: time.Second})
	writer := service.NewSubmissionWriter(submissions, participants, nil)
	return &submissionStack{
		participants: participants,
		submissions:  submissions,
		service:      service.NewSubmissionService(evaluator, writer, submissions),
	}
}
