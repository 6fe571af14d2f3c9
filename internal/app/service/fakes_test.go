package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"
	"eventsphere/internal/platform/executor"
)

// fakeExecutor answers from a function of stdin and counts calls.
type fakeExecutor struct {
	mu     sync.Mutex
	calls  int32
	stdins []string
	run    func(ctx context.Context, language, code, stdin string) executor.ExecutionResult
}

func (f *fakeExecutor) Execute(ctx context.Context, language, code, stdin string) executor.ExecutionResult {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.stdins = append(f.stdins, stdin)
	f.mu.Unlock()
	return f.run(ctx, language, code, stdin)
}

func (f *fakeExecutor) callCount() int { return int(atomic.LoadInt32(&f.calls)) }

// adder behaves like a correct program that sums whitespace separated ints.
func adder(_ context.Context, _, _, stdin string) executor.ExecutionResult {
	sum := 0
	for _, f := range strings.Fields(stdin) {
		n, _ := strconv.Atoi(f)
		sum += n
	}
	return executor.ExecutionResult{Success: true, Output: strconv.Itoa(sum) + "\n", Time: 10, Memory: 4 << 20}
}

func constant(out string) func(context.Context, string, string, string) executor.ExecutionResult {
	return func(context.Context, string, string, string) executor.ExecutionResult {
		return executor.ExecutionResult{Success: true, Output: out}
	}
}

type fakeQuestionRepo struct {
	questions map[string]*model.Question
	cases     map[string][]model.TestCase
	samples   map[string][]model.Sample
	err       error
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: map[string]*model.Question{},
		cases:     map[string][]model.TestCase{},
		samples:   map[string][]model.Sample{},
	}
}

func (r *fakeQuestionRepo) Create(ctx context.Context, tx *sql.Tx, q *model.Question) error {
	r.questions[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) FindByID(ctx context.Context, id string) (*model.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	q, ok := r.questions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) AddSamples(ctx context.Context, tx *sql.Tx, questionID string, samples []model.Sample) error {
	r.samples[questionID] = samples
	return nil
}

func (r *fakeQuestionRepo) GetSamples(ctx context.Context, questionID string) ([]model.Sample, error) {
	return r.samples[questionID], nil
}

func (r *fakeQuestionRepo) AddTestCases(ctx context.Context, tx *sql.Tx, questionID string, testCases []model.TestCase) error {
	r.cases[questionID] = testCases
	return nil
}

func (r *fakeQuestionRepo) GetTestCases(ctx context.Context, questionID string) ([]model.TestCase, error) {
	return r.cases[questionID], nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[string]*model.Participant // key contest|user
	incrementErr error
	created      []*model.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: map[string]*model.Participant{}}
}

func (r *fakeParticipantRepo) add(p *model.Participant) {
	r.participants[p.ContestID+"|"+p.UserID] = p
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[p.ContestID+"|"+p.UserID]; ok {
		return common.ErrConflict
	}
	r.add(p)
	r.created = append(r.created, p)
	return nil
}

func (r *fakeParticipantRepo) FindByContestAndUser(ctx context.Context, contestID, userID string) (*model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[contestID+"|"+userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) IncrementSubmissions(ctx context.Context, participantID string, at time.Time) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ID == participantID {
			p.SubmissionsCount++
			t := at
			p.LastActivityAt = &t
			return nil
		}
	}
	return errors.New("participant does not exist")
}

type fakeSubmissionRepo struct {
	mu        sync.Mutex
	stored    []*model.Submission
	createErr error
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, s)
	return nil
}

func (r *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stored {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeSubmissionRepo) ListByUser(ctx context.Context, userID, contestID string, limit, offset int) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, s := range r.stored {
		if s.UserID == userID && (contestID == "" || s.ContestID == contestID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *fakePublisher) Push(ctx context.Context, v any) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, v)
	return nil
}

type fakeContestRepo struct {
	contests map[string]*model.Contest
}

func (r *fakeContestRepo) Create(ctx context.Context, c *model.Contest) error {
	if r.contests == nil {
		r.contests = map[string]*model.Contest{}
	}
	r.contests[c.ID] = c
	return nil
}

func (r *fakeContestRepo) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	c, ok := r.contests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}
