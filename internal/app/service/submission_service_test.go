package service

import (
	"context"
	"errors"
	"testing"

	"eventsphere/internal/common"
	"eventsphere/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissionFixture(f *evalFixture) (*SubmissionService, *fakeSubmissionRepo) {
	subs := &fakeSubmissionRepo{}
	writer := NewSubmissionWriter(subs, f.participants, &fakePublisher{})
	return NewSubmissionService(f.svc, writer, subs), subs
}

func TestCreateSubmissionEndToEnd(t *testing.T) {
	f := newEvalFixture(adder, 1)
	svc, subs := newSubmissionFixture(f)

	resp, err := svc.CreateSubmission(context.Background(), SubmissionContext{UserID: "u1"}, validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SubmissionID)
	assert.Equal(t, model.VerdictAccepted, resp.Verdict)
	assert.Equal(t, 100, resp.Score)
	assert.Len(t, resp.TestResults, 2)
	assert.Equal(t, 1, subs.count())
}

func TestCreateSubmissionWrongAnswerEndToEnd(t *testing.T) {
	f := newEvalFixture(constant("0"), 1)
	svc, subs := newSubmissionFixture(f)

	resp, err := svc.CreateSubmission(context.Background(), SubmissionContext{UserID: "u1"}, validRequest())
	require.NoError(t, err)

	assert.Equal(t, model.VerdictWrongAnswer, resp.Verdict)
	assert.Equal(t, 0, resp.Score)
	require.Len(t, resp.TestResults, 1)
	assert.Equal(t, model.TestResult{Input: "2 3", Expected: "5", Output: "0", Pass: false, Verdict: model.VerdictWrongAnswer}, resp.TestResults[0])
	assert.Equal(t, 1, subs.count())
}

func TestCreateSubmissionNotRegisteredStoresNothing(t *testing.T) {
	f := newEvalFixture(adder, 1)
	svc, subs := newSubmissionFixture(f)

	_, err := svc.CreateSubmission(context.Background(), SubmissionContext{UserID: "nobody"}, validRequest())
	require.True(t, errors.Is(err, common.ErrForbidden))
	assert.Zero(t, subs.count())
}

func TestGetSubmissionVisibility(t *testing.T) {
	f := newEvalFixture(adder, 1)
	svc, _ := newSubmissionFixture(f)
	resp, err := svc.CreateSubmission(context.Background(), SubmissionContext{UserID: "u1"}, validRequest())
	require.NoError(t, err)

	sub, err := svc.GetSubmission(context.Background(), resp.SubmissionID, "u1", model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub.UserID)

	_, err = svc.GetSubmission(context.Background(), resp.SubmissionID, "u2", model.RoleUser)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.GetSubmission(context.Background(), resp.SubmissionID, "admin-1", model.RoleAdmin)
	assert.NoError(t, err)
}

func TestListMySubmissionsFiltersByContest(t *testing.T) {
	f := newEvalFixture(adder, 1)
	svc, _ := newSubmissionFixture(f)
	_, err := svc.CreateSubmission(context.Background(), SubmissionContext{UserID: "u1"}, validRequest())
	require.NoError(t, err)

	subs, err := svc.ListMySubmissions(context.Background(), "u1", "c1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	subs, err = svc.ListMySubmissions(context.Background(), "u1", "other", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
