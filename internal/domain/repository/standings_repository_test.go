package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStandings(t *testing.T) StandingsRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStandingsRepository(rdb)
}

func TestRecordSolveCreditsFirstSolveOnly(t *testing.T) {
	repo := newStandings(t)
	ctx := context.Background()

	changed, err := repo.RecordSolve(ctx, "c1", "alice", "q1", 100)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.RecordSolve(ctx, "c1", "alice", "q1", 100)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.RecordSolve(ctx, "c1", "alice", "q2", 50)
	require.NoError(t, err)
	_, err = repo.RecordSolve(ctx, "c1", "bob", "q1", 100)
	require.NoError(t, err)

	top, err := repo.Top(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].UserID)
	assert.Equal(t, 150, top[0].Score)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "bob", top[1].UserID)
	assert.Equal(t, 2, top[1].Rank)
}

func TestStandingsAreScopedPerContest(t *testing.T) {
	repo := newStandings(t)
	ctx := context.Background()

	_, err := repo.RecordSolve(ctx, "c1", "alice", "q1", 100)
	require.NoError(t, err)

	top, err := repo.Top(ctx, "c2", 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
