package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/platform/cache"
	"eventsphere/internal/platform/executor"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	calls    int
	runtimes []executor.Runtime
	err      error
}

func (f *fakeLister) ListRuntimes(ctx context.Context) ([]executor.Runtime, error) {
	f.calls++
	return f.runtimes, f.err
}

func TestListRuntimesIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	lister := &fakeLister{runtimes: []executor.Runtime{{Language: "python", Version: "3.10.0", Aliases: []string{"py"}}}}
	svc := NewRuntimeService(lister, cache.NewJSONCache(rdb), time.Minute)

	for i := 0; i < 3; i++ {
		got, err := svc.ListRuntimes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, lister.runtimes, got)
	}
	assert.Equal(t, 1, lister.calls)

	mr.FastForward(2 * time.Minute)
	_, err := svc.ListRuntimes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}

func TestListRuntimesUpstreamFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svc := NewRuntimeService(&fakeLister{err: errors.New("502")}, cache.NewJSONCache(rdb), time.Minute)

	_, err := svc.ListRuntimes(context.Background())
	assert.True(t, errors.Is(err, common.ErrServiceUnavailable))
}
