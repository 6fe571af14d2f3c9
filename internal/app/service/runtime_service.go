package service

import (
	"context"
	"fmt"
	"time"

	"eventsphere/internal/common"
	"eventsphere/internal/platform/executor"
	"eventsphere/internal/platform/logger"

	"go.uber.org/zap"
)

const runtimesCacheKey = "piston:runtimes"

type RuntimeLister interface {
	ListRuntimes(ctx context.Context) ([]executor.Runtime, error)
}

type JSONCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// RuntimeService serves the sandbox's runtime list through a read-through cache.
type RuntimeService struct {
	lister RuntimeLister
	cache  JSONCache
	ttl    time.Duration
}

func NewRuntimeService(lister RuntimeLister, cache JSONCache, ttl time.Duration) *RuntimeService {
	return &RuntimeService{lister: lister, cache: cache, ttl: ttl}
}

func (s *RuntimeService) ListRuntimes(ctx context.Context) ([]executor.Runtime, error) {
	if s.cache != nil {
		var cached []executor.Runtime
		found, err := s.cache.Get(ctx, runtimesCacheKey, &cached)
		if err != nil {
			logger.Warn(ctx, "Runtimes cache read failed", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	runtimes, err := s.lister.ListRuntimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, runtimesCacheKey, runtimes, s.ttl); err != nil {
			logger.Warn(ctx, "Runtimes cache write failed", zap.Error(err))
		}
	}
	return runtimes, nil
}
