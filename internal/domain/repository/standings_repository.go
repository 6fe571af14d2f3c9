package repository

import (
	"context"
	"fmt"

	"eventsphere/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

type StandingsRepository interface {
	// RecordSolve credits points to userID the first time questionID is
	// solved. It reports whether the score changed.
	RecordSolve(ctx context.Context, contestID, userID, questionID string, points int) (bool, error)
	Top(ctx context.Context, contestID string, limit int) ([]model.StandingsEntry, error)
}

// KEYS[1] solved set, KEYS[2] standings zset; ARGV question, points, user.
var recordSolveScript = redis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 1 then
    redis.call("ZINCRBY", KEYS[2], ARGV[2], ARGV[3])
    return 1
end
return 0
`)

type redisStandingsRepository struct {
	rdb *redis.Client
}

func NewRedisStandingsRepository(rdb *redis.Client) StandingsRepository {
	return &redisStandingsRepository{rdb: rdb}
}

func solvedKey(contestID, userID string) string {
	return fmt.Sprintf("contest:%s:solved:%s", contestID, userID)
}

func standingsKey(contestID string) string {
	return fmt.Sprintf("contest:%s:standings", contestID)
}

func (r *redisStandingsRepository) RecordSolve(ctx context.Context, contestID, userID, questionID string, points int) (bool, error) {
	keys := []string{solvedKey(contestID, userID), standingsKey(contestID)}
	added, err := recordSolveScript.Run(ctx, r.rdb, keys, questionID, points, userID).Int64()
	if err != nil {
		return false, fmt.Errorf("redisStandingsRepository.RecordSolve: %w", err)
	}
	return added == 1, nil
}

func (r *redisStandingsRepository) Top(ctx context.Context, contestID string, limit int) ([]model.StandingsEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	members, err := r.rdb.ZRevRangeWithScores(ctx, standingsKey(contestID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisStandingsRepository.Top: %w", err)
	}
	entries := make([]model.StandingsEntry, 0, len(members))
	for i, m := range members {
		userID, _ := m.Member.(string)
		entries = append(entries, model.StandingsEntry{Rank: i + 1, UserID: userID, Score: int(m.Score)})
	}
	return entries, nil
}
