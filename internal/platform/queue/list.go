package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListQueue is a FIFO over a Redis list: LPUSH to enqueue, BRPOP to dequeue.
type ListQueue struct {
	rdb  *redis.Client
	name string
}

func NewListQueue(rdb *redis.Client, name string) *ListQueue {
	return &ListQueue{rdb: rdb, name: name}
}

func (q *ListQueue) Name() string { return q.name }

// Push JSON-encodes v onto the queue.
func (q *ListQueue) Push(ctx context.Context, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("queue.Push %s: encode: %w", q.name, err)
	}
	if err := q.rdb.LPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("queue.Push %s: %w", q.name, err)
	}
	return nil
}

// Pop blocks for up to timeout. It returns (nil, nil) when nothing arrived.
func (q *ListQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue.Pop %s: %w", q.name, err)
	}
	// res[0] is the list name, res[1] the value.
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}
