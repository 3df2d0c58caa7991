package workqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces queue keys in Redis.
const DefaultKeyPrefix = "notifykit:queue:"

// RedisStore keeps each queue in a Redis list. Items are pushed with LPUSH
// and popped with BRPOP, so each list is FIFO. Items held back by NotBefore
// wait in a sorted set scored by due time and move to the list once due.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store on top of an established client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(queue string) string        { return s.prefix + queue }
func (s *RedisStore) deadKey(queue string) string    { return s.prefix + queue + ":dead" }
func (s *RedisStore) delayedKey(queue string) string { return s.prefix + queue + ":delayed" }

// promoteDue moves members of the delayed set (KEYS[1]) scored at or below
// ARGV[1] onto the queue list (KEYS[2]).
var promoteDue = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 100)
for _, v in ipairs(due) do
	redis.call('ZREM', KEYS[1], v)
	redis.call('LPUSH', KEYS[2], v)
end
return #due
`)

func (s *RedisStore) Push(ctx context.Context, item *Item) error {
	if item.Queue == "" {
		return ErrQueueRequired
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if !item.Ready(time.Now()) {
		return s.client.ZAdd(ctx, s.delayedKey(item.Queue), redis.Z{
			Score:  float64(item.NotBefore.UnixMilli()),
			Member: data,
		}).Err()
	}
	return s.client.LPush(ctx, s.key(item.Queue), data).Err()
}

func (s *RedisStore) Pop(ctx context.Context, queues []string, wait time.Duration) (*Item, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	keys := make([]string, len(queues))
	for i, q := range queues {
		keys[i] = s.key(q)
		if err := promoteDue.Run(ctx, s.client, []string{s.delayedKey(q), keys[i]}, now).Err(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to promote delayed items of %s: %w", q, err)
		}
	}

	res, err := s.client.BRPop(ctx, wait, keys...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoItem
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	// res is [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
	}

	var item Item
	if err := json.Unmarshal([]byte(res[1]), &item); err != nil {
		return nil, fmt.Errorf("failed to decode item from %s: %w", res[0], err)
	}
	if item.Queue == "" {
		item.Queue = strings.TrimPrefix(res[0], s.prefix)
	}
	return &item, nil
}

func (s *RedisStore) DeadLetter(ctx context.Context, item *Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	return s.client.LPush(ctx, s.deadKey(item.Queue), data).Err()
}

// Len returns the number of ready items in queue.
func (s *RedisStore) Len(ctx context.Context, queue string) (int64, error) {
	return s.client.LLen(ctx, s.key(queue)).Result()
}

// Delayed returns the number of items in queue waiting for their retry time.
func (s *RedisStore) Delayed(ctx context.Context, queue string) (int64, error) {
	return s.client.ZCard(ctx, s.delayedKey(queue)).Result()
}

// DeadLetters returns the dead-lettered items of queue, oldest first.
func (s *RedisStore) DeadLetters(ctx context.Context, queue string) ([]Item, error) {
	raw, err := s.client.LRange(ctx, s.deadKey(queue), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var it Item
		if err := json.Unmarshal([]byte(raw[i]), &it); err != nil {
			return nil, fmt.Errorf("failed to decode dead letter: %w", err)
		}
		out = append(out, it)
	}
	return out, nil
}
