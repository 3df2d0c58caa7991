package workqueue

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps queues in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	queues map[string][]*Item
	dead   map[string][]*Item
	signal chan struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		queues: make(map[string][]*Item),
		dead:   make(map[string][]*Item),
		signal: make(chan struct{}, 1),
	}
}

func (s *MemoryStore) Push(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}
	if item.Queue == "" {
		return ErrQueueRequired
	}

	cp := *item
	s.mu.Lock()
	s.queues[item.Queue] = append(s.queues[item.Queue], &cp)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
	return nil
}

func (s *MemoryStore) Pop(ctx context.Context, queues []string, wait time.Duration) (*Item, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		if item := s.tryPop(queues); item != nil {
			return item, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrNoItem
		case <-s.signal:
		}
	}
}

func (s *MemoryStore) tryPop(queues []string) *Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, q := range queues {
		items := s.queues[q]
		i := slices.IndexFunc(items, func(it *Item) bool { return it.Ready(now) })
		if i < 0 {
			continue
		}
		item := items[i]
		s.queues[q] = slices.Delete(items, i, i+1)
		if len(s.queues[q]) > 0 {
			// more work may be waiting for another popper
			select {
			case s.signal <- struct{}{}:
			default:
			}
		}
		return item
	}
	return nil
}

func (s *MemoryStore) DeadLetter(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}
	cp := *item
	s.mu.Lock()
	s.dead[item.Queue] = append(s.dead[item.Queue], &cp)
	s.mu.Unlock()
	return nil
}

// Len returns the number of pending items in queue, delayed ones included.
func (s *MemoryStore) Len(queue string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues[queue])
}

// DeadLetters returns copies of the dead-lettered items of queue.
func (s *MemoryStore) DeadLetters(queue string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.dead[queue]))
	for _, it := range s.dead[queue] {
		out = append(out, *it)
	}
	return out
}
