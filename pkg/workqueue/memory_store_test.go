package workqueue_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

func TestMemoryStore_FIFOAcrossQueues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workqueue.NewMemoryStore()

	first := &workqueue.Item{ID: uuid.New(), Queue: "a"}
	second := &workqueue.Item{ID: uuid.New(), Queue: "a"}
	other := &workqueue.Item{ID: uuid.New(), Queue: "b"}
	require.NoError(t, s.Push(ctx, first))
	require.NoError(t, s.Push(ctx, second))
	require.NoError(t, s.Push(ctx, other))

	got, err := s.Pop(ctx, []string{"a", "b"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = s.Pop(ctx, []string{"a", "b"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = s.Pop(ctx, []string{"a", "b"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)

	_, err = s.Pop(ctx, []string{"a", "b"}, 5*time.Millisecond)
	require.ErrorIs(t, err, workqueue.ErrNoItem)
}

func TestMemoryStore_PopWaitsForPush(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workqueue.NewMemoryStore()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = s.Push(ctx, &workqueue.Item{ID: uuid.New(), Queue: "a"})
	}()

	got, err := s.Pop(ctx, []string{"a"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Queue)
}

func TestMemoryStore_DelayedItem(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := workqueue.NewMemoryStore()

	delayed := &workqueue.Item{ID: uuid.New(), Queue: "a", NotBefore: time.Now().Add(50 * time.Millisecond)}
	ready := &workqueue.Item{ID: uuid.New(), Queue: "a"}
	require.NoError(t, s.Push(ctx, delayed))
	require.NoError(t, s.Push(ctx, ready))

	got, err := s.Pop(ctx, []string{"a"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, ready.ID, got.ID, "ready items overtake delayed ones")

	_, err = s.Pop(ctx, []string{"a"}, 5*time.Millisecond)
	require.ErrorIs(t, err, workqueue.ErrNoItem)
	assert.Equal(t, 1, s.Len("a"))

	time.Sleep(60 * time.Millisecond)
	got, err = s.Pop(ctx, []string{"a"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, delayed.ID, got.ID)
}

func TestMemoryStore_PopCanceled(t *testing.T) {
	t.Parallel()

	s := workqueue.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Pop(ctx, []string{"a"}, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_DeadLetter(t *testing.T) {
	t.Parallel()

	s := workqueue.NewMemoryStore()
	item := &workqueue.Item{ID: uuid.New(), Queue: "a", LastError: "boom"}
	require.NoError(t, s.DeadLetter(context.Background(), item))

	dead := s.DeadLetters("a")
	require.Len(t, dead, 1)
	assert.Equal(t, "boom", dead[0].LastError)
	assert.Zero(t, s.Len("a"))
}
