package workqueue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

type failingStore struct{ workqueue.Store }

func (failingStore) Push(context.Context, *workqueue.Item) error { return errors.New("broker down") }

func TestClient_Enqueue(t *testing.T) {
	t.Parallel()

	store := workqueue.NewMemoryStore()
	client, err := workqueue.NewClient(store, workqueue.WithMaxAttempts(5))
	require.NoError(t, err)

	require.NoError(t, client.Enqueue(context.Background(), "EmailNotifications", map[string]string{"Subject": "hi"}))
	assert.Equal(t, 1, store.Len("EmailNotifications"))

	item, err := store.Pop(context.Background(), []string{"EmailNotifications"}, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "EmailNotifications", item.Queue)
	assert.Equal(t, 5, item.MaxAttempts)
	assert.Zero(t, item.Attempt)
	assert.JSONEq(t, `{"Subject":"hi"}`, string(item.Payload))
}

func TestClient_Enqueue_Errors(t *testing.T) {
	t.Parallel()

	_, err := workqueue.NewClient(nil)
	require.ErrorIs(t, err, workqueue.ErrStoreNil)

	client, err := workqueue.NewClient(workqueue.NewMemoryStore())
	require.NoError(t, err)

	require.ErrorIs(t, client.Enqueue(context.Background(), "", "x"), workqueue.ErrQueueRequired)
	require.ErrorIs(t, client.Enqueue(context.Background(), "q", nil), workqueue.ErrPayloadNil)
	require.Error(t, client.Enqueue(context.Background(), "q", make(chan int)))

	broken, err := workqueue.NewClient(failingStore{})
	require.NoError(t, err)
	require.ErrorContains(t, broken.Enqueue(context.Background(), "q", "x"), "broker down")
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	type payload struct{ Name string }

	var got payload
	h := workqueue.NewHandler(func(ctx context.Context, p payload) error {
		got = p
		return nil
	})

	require.NoError(t, h.Handle(context.Background(), json.RawMessage(`{"Name":"x"}`)))
	assert.Equal(t, "x", got.Name)

	err := h.Handle(context.Background(), json.RawMessage(`not json`))
	require.ErrorIs(t, err, workqueue.ErrPermanent)
}
