package attachment_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/attachment"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func newResolver(opts ...attachment.Option) *attachment.Resolver {
	opts = append([]attachment.Option{attachment.WithLogger(logger.Discard())}, opts...)
	return attachment.NewResolver(attachment.Config{DownloadTimeout: 2 * time.Second}, opts...)
}

func TestResolver_Resolve_Content(t *testing.T) {
	t.Parallel()

	r := newResolver()
	got, err := r.Resolve(context.Background(), notification.Attachment{
		Filename: "a.txt",
		Content:  "aGVsbG8=",
	})
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Filename)
	assert.Equal(t, []byte("hello"), got.Data)
	assert.Contains(t, got.ContentType, "text/plain")
}

func TestResolver_Resolve_ContentWinsOverURI(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("from uri"))
	}))
	defer srv.Close()

	r := newResolver()
	got, err := r.Resolve(context.Background(), notification.Attachment{
		Filename: "a.txt",
		Content:  base64.StdEncoding.EncodeToString([]byte("from content")),
		URI:      srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("from content"), got.Data)
	assert.Zero(t, calls.Load())
}

func TestResolver_Resolve_Idempotent(t *testing.T) {
	t.Parallel()

	r := newResolver()
	a := notification.Attachment{Filename: "a.txt", Content: "aGVsbG8="}

	first, err := r.Resolve(context.Background(), a)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolver_Resolve_InvalidInput(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		in      notification.Attachment
		wantErr error
	}{
		{"blank filename", notification.Attachment{Filename: "  ", Content: "aGVsbG8="}, notification.ErrInvalidArgument},
		{"no source", notification.Attachment{Filename: "a.txt"}, notification.ErrInvalidArgument},
		{"invalid base64", notification.Attachment{Filename: "a.txt", Content: "not base64!"}, notification.ErrFormat},
		{"unknown scheme", notification.Attachment{Filename: "a.txt", URI: "ftp://example.com/a.txt"}, notification.ErrInvalidArgument},
		{"blank filename with uri", notification.Attachment{Filename: "", URI: srv.URL}, notification.ErrInvalidArgument},
	}

	r := newResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, calls.Load(), "invalid input must not reach the network")
}

func TestResolver_Resolve_HTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/report.pdf", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := newResolver()

	t.Run("ok", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), notification.Attachment{Filename: "report.pdf", URI: srv.URL + "/report.pdf"})
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), got.Data)
		assert.Equal(t, "application/pdf", got.ContentType)
	})

	t.Run("follows redirects", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), notification.Attachment{Filename: "report.pdf", URI: srv.URL + "/moved"})
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), got.Data)
	})

	t.Run("non-2xx", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), notification.Attachment{Filename: "report.pdf", URI: srv.URL + "/missing"})
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrTransport)
	})
}

func TestResolver_Resolve_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := attachment.NewResolver(
		attachment.Config{DownloadTimeout: 50 * time.Millisecond},
		attachment.WithLogger(logger.Discard()),
	)
	_, err := r.Resolve(context.Background(), notification.Attachment{Filename: "slow.bin", URI: srv.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, notification.ErrTransport)
}

func TestResolver_Resolve_CustomFetcher(t *testing.T) {
	t.Parallel()

	var gotURI string
	r := newResolver(attachment.WithFetcher("mem", attachment.FetcherFunc(
		func(ctx context.Context, uri string, maxSize int64) ([]byte, error) {
			gotURI = uri
			return []byte("memory"), nil
		},
	)))

	got, err := r.Resolve(context.Background(), notification.Attachment{Filename: "x.bin", URI: "mem://x"})
	require.NoError(t, err)
	assert.Equal(t, "mem://x", gotURI)
	assert.Equal(t, []byte("memory"), got.Data)
}

func TestResolver_ResolveAll(t *testing.T) {
	t.Parallel()

	r := newResolver()

	got, err := r.ResolveAll(context.Background(), []notification.Attachment{
		{Filename: "a.txt", Content: "YQ=="},
		{Filename: "b.txt", Content: "Yg=="},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.txt", got[0].Filename)
	assert.Equal(t, "b.txt", got[1].Filename)

	_, err = r.ResolveAll(context.Background(), []notification.Attachment{
		{Filename: "a.txt", Content: "YQ=="},
		{Filename: "b.txt"},
	})
	assert.True(t, errors.Is(err, notification.ErrInvalidArgument))
}

func TestResolver_Resolve_MaxSize(t *testing.T) {
	t.Parallel()

	r := attachment.NewResolver(attachment.Config{MaxSize: 3}, attachment.WithLogger(logger.Discard()))
	_, err := r.Resolve(context.Background(), notification.Attachment{Filename: "a.txt", Content: "aGVsbG8="})
	assert.ErrorIs(t, err, notification.ErrInvalidArgument)
}
