package attachment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Fetcher downloads the payload behind a URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string, maxSize int64) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string, maxSize int64) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string, maxSize int64) ([]byte, error) {
	return f(ctx, uri, maxSize)
}

// HTTPFetcher downloads attachments with HTTP GET, following redirects.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher. A nil client gets a default one with the
// given timeout; redirects are followed by the standard client policy.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, uri string, maxSize int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid attachment uri: %v", notification.ErrInvalidArgument, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", notification.ErrTransport, uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: download %s: status %d", notification.ErrTransport, uri, resp.StatusCode)
	}

	return readLimited(resp.Body, maxSize)
}

// readLimited reads r fully, failing when more than maxSize bytes are available.
func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read attachment: %w", notification.ErrTransport, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: attachment exceeds %d bytes", notification.ErrInvalidArgument, maxSize)
	}
	return data, nil
}
