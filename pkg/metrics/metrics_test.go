package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/metrics"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())

	m.ObserveDispatch("email", "direct", time.Millisecond, nil)
	m.ObserveDispatch("email", "direct", time.Millisecond, errors.New("boom"))
	m.RecipientFiltered()
	m.RecipientFiltered()
	m.AttachmentResolved("content", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatched.WithLabelValues("email", "direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchFailed.WithLabelValues("email", "direct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecipientsFiltered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AttachmentsResolved.WithLabelValues("content", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveDispatch("sms", "queued", time.Second, nil)
		m.RecipientFiltered()
		m.AttachmentResolved("uri", errors.New("x"))
	})
}
