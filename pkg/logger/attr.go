package logger

import (
	"log/slog"
	"strings"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Channel records the notification channel (email, sms, android, ios).
func Channel(kind string) slog.Attr {
	return slog.String("channel", kind)
}

// Queue records a work queue name.
func Queue(name string) slog.Attr {
	return slog.String("queue", name)
}

// Recipients records a list of addresses joined by commas under key.
func Recipients(key string, addrs []string) slog.Attr {
	return slog.String(key, strings.Join(addrs, ","))
}

// Filename records an attachment filename.
func Filename(name string) slog.Attr {
	return slog.String("filename", name)
}

// Source records where a payload came from, e.g. "content" or "uri".
func Source(src string) slog.Attr {
	return slog.String("source", src)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
