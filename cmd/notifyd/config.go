package main

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/attachment"
	"github.com/dmitrymomot/notifykit/pkg/dispatch"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/environment"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/recipient"
	"github.com/dmitrymomot/notifykit/pkg/sms"
	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

type queueConfig struct {
	Backend      string        `env:"NOTIFY_QUEUE_BACKEND" envDefault:"memory"` // memory or redis
	Worker       bool          `env:"NOTIFY_QUEUE_WORKER" envDefault:"true"`
	Concurrency  int           `env:"NOTIFY_QUEUE_CONCURRENCY" envDefault:"4"`
	MaxAttempts  int           `env:"NOTIFY_QUEUE_MAX_ATTEMPTS" envDefault:"3"`
	RetryBackoff time.Duration `env:"NOTIFY_QUEUE_RETRY_BACKOFF" envDefault:"30s"`
}

type appConfig struct {
	Env        environment.Config
	LogLevel   string `env:"NOTIFY_LOG_LEVEL"`
	Recipient  recipient.Config
	Attachment attachment.Config
	S3         attachment.S3Config
	Email      email.Config
	Twilio     sms.TwilioConfig
	Dispatch   dispatch.Config
	Queue      queueConfig
	Redis      workqueue.RedisConfig
	HTTP       httpserver.Config
}
