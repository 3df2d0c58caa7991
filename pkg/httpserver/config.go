package httpserver

import "time"

type Config struct {
	Addr            string        `env:"NOTIFY_HTTP_ADDR" envDefault:":8081"`
	ReadTimeout     time.Duration `env:"NOTIFY_HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"NOTIFY_HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"NOTIFY_HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"NOTIFY_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
