package dispatch

import "time"

// Strategy names accepted by Config.Strategy.
const (
	StrategyDirect = "direct"
	StrategyQueued = "queued"
	StrategyRemote = "remote"
	StrategyNoOp   = "noop"
)

// DefaultServiceURL is where Remote posts when no URL is configured.
const DefaultServiceURL = "http://localhost:8081"

// DefaultTimeout bounds a single Remote request.
const DefaultTimeout = 3 * time.Second

// Config selects the dispatch strategy.
type Config struct {
	Strategy   string        `env:"NOTIFY_DISPATCH_STRATEGY" envDefault:"direct"`
	ServiceURL string        `env:"NOTIFY_SERVICE_URL" envDefault:"http://localhost:8081"`
	Timeout    time.Duration `env:"NOTIFY_SERVICE_TIMEOUT" envDefault:"3s"`
}
