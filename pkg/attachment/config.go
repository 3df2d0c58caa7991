package attachment

import "time"

// DefaultDownloadTimeout bounds attachment downloads when none is configured.
const DefaultDownloadTimeout = time.Minute

// DefaultMaxSize is the largest attachment accepted, in bytes.
const DefaultMaxSize int64 = 25 << 20

// Config holds attachment resolution settings.
type Config struct {
	DownloadTimeout time.Duration `env:"NOTIFY_ATTACHMENT_DOWNLOAD_TIMEOUT" envDefault:"60s"`
	MaxSize         int64         `env:"NOTIFY_ATTACHMENT_MAX_SIZE" envDefault:"26214400"`
}
