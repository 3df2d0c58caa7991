package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

type sampleConfig struct {
	URL     string        `env:"SERVICE_URL" envDefault:"http://localhost:8081"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"3s"`
	Domains []string      `env:"DOMAINS" envSeparator:","`
}

type requiredConfig struct {
	Token string `env:"TOKEN,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	var cfg sampleConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))

	assert.Equal(t, "http://localhost:8081", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Domains)
}

func TestLoad_WithPrefix(t *testing.T) {
	t.Parallel()

	var cfg sampleConfig
	err := config.Load(&cfg,
		config.WithPrefix("NOTIFY_"),
		config.WithEnvironment(map[string]string{
			"NOTIFY_SERVICE_URL": "http://notify:9000",
			"NOTIFY_TIMEOUT":     "1s",
			"NOTIFY_DOMAINS":     "certipay.com,example.org",
			"SERVICE_URL":        "http://ignored",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "http://notify:9000", cfg.URL)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, []string{"certipay.com", "example.org"}, cfg.Domains)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		var cfg *sampleConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		var cfg requiredConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()
		var cfg sampleConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"TIMEOUT": "soon"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Parallel()
		var cfg sampleConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "absent.env")))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_TEST_TOKEN=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CONFIG_TEST_TOKEN") })

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg, config.WithPrefix("CONFIG_TEST_"), config.WithEnvFiles(path)))
	assert.Equal(t, "from-file", cfg.Token)
}

func TestMustLoad_Panics(t *testing.T) {
	t.Parallel()

	var cfg requiredConfig
	assert.Panics(t, func() {
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}
