package recipient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/environment"
)

// Config holds the testing domain filter settings.
type Config struct {
	// AllowedTestingDomains lists the hosts mail may go to outside production.
	AllowedTestingDomains []string `env:"NOTIFY_ALLOWED_TESTING_DOMAINS" envSeparator:","`
	// AllowedTestingDomainsEnabled is "true", "false" or "auto".
	// Auto enables the filter everywhere except production.
	AllowedTestingDomainsEnabled string `env:"NOTIFY_ALLOWED_TESTING_DOMAINS_ENABLED" envDefault:"auto"`
	// AllowSubdomains admits subdomains of allow-listed hosts.
	AllowSubdomains bool `env:"NOTIFY_ALLOWED_TESTING_SUBDOMAINS" envDefault:"false"`
}

// Enabled resolves whether the filter applies in env.
func (c Config) Enabled(env environment.Environment) (bool, error) {
	v := strings.TrimSpace(c.AllowedTestingDomainsEnabled)
	if v == "" || strings.EqualFold(v, "auto") {
		return !env.IsProduction(), nil
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidToggle, v)
	}
	return enabled, nil
}
