package environment

import "strings"

// Environment represents application environment.
type Environment string

const (
	// Local is a developer machine. Unknown values resolve to Local.
	Local Environment = "local"
	// Development for shared development environment.
	Development Environment = "development"
	// Test for automated test runs and QA.
	Test Environment = "test"
	// Staging for staging environment.
	Staging Environment = "staging"
	// Production for production environment.
	Production Environment = "production"
)

// Config holds the environment selector.
type Config struct {
	Env string `env:"APP_ENV" envDefault:"local"`
}

// Environment returns the parsed environment from the config.
func (c Config) Environment() Environment {
	return Parse(c.Env)
}

// Parse maps a free-form value to a known Environment.
// Short aliases (dev, stage, prod) are accepted; anything else is Local.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "test", "testing", "qa":
		return Test
	case "development", "dev":
		return Development
	default:
		return Local
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool { return e == Production }

// IsLocal reports whether e is a developer machine.
func (e Environment) IsLocal() bool { return e == Local }

func (e Environment) String() string { return string(e) }
