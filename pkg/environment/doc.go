// Package environment resolves the deployment environment the process runs in
// and propagates it through context.Context and structured logs.
//
// The environment is read once at startup from APP_ENV (see Config) and is the
// only production signal the notification packages consume: it seeds the
// default of the recipient filter, which keeps non-production deployments from
// reaching real customers.
//
// # Usage
//
//	var cfg environment.Config
//	config.MustLoad(&cfg)
//
//	env := cfg.Environment()
//	if env.IsProduction() {
//	    // production-specific behaviour
//	}
//
//	ctx = environment.WithContext(ctx, env)
//	log := logger.New(logger.WithContextExtractors(environment.LoggerExtractor()))
package environment
