// Package recipient implements the testing-domain safety filter applied to
// every email before it reaches a transport.
//
// Outside production the filter removes every address whose host is not in
// the allow-list, so staging and development deployments cannot mail real
// customers. In production (or when explicitly disabled) every address passes
// through unchanged.
//
// The filter is an immutable value built at startup and passed explicitly to
// the senders that need it:
//
//	var cfg recipient.Config
//	config.MustLoad(&cfg)
//	filter := recipient.NewFromConfig(cfg, envCfg.Environment(), recipient.WithLogger(log))
//
//	to = filter.Apply(ctx, to)
package recipient
