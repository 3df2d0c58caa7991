// Package logger builds the structured slog loggers used across notifykit and
// provides the attribute helpers and timing spans that every send path relies
// on.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, static attributes and ContextExtractor
// callbacks that inject values stored in a context.Context (for example the
// deployment environment or a request id) every time a record is handled.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "notifyd"),
//	    logger.WithContextExtractors(environment.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	stop := logger.Timer(ctx, log, "email.send", logger.WarnIfExceeds(3*time.Second))
//	defer stop()
//
// # Attributes
//
// Helpers such as Error, Channel, Queue, Recipients and Filename keep key names
// consistent. Error returns an empty attribute for a nil error, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no nil check.
package logger
