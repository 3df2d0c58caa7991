// Command notifyd is the remote notification service: it accepts email, SMS
// and push notifications over HTTP and delivers them with the configured
// dispatch strategy.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notifykit/pkg/attachment"
	"github.com/dmitrymomot/notifykit/pkg/config"
	"github.com/dmitrymomot/notifykit/pkg/dispatch"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/environment"
	"github.com/dmitrymomot/notifykit/pkg/httpapi"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/metrics"
	"github.com/dmitrymomot/notifykit/pkg/recipient"
	"github.com/dmitrymomot/notifykit/pkg/sms"
	"github.com/dmitrymomot/notifykit/pkg/workqueue"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "notifyd:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := cfg.Env.Environment()

	logOpts := []logger.Option{
		logger.WithEnvironment(env, "notifyd"),
		logger.WithContextExtractors(httpapi.RequestIDExtractor()),
	}
	if cfg.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return fmt.Errorf("invalid NOTIFY_LOG_LEVEL: %w", err)
		}
		logOpts = append(logOpts, logger.WithLevel(lvl))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = environment.WithContext(ctx, env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	filter, err := recipient.NewFromConfig(cfg.Recipient, env, recipient.WithLogger(log), recipient.WithMetrics(m))
	if err != nil {
		return err
	}
	log.Info("recipient filter configured",
		slog.Bool("enabled", filter.Enabled()),
		slog.Any("allowed_domains", filter.AllowedDomains()))

	resolverOpts := []attachment.Option{attachment.WithLogger(log), attachment.WithMetrics(m)}
	if cfg.S3.Region != "" {
		s3Fetcher, err := attachment.NewS3FetcherFromConfig(ctx, cfg.S3)
		if err != nil {
			return err
		}
		resolverOpts = append(resolverOpts, attachment.WithS3Fetcher(s3Fetcher))
	}
	resolver := attachment.NewResolver(cfg.Attachment, resolverOpts...)

	emailTransport, err := email.NewTransport(cfg.Email)
	if err != nil {
		return err
	}
	emailSvc := email.NewService(emailTransport,
		email.WithFilter(filter),
		email.WithResolver(resolver),
		email.WithLogger(log),
		email.WithSlowSendThreshold(cfg.Email.SlowSendThreshold),
	)

	var smsSvc *sms.Service
	if cfg.Twilio.AccountSID != "" {
		tr, err := sms.NewTwilioTransport(cfg.Twilio)
		if err != nil {
			return err
		}
		smsSvc = sms.NewService(tr, cfg.Twilio.From, sms.WithLogger(log))
	} else {
		log.Warn("sms delivery disabled: twilio credentials are not configured")
	}

	direct := dispatch.NewDirect(emailSvc, smsSvc, dispatch.WithLogger(log))

	var (
		store  workqueue.Store
		checks []func(context.Context) error
	)
	// a memory queue only makes sense when this process also enqueues
	useQueue := cfg.Dispatch.Strategy == dispatch.StrategyQueued ||
		(cfg.Queue.Worker && cfg.Queue.Backend == "redis")
	if useQueue {
		switch cfg.Queue.Backend {
		case "redis":
			rdb, err := workqueue.Connect(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer func() { _ = rdb.Close() }()
			store = workqueue.NewRedisStore(rdb)
			checks = append(checks, workqueue.Healthcheck(rdb))
		case "memory", "":
			store = workqueue.NewMemoryStore()
		default:
			return fmt.Errorf("unknown queue backend %q", cfg.Queue.Backend)
		}
	}

	deps := dispatch.Deps{
		Email:   emailSvc,
		SMS:     smsSvc,
		Metrics: m,
		Logger:  log,
	}
	if store != nil {
		client, err := workqueue.NewClient(store,
			workqueue.WithMaxAttempts(cfg.Queue.MaxAttempts),
			workqueue.WithClientLogger(log))
		if err != nil {
			return err
		}
		deps.Enqueuer = client
	}
	sender, err := dispatch.New(cfg.Dispatch, deps)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(sender,
		httpapi.WithLogger(log),
		httpapi.WithHealthChecks(checks...),
		httpapi.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	)
	server := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, router) })

	if store != nil && cfg.Queue.Worker {
		worker, err := workqueue.NewWorker(store,
			workqueue.WithConcurrency(cfg.Queue.Concurrency),
			workqueue.WithRetryBackoff(cfg.Queue.RetryBackoff),
			workqueue.WithWorkerLogger(log))
		if err != nil {
			return err
		}
		dispatch.RegisterConsumers(worker, direct)
		g.Go(worker.Run(gctx))
	} else if cfg.Dispatch.Strategy == dispatch.StrategyQueued {
		log.Warn("queued notifications are not consumed by this process")
	}

	log.Info("notifyd started",
		slog.String("strategy", cfg.Dispatch.Strategy),
		slog.String("addr", cfg.HTTP.Addr))

	return g.Wait()
}
