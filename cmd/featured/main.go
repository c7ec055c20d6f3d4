// Command featured runs the console feature detectors against a cluster
// and serves the detected flags and the server-rendered console views.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/consolekit/modules/console"
	"github.com/dmitrymomot/consolekit/modules/flags"
	"github.com/dmitrymomot/consolekit/pkg/cache"
	"github.com/dmitrymomot/consolekit/pkg/config"
	"github.com/dmitrymomot/consolekit/pkg/detector"
	"github.com/dmitrymomot/consolekit/pkg/detector/ceph"
	"github.com/dmitrymomot/consolekit/pkg/environment"
	"github.com/dmitrymomot/consolekit/pkg/feature"
	"github.com/dmitrymomot/consolekit/pkg/httpserver"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/logger"
	"github.com/dmitrymomot/consolekit/pkg/pipeline"
	"github.com/dmitrymomot/consolekit/pkg/redis"
	"github.com/dmitrymomot/consolekit/pkg/requestid"
	"github.com/dmitrymomot/consolekit/pkg/timer"
)

// Flag store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the daemon configuration, read from the environment.
type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Service   string `env:"SERVICE_NAME" envDefault:"featured"`
	LogLevel  string `env:"LOG_LEVEL"`
	FlagStore string `env:"FLAG_STORE" envDefault:"memory"`

	HTTP  httpserver.Config
	K8s   k8s.Config
	Redis redis.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	opts := []logger.Option{
		logger.WithEnvironment(environment.Parse(cfg.Env), cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	store, checks, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close flag store", logger.Error(err))
		}
	}()

	client, err := k8s.NewHTTPClient(cfg.K8s, k8s.WithUserAgent(cfg.Service))
	if err != nil {
		return err
	}

	sched := timer.NewReal()
	defer sched.Stop()

	registry := detector.NewRegistry()
	if err := ceph.Register(registry, client, sched, detector.WithLogger(log)); err != nil {
		return err
	}

	dispatcher := feature.NewDispatcher(store, feature.WithLogger(log))
	runner := detector.NewRunner(registry, dispatcher, detector.WithLogger(log))
	defer runner.Stop()

	router := newRouter(routerDeps{
		store:     store,
		client:    client,
		templates: cache.NewLRU[string, []k8s.Resource](pipeline.DefaultCacheSize),
		checks:    checks,
		logger:    log,
	})
	server := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, router)
	})
	g.Go(func() error {
		return runner.Start(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStore builds the configured flag store and its readiness checks.
func openStore(ctx context.Context, cfg Config) (feature.Store, []httpserver.Check, error) {
	switch cfg.FlagStore {
	case StoreMemory, "":
		return feature.NewMemoryStore(), nil, nil
	case StoreRedis:
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store, err := feature.NewRedisStore(rdb, feature.WithRedisKey(cfg.Redis.FlagKey))
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return closer{Store: store, close: rdb.Close},
			[]httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(rdb)}},
			nil
	default:
		return nil, nil, fmt.Errorf("unknown FLAG_STORE %q", cfg.FlagStore)
	}
}

// closer closes the redis connection along with the store.
type closer struct {
	feature.Store
	close func() error
}

func (c closer) Close() error {
	return errors.Join(c.Store.Close(), c.close())
}

type routerDeps struct {
	store     flags.Reader
	client    k8s.Client
	templates *cache.LRU[string, []k8s.Resource]
	checks    []httpserver.Check
	logger    *slog.Logger
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(deps.logger, deps.checks...))
	r.Mount("/flags", flags.Router(deps.store, deps.logger))
	r.Mount("/console", console.Router(console.Options{
		Client:    deps.client,
		Logger:    deps.logger,
		Templates: deps.templates,
	}))
	return r
}
