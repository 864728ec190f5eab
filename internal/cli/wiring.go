package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/catalog"
	"wizkid-challenge/internal/config"
	"wizkid-challenge/internal/infra/memory"
	"wizkid-challenge/internal/infra/postgres"
	redisinfra "wizkid-challenge/internal/infra/redis"
	"wizkid-challenge/internal/infra/sqlite"
	"wizkid-challenge/internal/logging"
	"wizkid-challenge/internal/metrics"
	"wizkid-challenge/internal/progress"
)

// runtime holds the wired service and everything that needs closing.
type runtime struct {
	cfg     config.Config
	logger  zerolog.Logger
	service *app.ChallengeService
	engine  *app.Engine
	closers []func()
}

type runtimeOptions struct {
	countdown app.Countdown
	registry  prometheus.Registerer
}

func loadConfig(path string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.App.Name, cfg.App.Env), nil
}

func buildRuntime(ctx context.Context, cfg config.Config, logger zerolog.Logger, opts runtimeOptions) (*runtime, error) {
	rt := &runtime{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			rt.Close()
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { redisClient.Close() })
	}

	loader, err := rt.catalogLoader(ctx)
	if err != nil {
		return nil, err
	}

	dailyTTL := config.TTLDuration(cfg.Daily.CacheTTL, time.Hour)
	var daily app.DailyRepository
	if redisClient != nil {
		daily = redisinfra.NewDailyRepository(redisClient, loader, cfg.Selector(), dailyTTL, logger)
	} else {
		daily = memory.NewDailyRepository(loader, cfg.Selector(), dailyTTL)
	}

	backend, err := rt.progressBackend(redisClient)
	if err != nil {
		return nil, err
	}
	store := progress.NewStore(backend, cfg.Progress.Key, logger)

	policy, err := app.ParseStreakPolicy(cfg.Challenge.StreakPolicy)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	var observer app.Observer
	if opts.registry != nil {
		observer = metrics.NewObserver(opts.registry)
	}

	rt.engine = app.NewEngine(store, app.EngineOptions{
		Scoring:       cfg.Scoring(),
		Streak:        policy,
		SessionLength: cfg.SessionLength(),
		Countdown:     opts.countdown,
		Location:      loc,
		Observer:      observer,
		Logger:        logger,
	})
	rt.closers = append(rt.closers, rt.engine.Close)
	rt.service = app.NewChallengeService(daily, rt.engine, store)
	ok = true
	return rt, nil
}

// catalogLoader prefers Postgres, then a YAML file, then the built-in bank.
func (rt *runtime) catalogLoader(ctx context.Context) (memory.CatalogLoader, error) {
	switch {
	case rt.cfg.Postgres.URL != "":
		pool, err := postgres.OpenPool(ctx, rt.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		rt.logger.Info().Msg("loading questions from postgres")
		return postgres.NewCatalogLoader(pool), nil
	case rt.cfg.Catalog.Path != "":
		rt.logger.Info().Str("path", rt.cfg.Catalog.Path).Msg("loading questions from file")
		return catalog.NewFileLoader(rt.cfg.Catalog.Path), nil
	default:
		return memory.NewStaticCatalogLoader(catalog.Builtin()), nil
	}
}

func (rt *runtime) progressBackend(redisClient *redis.Client) (progress.Backend, error) {
	switch rt.cfg.Progress.Backend {
	case config.BackendMemory:
		return memory.NewKV(), nil
	case config.BackendSQLite:
		kv, err := sqlite.Open(rt.cfg.Progress.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		rt.closers = append(rt.closers, func() { kv.Close() })
		return kv, nil
	case config.BackendRedis:
		return redisinfra.NewKV(redisClient, "wizkid:"), nil
	case config.BackendPostgres:
		db := postgres.OpenBun(rt.cfg.Postgres.URL)
		rt.closers = append(rt.closers, func() { db.Close() })
		return postgres.NewKV(db), nil
	}
	return nil, fmt.Errorf("unknown progress backend %q", rt.cfg.Progress.Backend)
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
