package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/orderflow/modules/order"
	"github.com/dmitrymomot/orderflow/pkg/config"
	"github.com/dmitrymomot/orderflow/pkg/lock"
	"github.com/dmitrymomot/orderflow/pkg/logger"
	"github.com/dmitrymomot/orderflow/pkg/pg"
	"github.com/dmitrymomot/orderflow/pkg/redis"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	UsePostgres  bool   `env:"DEMO_USE_POSTGRES" envDefault:"false"`
	UseRedisLock bool   `env:"DEMO_USE_REDIS_LOCK" envDefault:"false"`
}

// The demo walks one order through its whole lifecycle: create, pay with a
// generated confirmation number, fulfill to a fixed address, logging the
// resulting state after each step. By default it runs fully in memory; set
// DEMO_USE_POSTGRES / DEMO_USE_REDIS_LOCK to exercise the durable stack.
func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.Env == "production" {
		log = logger.New(logger.WithProduction("orderflow-demo"))
	} else {
		log = logger.New(logger.WithDevelopment("orderflow-demo"))
	}
	logger.SetAsDefault(log)

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to set up order store", logger.Error(err))
		os.Exit(1)
	}

	opts := []order.ServiceOption{order.WithLogger(log)}
	if cfg.UseRedisLock {
		locker, err := buildRedisLocker(ctx)
		if err != nil {
			log.ErrorContext(ctx, "failed to set up redis locker", logger.Error(err))
			os.Exit(1)
		}
		opts = append(opts, order.WithLocker(locker))
	}

	svc, err := order.NewService(store, opts...)
	if err != nil {
		log.ErrorContext(ctx, "failed to create order service", logger.Error(err))
		os.Exit(1)
	}

	if err := run(ctx, svc, log); err != nil {
		log.ErrorContext(ctx, "demo failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *order.Service, log *slog.Logger) error {
	o, err := svc.Create(ctx, time.Now())
	if err != nil {
		return err
	}

	status, err := svc.Pay(ctx, o.ID, uuid.NewString())
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "after calling Pay", logger.OrderID(o.ID), logger.ToStatus(status.Name()))

	status, err = svc.Fulfill(ctx, o.ID, "123 Main St")
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "after calling Fulfill", logger.OrderID(o.ID), logger.ToStatus(status.Name()))

	final, err := svc.ByID(ctx, o.ID)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "final order record",
		logger.OrderID(final.ID),
		logger.ToStatus(final.Status.Name()),
		slog.Time("order_date", final.OrderDate),
	)

	return nil
}

func buildStore(ctx context.Context, cfg appConfig, log *slog.Logger) (order.Store, error) {
	if !cfg.UsePostgres {
		return order.NewMemoryStore(), nil
	}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, err
	}
	if err := pg.Healthcheck(pool)(ctx); err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, pool, order.Migrations, "migrations", pgCfg, log); err != nil {
		return nil, err
	}

	return order.NewPGStore(pool)
}

func buildRedisLocker(ctx context.Context) (lock.Locker, error) {
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, err
	}

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, err
	}
	if err := redis.Healthcheck(client)(ctx); err != nil {
		return nil, err
	}

	return lock.NewRedisLocker(client, lock.WithKeyPrefix("orderflow:lock:"))
}
