// Command taskwatch runs the lifecycle event consumer and the worker
// history read API in one process.
package main

import (
	"context"
	"database/sql"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mohans/taskwatch/internal/api"
	"github.com/mohans/taskwatch/internal/config"
	"github.com/mohans/taskwatch/internal/handler"
	"github.com/mohans/taskwatch/internal/logging"
	"github.com/mohans/taskwatch/internal/store"
	"github.com/mohans/taskwatch/internal/taskdef"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogPath)
	defer logger.Sync()

	ctx := context.Background()

	db, err := sql.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	dialect := store.DialectSQLite
	if cfg.DBDriver == "pgx" {
		dialect = store.DialectPostgres
	}
	st := store.New(db, dialect)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal("apply schema", zap.Error(err))
	}

	// Fail fast on an unreachable broker instead of inside the consumer.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	rdb.Close()

	cache := taskdef.NewCache(taskdef.NewQueueClient(cfg.QueueRootURL))
	router := handler.New(cache, st, logger)
	consumer := handler.NewConsumer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		router,
		handler.ConsumerConfig{
			Concurrency: cfg.Concurrency,
			Queues:      map[string]int{cfg.QueueName: 1},
		},
	)

	go func() {
		logger.Info("read api listening", zap.String("addr", cfg.HTTPAddr))
		if err := api.New(st, logger).Routes().Run(cfg.HTTPAddr); err != nil {
			logger.Fatal("api server failed", zap.Error(err))
		}
	}()

	logger.Info("consumer starting",
		zap.String("redis", cfg.RedisAddr),
		zap.String("queue", cfg.QueueName),
		zap.Int("concurrency", cfg.Concurrency))
	if err := consumer.Run(); err != nil {
		// Transport loss is fatal; the supervisor restarts us with a
		// fresh subscription.
		logger.Fatal("bus consumer failed", zap.Error(err))
	}
}
