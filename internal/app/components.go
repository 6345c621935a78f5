package app

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/toolhub/internal/cache"
	"github.com/MrSnakeDoc/toolhub/internal/catalog"
	"github.com/MrSnakeDoc/toolhub/internal/config"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
	"github.com/MrSnakeDoc/toolhub/internal/query"
	"github.com/MrSnakeDoc/toolhub/internal/redis"
	"github.com/MrSnakeDoc/toolhub/internal/remote"
	"github.com/MrSnakeDoc/toolhub/internal/remote/memory"
	"github.com/MrSnakeDoc/toolhub/internal/remote/postgres"
	"github.com/MrSnakeDoc/toolhub/internal/remote/postgrest"
	"github.com/MrSnakeDoc/toolhub/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/toolhub/internal/store/redis"
	"github.com/MrSnakeDoc/toolhub/internal/utils"
)

// Components are the long-lived pieces every command needs: the fetch
// layer and the connections behind it.
type Components struct {
	Catalog     *catalog.Service
	RedisClient *goredis.Client // nil unless the cache lives in Redis
	db          *sql.DB         // nil unless the backend is postgres
	logger      logger.Logger
}

// NewComponents connects the configured remote backend and response cache.
func NewComponents(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics) (*Components, error) {
	c := &Components{logger: log}

	svc, err := c.remote(ctx, cfg, log, m)
	if err != nil {
		return nil, err
	}

	respCache, err := c.cache(ctx, cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Catalog, err = catalog.New(catalog.Options{
		Remote:   svc,
		Cache:    respCache,
		Logger:   log,
		Metrics:  m,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	if mem, ok := svc.(*memory.Backend); ok && cfg.SeedFile != "" {
		if err := c.seedMemory(ctx, cfg.SeedFile, mem); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Components) remote(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics) (remote.Service, error) {
	switch cfg.Backend {
	case config.BackendPostgREST:
		log.Info("using PostgREST backend", logger.String("url", cfg.PostgrestURL))
		return postgrest.New(postgrest.Config{
			URL:     cfg.PostgrestURL,
			APIKey:  cfg.PostgrestKey,
			Timeout: cfg.RemoteTimeout,
			RPS:     cfg.RemoteRPS,
			Burst:   cfg.RemoteBurst,
			Logger:  log,
			Metrics: m,
		})

	case config.BackendPostgres:
		log.Info("using Postgres backend")
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store := postgres.New(db, log, m)
		pingCtx, cancel := context.WithTimeout(ctx, cfg.RemoteTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			utils.Close(db)
			return nil, fmt.Errorf("postgres unreachable: %w", err)
		}
		c.db = db
		return store, nil

	case config.BackendMemory:
		log.Warn("using in-memory backend, data is lost on exit")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func (c *Components) cache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.Cache, error) {
	if cfg.CacheBackend != config.CacheRedis {
		return cache.NewMemory(cache.WithTTL(cfg.CacheTTL)), nil
	}

	client, err := redis.New(ctx, redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.RedisClient = client
	return redisstore.NewStore(client, cfg.CacheTTL, log), nil
}

func (c *Components) seedMemory(ctx context.Context, path string, mem *memory.Backend) error {
	catalogFile, err := seed.NewLoader(path).Load()
	if err != nil {
		return fmt.Errorf("seed memory backend: %w", err)
	}
	if _, err := seed.Import(ctx, c.Catalog, catalogFile, c.logger); err != nil {
		return fmt.Errorf("seed memory backend: %w", err)
	}
	c.logger.Info("memory backend seeded",
		logger.String("file", path),
		logger.Int("tools", mem.Len(query.TableTools)))
	return nil
}

// Close releases the connections.
func (c *Components) Close() {
	if c.RedisClient != nil {
		utils.MustClose(c.RedisClient, "redis", c.logger)
	}
	if c.db != nil {
		utils.MustClose(c.db, "postgres", c.logger)
	}
}
