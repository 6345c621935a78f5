package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

// ConnectOptions configures the cache client and how long startup waits for it.
type ConnectOptions struct {
	Addr         string // ex: "localhost:6379"
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	// ─── startup retry ───
	ConnectTimeout time.Duration // overall budget for the first successful ping (ex: 30s)
	RetryInterval  time.Duration // first backoff step, doubled after each failure (ex: 2s)
	MaxWait        time.Duration // backoff cap (ex: 10s)
	PingTimeout    time.Duration // per-attempt ping timeout (ex: 5s)
	WarnThreshold  int           // attempts logged at warn before switching to error
}

func (o ConnectOptions) validate() error {
	var errs []error
	if o.Addr == "" {
		errs = append(errs, errors.New("Addr is required"))
	}
	if o.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ConnectTimeout must be > 0, got %v", o.ConnectTimeout))
	}
	if o.RetryInterval <= 0 {
		errs = append(errs, fmt.Errorf("RetryInterval must be > 0, got %v", o.RetryInterval))
	}
	if o.MaxWait < o.RetryInterval {
		errs = append(errs, fmt.Errorf("MaxWait (%v) must be >= RetryInterval (%v)", o.MaxWait, o.RetryInterval))
	}
	if o.PingTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PingTimeout must be > 0, got %v", o.PingTimeout))
	}
	if o.WarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold))
	}
	return errors.Join(errs...)
}

// backoff doubles from the retry interval up to the cap.
type backoff struct {
	next, max time.Duration
}

func (b *backoff) step() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

// New builds the response cache client and blocks until Redis answers a
// PING, retrying with exponential backoff. Cancelling ctx or exceeding
// ConnectTimeout aborts startup; the client is closed on failure.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid redis options: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := waitReady(ctx, client, opts, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitReady(ctx context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to redis",
		logger.String("addr", opts.Addr),
		logger.Duration("timeout", opts.ConnectTimeout))

	start := time.Now()
	wait := &backoff{next: opts.RetryInterval, max: opts.MaxWait}

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			fields := []logger.Field{logger.String("addr", opts.Addr), logger.Int("attempts", attempt)}
			if attempt > 1 {
				log.Warn("connected to redis after retry", append(fields, logger.Duration("elapsed", time.Since(start)))...)
			} else {
				log.Info("connected to redis", fields...)
			}
			return nil
		}

		delay := wait.step()
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable, giving up",
				logger.String("addr", opts.Addr),
				logger.Int("attempts", attempt),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		case <-timer.C:
		}

		fields := []logger.Field{
			logger.String("addr", opts.Addr),
			logger.Int("attempt", attempt),
			logger.Duration("retried_after", delay),
			logger.Error(err),
		}
		if attempt <= opts.WarnThreshold {
			log.Warn("redis connection failed, retrying", fields...)
		} else {
			log.Error("redis still unavailable, retrying", fields...)
		}
	}
}
