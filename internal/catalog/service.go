// Package catalog is the fetch layer of the directory. It shapes every
// read and write sent to the remote data service, decodes the rows into
// domain values and serves cacheable reads from the response cache.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/cache"
	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
	"github.com/MrSnakeDoc/toolhub/internal/query"
	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

const (
	DefaultPageSize     = 20
	MaxPageSize         = 100
	DefaultPopularLimit = 10
)

// Options configures a Service.
type Options struct {
	Remote  remote.Service
	Cache   cache.Cache
	Logger  logger.Logger
	Metrics *metrics.Metrics
	// Now stamps updates. Defaults to time.Now.
	Now func() time.Time
	// PageSize is the default limit of paginated reads.
	PageSize int
}

// Service implements every catalog operation.
type Service struct {
	remote   remote.Service
	cache    cache.Cache
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	pageSize int
}

// New creates a Service. A nil Cache gets a private in-memory cache.
func New(opts Options) (*Service, error) {
	if opts.Remote == nil {
		return nil, errors.New("catalog: remote service is required")
	}
	s := &Service{
		remote:   opts.Remote,
		cache:    opts.Cache,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Now,
		pageSize: opts.PageSize,
	}
	if s.cache == nil {
		s.cache = cache.NewMemory()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	if s.pageSize > MaxPageSize {
		s.pageSize = MaxPageSize
	}
	return s, nil
}

// PageSize returns the default page size.
func (s *Service) PageSize() int { return s.pageSize }

// Ping checks the remote service.
func (s *Service) Ping(ctx context.Context) error {
	return s.remote.Ping(ctx)
}

// FlushCache drops every cached response. Writes never call it.
func (s *Service) FlushCache(ctx context.Context) error {
	if err := s.cache.Flush(ctx); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	s.log.Info("🧹 response cache flushed")
	return nil
}

// CachedKeys lists the request signatures currently served from cache.
func (s *Service) CachedKeys(ctx context.Context) ([]string, error) {
	keys, err := s.cache.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cached keys: %w", err)
	}
	return keys, nil
}

// PingCache checks the response cache backend.
func (s *Service) PingCache(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// =============================================================================
// Remote plumbing
// =============================================================================

// fetch runs a read and decodes its rows into dst.
func (s *Service) fetch(ctx context.Context, r query.Read, dst any) (*int64, error) {
	resp, err := s.remote.Select(ctx, query.Select(r))
	if err != nil {
		return nil, s.remoteFailure(r.Kind(), err)
	}
	if dst != nil && resp.Body != nil {
		if err := json.Unmarshal(resp.Body, dst); err != nil {
			return nil, s.remoteFailure(r.Kind(), fmt.Errorf("decode response: %w", err))
		}
	}
	return resp.Count, nil
}

// write runs a mutation and decodes the returned representation into dst.
func (s *Service) write(ctx context.Context, w query.Write, dst any) error {
	resp, err := s.remote.Mutate(ctx, query.Mutate(w))
	if err != nil {
		return s.remoteFailure(w.Kind(), err)
	}
	if dst != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, dst); err != nil {
			return s.remoteFailure(w.Kind(), fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

func (s *Service) remoteFailure(kind query.Kind, err error) error {
	if remote.IsNoRows(err) || remote.IsUniqueViolation(err) {
		s.log.Debug("remote request rejected",
			logger.String("op", kind.String()),
			logger.Error(err))
	} else {
		s.log.Warn("remote request failed",
			logger.String("op", kind.String()),
			logger.Error(err))
	}
	return &domain.RemoteError{Op: kind.String(), Err: err}
}

// cachedRead serves r from the cache when it is cacheable and fresh,
// otherwise runs load and stores its result. Failures are never cached.
func cachedRead[T any](ctx context.Context, s *Service, r query.Read, load func(context.Context) (T, error)) (T, error) {
	key, cacheable := r.CacheKey()
	if !cacheable {
		return load(ctx)
	}

	if payload, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(payload, &v); err == nil {
			s.metrics.CacheLookup(true)
			s.log.Debug("cache hit", logger.String("key", key))
			return v, nil
		}
		s.log.Warn("discarding undecodable cache entry", logger.String("key", key))
	}
	s.metrics.CacheLookup(false)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache encode failed", logger.String("key", key), logger.Error(err))
		return v, nil
	}
	s.cache.Set(ctx, key, payload)
	return v, nil
}

// mapNoRows turns a single-row miss into ErrNotFound.
func mapNoRows(err error) error {
	if remote.IsNoRows(err) {
		return domain.ErrNotFound
	}
	return err
}
