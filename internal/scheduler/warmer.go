package scheduler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
)

// DefaultWarmInterval matches the response cache TTL so the home page
// reads stay hot.
const DefaultWarmInterval = 5 * time.Minute

// HomeReader is the read path the warmer primes.
type HomeReader interface {
	ListCategoriesOptimized(ctx context.Context) ([]domain.Category, error)
	ListToolsPaginated(ctx context.Context, page, limit int) (domain.ToolPage, error)
	PageSize() int
}

// CacheWarmer periodically replays the home page's initial reads so they
// are served from the response cache.
type CacheWarmer struct {
	reader        HomeReader
	logger        logger.Logger
	metrics       *metrics.Metrics
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCacheWarmer creates a new cache warmer. A nil trigger channel
// disables manual runs.
func NewCacheWarmer(
	reader HomeReader,
	log logger.Logger,
	m *metrics.Metrics,
	interval time.Duration,
	manualTrigger chan struct{},
) *CacheWarmer {
	if interval <= 0 {
		interval = DefaultWarmInterval
	}
	return &CacheWarmer{
		reader:        reader,
		logger:        log,
		metrics:       m,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start warms once, then keeps warming in the background until Stop or
// ctx is done. A failed first run is logged, not returned: the cache is
// an optimisation and the service works cold.
func (cw *CacheWarmer) Start(ctx context.Context) {
	if err := cw.Warm(ctx); err != nil {
		cw.logger.Warn("initial cache warm failed", logger.Error(err))
	}

	ticker := time.NewTicker(cw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cw.run(ctx)
			case <-cw.manualTrigger:
				cw.logger.Info("manual cache warm triggered")
				cw.run(ctx)
			case <-cw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the warmer.
func (cw *CacheWarmer) Stop() {
	close(cw.stopCh)
}

func (cw *CacheWarmer) run(ctx context.Context) {
	if err := cw.Warm(ctx); err != nil {
		cw.logger.Error("cache warm failed", logger.Error(err))
	}
}

// Warm loads the reduced category list and the first tools page
// concurrently. Reads already cached cost nothing.
func (cw *CacheWarmer) Warm(ctx context.Context) error {
	start := time.Now()

	var categories, tools int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := cw.reader.ListCategoriesOptimized(gctx)
		if err != nil {
			return fmt.Errorf("warm categories: %w", err)
		}
		categories = len(list)
		return nil
	})
	g.Go(func() error {
		page, err := cw.reader.ListToolsPaginated(gctx, 1, cw.reader.PageSize())
		if err != nil {
			return fmt.Errorf("warm first tools page: %w", err)
		}
		tools = len(page.Items)
		return nil
	})

	err := g.Wait()
	cw.metrics.WarmRun(err)
	if err != nil {
		return err
	}

	cw.logger.Debug("cache warmed",
		logger.Int("categories", categories),
		logger.Int("tools", tools),
		logger.Duration("took", time.Since(start)))
	return nil
}
