// Package listing drives incremental loading of the tool listing: an
// initial page, then one more page each time the consumer nears the end
// of what it has.
package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
)

const DefaultPageSize = 20

var (
	// ErrClosed is returned by loads on a closed controller.
	ErrClosed = errors.New("listing: controller closed")
	// ErrDiscarded is returned when a load finished after a newer load or
	// Close superseded it. Its result was not applied.
	ErrDiscarded = errors.New("listing: result discarded")
)

// State is the loading state of a Controller.
type State int

const (
	Idle State = iota
	LoadingInitial
	Loaded
	LoadingMore
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingInitial:
		return "loading_initial"
	case Loaded:
		return "loaded"
	case LoadingMore:
		return "loading_more"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// PageSource fetches one page of tools.
type PageSource interface {
	ListToolsPaginated(ctx context.Context, page, limit int) (domain.ToolPage, error)
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	State   State
	Page    int
	Items   []domain.Tool
	HasMore bool
	Total   int64
	// Err is the last load failure, cleared by the next successful load.
	Err error
}

// Loading reports whether a page request is in flight.
func (s Snapshot) Loading() bool {
	return s.State == LoadingInitial || s.State == LoadingMore
}

// Controller accumulates pages from a PageSource. All methods are safe
// for concurrent use; at most one page request is in flight.
type Controller struct {
	src     PageSource
	limit   int
	log     logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	state   State
	page    int
	items   []domain.Tool
	hasMore bool
	total   int64
	err     error
	// gen identifies the current load sequence. Results carrying an older
	// generation are dropped.
	gen    uint64
	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page limit. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.limit = n
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New creates an idle controller.
func New(src PageSource, opts ...Option) *Controller {
	c := &Controller{
		src:     src,
		limit:   DefaultPageSize,
		log:     logger.Nop(),
		page:    1,
		hasMore: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the first page, replacing everything loaded so far. It is
// also the reset used when the listing's filters change; any load still
// in flight is superseded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	gen := c.begin()
	c.mu.Unlock()

	return c.loadFirst(ctx, gen)
}

// Retry repeats a failed initial load. It does nothing unless the
// controller is Errored.
func (c *Controller) Retry(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed || c.state != Errored {
		c.mu.Unlock()
		return false, nil
	}
	gen := c.begin()
	c.mu.Unlock()

	return true, c.loadFirst(ctx, gen)
}

// begin resets the state for a fresh initial load. Callers hold c.mu.
func (c *Controller) begin() uint64 {
	c.gen++
	c.state = LoadingInitial
	c.page = 1
	c.items = nil
	c.hasMore = true
	c.total = 0
	c.err = nil
	return c.gen
}

func (c *Controller) loadFirst(ctx context.Context, gen uint64) error {
	p, err := c.src.ListToolsPaginated(ctx, 1, c.limit)
	c.metrics.ListingLoad("initial", err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		return ErrDiscarded
	}
	if err != nil {
		c.state = Errored
		c.err = err
		c.log.Warn("initial listing load failed", logger.Error(err))
		return err
	}

	c.items = append([]domain.Tool(nil), p.Items...)
	c.page = 1
	c.hasMore = c.full(p)
	c.total = p.Total
	c.state = Loaded
	return nil
}

// LoadMore fetches the next page when the consumer nears the end of the
// list. It issues nothing unless the controller is Loaded with more pages
// to fetch, so repeated signals while a page is in flight are ignored.
// The returned bool reports whether a request was issued.
//
// On failure the loaded items are kept, hasMore is left unchanged and the
// controller returns to Loaded so the next signal retries the same page.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed || c.state != Loaded || !c.hasMore {
		c.mu.Unlock()
		return false, nil
	}
	c.state = LoadingMore
	gen := c.gen
	next := c.page + 1
	c.mu.Unlock()

	p, err := c.src.ListToolsPaginated(ctx, next, c.limit)
	c.metrics.ListingLoad("more", err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		return true, ErrDiscarded
	}
	c.state = Loaded
	if err != nil {
		c.err = err
		c.log.Warn("listing page load failed",
			logger.Int("page", next),
			logger.Error(err))
		return true, err
	}

	c.items = append(c.items, p.Items...)
	c.page = next
	c.hasMore = c.full(p)
	c.total = p.Total
	c.err = nil
	return true, nil
}

// full reports whether p filled the limit the source actually applied,
// which may be lower than the one requested. Callers hold c.mu.
func (c *Controller) full(p domain.ToolPage) bool {
	limit := c.limit
	if p.Limit > 0 && p.Limit < limit {
		limit = p.Limit
	}
	return len(p.Items) >= limit
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:   c.state,
		Page:    c.page,
		Items:   append([]domain.Tool(nil), c.items...),
		HasMore: c.hasMore,
		Total:   c.total,
		Err:     c.err,
	}
}

// Close discards any result still in flight and rejects further loads.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++
	c.mu.Unlock()
}
