package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/query"
)

// GetStats counts tools and categories concurrently. Either failure fails
// the whole call; no partial stats are returned.
func (s *Service) GetStats(ctx context.Context) (domain.Stats, error) {
	var tools, categories int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.count(gctx, query.TableTools)
		tools = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, query.TableCategories)
		categories = n
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}

	return domain.Stats{TotalTools: tools, TotalCategories: categories, TotalViews: 0}, nil
}

func (s *Service) count(ctx context.Context, table string) (int64, error) {
	n, err := s.fetch(ctx, query.Count{Table: table}, nil)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	return *n, nil
}
