package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

// Writer is the admin write path a catalog is pushed through.
type Writer interface {
	CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error)
	CreateTool(ctx context.Context, in domain.ToolInput) (domain.Tool, error)
}

// Summary counts the rows an import created.
type Summary struct {
	Categories int
	Tools      int
}

// Import creates every category, then its tools under the new category
// id. It stops at the first failure; rows already created are kept.
func Import(ctx context.Context, w Writer, catalog Catalog, log logger.Logger) (Summary, error) {
	var sum Summary

	for _, cs := range catalog.Categories {
		cat, err := w.CreateCategory(ctx, domain.CategoryInput{
			Name:        cs.Name,
			Description: cs.Description,
			Icon:        cs.Icon,
		})
		if err != nil {
			return sum, fmt.Errorf("create category %q: %w", cs.Name, err)
		}
		sum.Categories++

		for _, ts := range cs.Tools {
			_, err := w.CreateTool(ctx, domain.ToolInput{
				Name:        ts.Name,
				Description: ts.Description,
				Logo:        ts.Logo,
				CategoryID:  cat.ID,
				IsFree:      ts.IsFree,
				Rating:      ts.Rating,
				URL:         ts.URL,
				Tags:        ts.Tags,
			})
			if err != nil {
				return sum, fmt.Errorf("create tool %q in %q: %w", ts.Name, cs.Name, err)
			}
			sum.Tools++
		}

		log.Debug("seeded category",
			logger.String("category", cat.Name),
			logger.Int("tools", len(cs.Tools)))
	}

	log.Info("catalog imported",
		logger.Int("categories", sum.Categories),
		logger.Int("tools", sum.Tools))
	return sum, nil
}
