package catalog

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/query"
)

func (s *Service) listCategories(ctx context.Context, r query.Read) ([]domain.Category, error) {
	return cachedRead(ctx, s, r, func(ctx context.Context) ([]domain.Category, error) {
		categories := []domain.Category{}
		if _, err := s.fetch(ctx, r, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	})
}

// ListCategories returns every category ordered by name. Cached.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.listCategories(ctx, query.ListCategories{})
}

// ListCategoriesOptimized returns categories with only id, name and icon,
// ordered by name. Cached separately from ListCategories.
func (s *Service) ListCategoriesOptimized(ctx context.Context) ([]domain.Category, error) {
	return s.listCategories(ctx, query.ListCategoriesMin{})
}

// CreateCategory validates and inserts a category.
func (s *Service) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Category{}, err
	}

	var category domain.Category
	if err := s.write(ctx, query.CreateCategory{Input: in}, &category); err != nil {
		return domain.Category{}, err
	}
	s.log.Info("category created", logger.String("id", category.ID), logger.String("name", category.Name))
	return category, nil
}

// UpdateCategory applies a partial update and stamps updated_at.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (domain.Category, error) {
	if err := domain.RequireID("id", id); err != nil {
		return domain.Category{}, err
	}
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return domain.Category{}, err
	}

	var category domain.Category
	w := query.UpdateCategory{ID: strings.TrimSpace(id), Patch: patch, Now: s.now()}
	if err := s.write(ctx, w, &category); err != nil {
		return domain.Category{}, mapNoRows(err)
	}
	s.log.Info("category updated", logger.String("id", category.ID))
	return category, nil
}

// DeleteCategory removes a category. Tools keep their dangling reference
// and are shown as uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := domain.RequireID("id", id); err != nil {
		return err
	}
	if err := s.write(ctx, query.DeleteCategory{ID: strings.TrimSpace(id)}, nil); err != nil {
		return err
	}
	s.log.Info("category deleted", logger.String("id", id))
	return nil
}
