package catalog

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/query"
)

func (s *Service) listTools(ctx context.Context, r query.Read) ([]domain.Tool, error) {
	tools := []domain.Tool{}
	if _, err := s.fetch(ctx, r, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// ListTools returns every tool, newest first.
func (s *Service) ListTools(ctx context.Context) ([]domain.Tool, error) {
	return s.listTools(ctx, query.ListTools{})
}

// ListToolsByCategory returns the tools of a category, best rated first.
func (s *Service) ListToolsByCategory(ctx context.Context, categoryID string) ([]domain.Tool, error) {
	if err := domain.RequireID("category_id", categoryID); err != nil {
		return nil, err
	}
	return s.listTools(ctx, query.ToolsByCategory{CategoryID: strings.TrimSpace(categoryID)})
}

// SearchTools matches keyword against tool names and descriptions, best
// rated first, optionally within one category. A blank keyword returns no
// tools without contacting the remote service.
func (s *Service) SearchTools(ctx context.Context, keyword, categoryID string) ([]domain.Tool, error) {
	r := query.SearchTools{Keyword: strings.TrimSpace(keyword), CategoryID: strings.TrimSpace(categoryID)}
	if r.Blank() {
		return []domain.Tool{}, nil
	}
	return s.listTools(ctx, r)
}

// ListPopularTools returns the limit best rated tools. limit <= 0 means DefaultPopularLimit.
func (s *Service) ListPopularTools(ctx context.Context, limit int) ([]domain.Tool, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	return s.listTools(ctx, query.PopularTools{Limit: limit})
}

// ListFreeTools returns the tools usable without payment, best rated first.
func (s *Service) ListFreeTools(ctx context.Context) ([]domain.Tool, error) {
	return s.listTools(ctx, query.FreeTools{})
}

// ListToolsPaginated returns one page of tools, newest first, with the
// total number of tools. page < 1 means 1; limit < 1 means the default
// page size. Pages are cached under tools_{page}_{limit}.
func (s *Service) ListToolsPaginated(ctx context.Context, page, limit int) (domain.ToolPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.pageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	r := query.ToolsPage{Page: page, Limit: limit}
	return cachedRead(ctx, s, r, func(ctx context.Context) (domain.ToolPage, error) {
		out := domain.ToolPage{Items: []domain.Tool{}, Page: page, Limit: limit}
		count, err := s.fetch(ctx, r, &out.Items)
		if err != nil {
			return domain.ToolPage{}, err
		}
		if count != nil {
			out.Total = *count
		}
		return out, nil
	})
}

// GetTool returns a tool by id, or ErrNotFound.
func (s *Service) GetTool(ctx context.Context, id string) (domain.Tool, error) {
	if err := domain.RequireID("id", id); err != nil {
		return domain.Tool{}, err
	}
	var tool domain.Tool
	if _, err := s.fetch(ctx, query.GetTool{ID: strings.TrimSpace(id)}, &tool); err != nil {
		return domain.Tool{}, mapNoRows(err)
	}
	return tool, nil
}

// CreateTool validates and inserts a tool, returning it with its category.
func (s *Service) CreateTool(ctx context.Context, in domain.ToolInput) (domain.Tool, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Tool{}, err
	}

	var tool domain.Tool
	if err := s.write(ctx, query.CreateTool{Input: in}, &tool); err != nil {
		return domain.Tool{}, err
	}
	s.log.Info("tool created", logger.String("id", tool.ID), logger.String("name", tool.Name))
	return tool, nil
}

// UpdateTool applies a partial update and stamps updated_at.
func (s *Service) UpdateTool(ctx context.Context, id string, patch domain.ToolPatch) (domain.Tool, error) {
	if err := domain.RequireID("id", id); err != nil {
		return domain.Tool{}, err
	}
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return domain.Tool{}, err
	}

	var tool domain.Tool
	w := query.UpdateTool{ID: strings.TrimSpace(id), Patch: patch, Now: s.now()}
	if err := s.write(ctx, w, &tool); err != nil {
		return domain.Tool{}, mapNoRows(err)
	}
	s.log.Info("tool updated", logger.String("id", tool.ID))
	return tool, nil
}

// DeleteTool removes a tool. Deleting an unknown id succeeds.
func (s *Service) DeleteTool(ctx context.Context, id string) error {
	if err := domain.RequireID("id", id); err != nil {
		return err
	}
	if err := s.write(ctx, query.DeleteTool{ID: strings.TrimSpace(id)}, nil); err != nil {
		return err
	}
	s.log.Info("tool deleted", logger.String("id", id))
	return nil
}
