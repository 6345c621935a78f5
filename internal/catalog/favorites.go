package catalog

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/identity"
	"github.com/MrSnakeDoc/toolhub/internal/query"
	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

func currentUser(ctx context.Context) (string, error) {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return "", domain.ErrNoIdentity
	}
	return id, nil
}

// ListFavoriteTools returns the tools favorited by the current user, most
// recently favorited first. Favorites whose tool is gone are skipped.
func (s *Service) ListFavoriteTools(ctx context.Context) ([]domain.Tool, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	var favorites []domain.Favorite
	if _, err := s.fetch(ctx, query.ListFavorites{UserID: userID}, &favorites); err != nil {
		return nil, err
	}

	tools := make([]domain.Tool, 0, len(favorites))
	for _, f := range favorites {
		if f.Tool != nil {
			tools = append(tools, *f.Tool)
		}
	}
	return tools, nil
}

// AddFavorite links the current user to a tool. A second add of the same
// tool fails with ErrAlreadyFavorited.
func (s *Service) AddFavorite(ctx context.Context, toolID string) error {
	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}
	if err := domain.RequireID("tool_id", toolID); err != nil {
		return err
	}

	err = s.write(ctx, query.AddFavorite{UserID: userID, ToolID: strings.TrimSpace(toolID)}, nil)
	if remote.IsUniqueViolation(err) {
		return domain.ErrAlreadyFavorited
	}
	return err
}

// RemoveFavorite unlinks the current user from a tool. Removing a missing
// favorite succeeds.
func (s *Service) RemoveFavorite(ctx context.Context, toolID string) error {
	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}
	if err := domain.RequireID("tool_id", toolID); err != nil {
		return err
	}
	return s.write(ctx, query.RemoveFavorite{UserID: userID, ToolID: strings.TrimSpace(toolID)}, nil)
}

// IsFavorited reports whether the current user favorited a tool.
func (s *Service) IsFavorited(ctx context.Context, toolID string) (bool, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return false, err
	}
	if err := domain.RequireID("tool_id", toolID); err != nil {
		return false, err
	}

	_, err = s.fetch(ctx, query.FindFavorite{UserID: userID, ToolID: strings.TrimSpace(toolID)}, nil)
	switch {
	case err == nil:
		return true, nil
	case remote.IsNoRows(err):
		return false, nil
	default:
		return false, err
	}
}
