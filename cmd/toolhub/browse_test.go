package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/toolhub/internal/catalog"
	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/listing"
	"github.com/MrSnakeDoc/toolhub/internal/remote/memory"
)

func seededCatalog(t *testing.T, n int) (*catalog.Service, []domain.Category) {
	t.Helper()
	return seededCatalogWith(t, n, catalog.Options{})
}

func seededCatalogWith(t *testing.T, n int, opts catalog.Options) (*catalog.Service, []domain.Category) {
	t.Helper()
	ctx := context.Background()

	opts.Remote = memory.New()
	svc, err := catalog.New(opts)
	require.NoError(t, err)

	writing, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Writing"})
	require.NoError(t, err)
	imaging, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Imaging"})
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		cat := writing
		if i%3 == 0 {
			cat = imaging
		}
		_, err := svc.CreateTool(ctx, domain.ToolInput{
			Name:        fmt.Sprintf("Tool%02d", i),
			Description: "assistant",
			URL:         "https://example.com",
			CategoryID:  cat.ID,
		})
		require.NoError(t, err)
	}

	categories, err := svc.ListCategoriesOptimized(ctx)
	require.NoError(t, err)
	return svc, categories
}

func countToolLines(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Tool") {
			n++
		}
	}
	return n
}

func TestBrowseLoadsEveryPage(t *testing.T) {
	svc, categories := seededCatalog(t, 45)
	ctrl := listing.New(svc, listing.WithPageSize(20))
	defer ctrl.Close()

	var out bytes.Buffer
	err := browse(context.Background(), ctrl, categories, browseOptions{category: domain.AllCategories},
		strings.NewReader("\n\n\n\n"), &out)
	require.NoError(t, err)

	require.Equal(t, 45, countToolLines(out.String()))
	require.Contains(t, out.String(), "end of list, 45 tools loaded")
	require.Contains(t, out.String(), "categories: all (20)")
}

func TestBrowseOversizedPageSize(t *testing.T) {
	svc, categories := seededCatalogWith(t, 250, catalog.Options{PageSize: 150})
	require.Equal(t, catalog.MaxPageSize, svc.PageSize())

	// A controller asking for more than the catalog serves must still page to the end.
	ctrl := listing.New(svc, listing.WithPageSize(150))
	defer ctrl.Close()

	var out bytes.Buffer
	err := browse(context.Background(), ctrl, categories, browseOptions{category: domain.AllCategories},
		strings.NewReader(strings.Repeat("\n", 5)), &out)
	require.NoError(t, err)

	require.Equal(t, 250, countToolLines(out.String()))
	require.Contains(t, out.String(), "end of list, 250 tools loaded")
}

func TestBrowseQuit(t *testing.T) {
	svc, categories := seededCatalog(t, 45)
	ctrl := listing.New(svc, listing.WithPageSize(20))
	defer ctrl.Close()

	var out bytes.Buffer
	err := browse(context.Background(), ctrl, categories, browseOptions{}, strings.NewReader("q\n"), &out)
	require.NoError(t, err)

	require.Equal(t, 20, countToolLines(out.String()))
	require.Contains(t, out.String(), "20 of 45 loaded")
}

func TestBrowseFiltersLoadedTools(t *testing.T) {
	svc, categories := seededCatalog(t, 9)
	ctrl := listing.New(svc, listing.WithPageSize(20))
	defer ctrl.Close()

	var out bytes.Buffer
	err := browse(context.Background(), ctrl, categories, browseOptions{category: "Imaging"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	// Tool00, Tool03, Tool06 are filed under Imaging.
	require.Equal(t, 3, countToolLines(out.String()))
}
