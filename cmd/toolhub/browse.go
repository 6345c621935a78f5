package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolhub/internal/app"
	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/listing"
)

type browseOptions struct {
	search   string
	category string
}

func newBrowseCmd(e *env) *cobra.Command {
	opts := browseOptions{category: domain.AllCategories}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the tool listing; Enter loads more, q quits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			components, err := app.NewComponents(cmd.Context(), e.cfg, e.logger, nil)
			if err != nil {
				return err
			}
			defer components.Close()

			categories, err := components.Catalog.ListCategoriesOptimized(cmd.Context())
			if err != nil {
				return err
			}

			ctrl := listing.New(components.Catalog,
				listing.WithPageSize(components.Catalog.PageSize()),
				listing.WithLogger(e.logger))
			defer ctrl.Close()

			return browse(cmd.Context(), ctrl, categories, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "only show tools whose name or description contains this term")
	cmd.Flags().StringVarP(&opts.category, "category", "c", opts.category, `only show tools of this category ("all" for every category)`)
	return cmd
}

// browse renders the loaded tools and treats each input line as the
// "near the end of the list" signal.
func browse(ctx context.Context, ctrl *listing.Controller, categories []domain.Category, opts browseOptions, in io.Reader, out io.Writer) error {
	if err := ctrl.Load(ctx); err != nil {
		_, _ = fmt.Fprintf(out, "⚠️  initial load failed: %v (Enter to retry)\n", err)
	}

	printCategories(out, categories, ctrl.Snapshot().Items)

	shown := 0
	lines := bufio.NewScanner(in)
	for {
		snap := ctrl.Snapshot()
		shown = render(out, snap, opts, shown)

		if snap.State == listing.Loaded && !snap.HasMore {
			_, _ = fmt.Fprintf(out, "-- end of list, %d tools loaded --\n", len(snap.Items))
			return nil
		}

		if !lines.Scan() {
			return lines.Err()
		}
		if strings.EqualFold(strings.TrimSpace(lines.Text()), "q") {
			return nil
		}

		if snap.State == listing.Errored {
			if _, err := ctrl.Retry(ctx); err != nil {
				_, _ = fmt.Fprintf(out, "⚠️  retry failed: %v\n", err)
			}
			continue
		}
		if _, err := ctrl.LoadMore(ctx); err != nil && !errors.Is(err, listing.ErrDiscarded) {
			_, _ = fmt.Fprintf(out, "⚠️  loading more failed: %v (Enter to retry)\n", err)
		}
	}
}

// render prints the filtered tools not printed yet and returns the new
// number of printed items.
func render(out io.Writer, snap listing.Snapshot, opts browseOptions, shown int) int {
	visible := domain.FilterTools(snap.Items, opts.search, opts.category)
	for _, t := range visible[min(shown, len(visible)):] {
		free := ""
		if t.IsFree {
			free = " [free]"
		}
		_, _ = fmt.Fprintf(out, "%-28s %-16s ★%.1f%s  %s\n", t.Name, t.CategoryName(), t.Rating, free, t.URL)
	}

	if snap.HasMore {
		_, _ = fmt.Fprintf(out, "… %d of %d loaded, Enter for more, q to quit\n", len(snap.Items), snap.Total)
	}
	return len(visible)
}

// printCategories prints the category filter bar with first-page counts.
func printCategories(out io.Writer, categories []domain.Category, tools []domain.Tool) {
	counts := domain.CountByCategory(categories, tools)
	parts := make([]string, 0, len(counts)+1)
	parts = append(parts, fmt.Sprintf("%s (%d)", domain.AllCategories, len(tools)))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.Name, c.Count))
	}
	_, _ = fmt.Fprintf(out, "categories: %s\n", strings.Join(parts, ", "))
}
