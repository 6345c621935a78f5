package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolhub/internal/app"
	"github.com/MrSnakeDoc/toolhub/internal/sources/seed"
)

func newSeedCmd(e *env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a catalog file through the admin writes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}

			catalogFile, err := seed.NewLoader(file).Load()
			if err != nil {
				return err
			}

			components, err := app.NewComponents(cmd.Context(), e.cfg, e.logger, nil)
			if err != nil {
				return err
			}
			defer components.Close()

			sum, err := seed.Import(cmd.Context(), components.Catalog, catalogFile, e.logger)
			if err != nil {
				return fmt.Errorf("import stopped after %d categories and %d tools: %w", sum.Categories, sum.Tools, err)
			}
			cmd.Printf("✅ imported %d categories and %d tools\n", sum.Categories, sum.Tools)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the catalog yaml file")
	return cmd
}
