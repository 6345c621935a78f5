package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolhub/internal/app"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			application, err := app.New(e.cfg, e.logger)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
}
