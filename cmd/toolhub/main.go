package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/toolhub/internal/config"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("❌ toolhub failed: %v", err)
	}
}

// env is loaded once a subcommand runs, so --help works without any
// TOOLHUB_* variable set.
type env struct {
	cfg    *config.Config
	logger logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "toolhub",
		Short:         "AI tools directory: HTTP API, catalog import and terminal browser",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if cmd.Name() == "version" {
				return
			}
			e.cfg = config.Load()
			e.logger = logger.New(e.cfg.LogLevel, e.cfg.PrettyLog)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newServeCmd(e),
		newSeedCmd(e),
		newBrowseCmd(e),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}
