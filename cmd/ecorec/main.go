// Package main provides the EcoRec command line: run the API server or query
// a catalog file directly.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecorec/backend/config"
	"github.com/ecorec/backend/internal/app"
)

// cli carries global flags and the wired application between commands
type cli struct {
	catalogPath string
	outputJSON  bool
	verbose     bool

	app *app.App
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "ecorec",
		Short: "EcoRec eco-friendly product catalog search and recommendations",
		Long: `EcoRec cleans a scraped eco-friendly product catalog, indexes product text
and recommends similar products.

Use this tool to:
- Run the HTTP API (serve)
- Search the catalog with optional top-rated or price-range filters
- List the products most similar to a given product
- Inspect what cleaning kept and dropped

All query commands support --json for automation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if c.catalogPath != "" {
				cfg.Catalog.Path = c.catalogPath
			}
			if c.verbose {
				cfg.Log.Level = "debug"
			}
			if !c.outputJSON && cmd.Name() != "serve" {
				cfg.Log.Format = "console"
			}

			// Logs go to stderr so command output stays parseable
			app.InitLogging(cfg, os.Stderr)

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog file path (default: ECOREC_CATALOG_PATH or config)")
	root.PersistentFlags().BoolVar(&c.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd(c))
	root.AddCommand(newSearchCmd(c))
	root.AddCommand(newRecommendCmd(c))
	root.AddCommand(newStatsCmd(c))

	root.SetContext(context.Background())
	return root
}
