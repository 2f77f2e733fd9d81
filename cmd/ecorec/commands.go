package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecorec/backend/internal/domain"
)

// newServeCmd creates the serve subcommand
func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.app.Serve(ctx)
		},
	}
}

// newSearchCmd creates the search subcommand
func newSearchCmd(c *cli) *cobra.Command {
	var (
		mode     string
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search products by name or category",
		Long: `Search matches the query case-insensitively against product names and
categories. --mode topRated keeps well-reviewed products, best rated first;
--mode priceRange keeps products priced within --min-price..--max-price.`,
		Example: `  ecorec search bottle
  ecorec search kitchen --mode priceRange --min-price 10 --max-price 30
  ecorec search toothbrush --mode topRated --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.app.DefaultFilterOptions()
			opts.Mode = domain.FilterMode(mode)
			if cmd.Flags().Changed("min-price") {
				opts.MinPrice = minPrice
			}
			if cmd.Flags().Changed("max-price") {
				opts.MaxPrice = maxPrice
			}

			result, err := c.app.Catalog.Search(cmd.Context(), "", strings.Join(args, " "), opts)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), c.outputJSON)
			return out.searchResult(result)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(domain.FilterModeNone), "filter mode: none, topRated or priceRange")
	cmd.Flags().Float64Var(&minPrice, "min-price", domain.DefaultMinPrice, "lowest price for priceRange (default from config)")
	cmd.Flags().Float64Var(&maxPrice, "max-price", domain.DefaultMaxPrice, "highest price for priceRange (default from config)")

	return cmd
}

// newRecommendCmd creates the recommend subcommand
func newRecommendCmd(c *cli) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "recommend <product name>",
		Short: "List the products most similar to the named product",
		Args:  cobra.MinimumNArgs(1),
		Example: `  ecorec recommend "Bamboo Toothbrush"
  ecorec recommend "Glass Water Bottle" -n 10 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			recs, err := c.app.Catalog.Recommend(cmd.Context(), "", name, n)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), c.outputJSON)
			return out.recommendations(name, recs)
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", 0, "number of recommendations (default from config)")

	return cmd
}

// newStatsCmd creates the stats subcommand
func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog size and cleaning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.app.Catalog.Stats(cmd.Context(), "")
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), c.outputJSON)
			return out.catalogStats(stats)
		},
	}
}
