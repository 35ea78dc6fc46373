package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/refurbtrack/price-tracker/internal/app"
	"github.com/refurbtrack/price-tracker/internal/competitors"
	"github.com/refurbtrack/price-tracker/internal/pipeline"
)

var scrapeAll bool

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <competitor>",
	Short: "Scrape competitor listings and update the dataset",
	Long: `Scrape one competitor's listing pages, validate the resulting snapshot
against the previous run, and persist it. A snapshot whose product count
dropped past the validation threshold is preserved in a side file and the
dataset stays unchanged.

Use --all to scrape every registered competitor.`,
	Example: `  price-tracker scrape DiscountPC
  price-tracker scrape --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&scrapeAll, "all", false, "Scrape all competitors")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config required for scrape command but not loaded")
	}

	a, err := app.New(cfg, nil, *logger)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var results []pipeline.CompetitorResult
	if scrapeAll {
		logger.Info().Int("competitors", len(competitors.All())).Msg("Scraping all competitors")
		results = a.Pipeline.RunAll(ctx).Results
	} else {
		if len(args) == 0 {
			return fmt.Errorf("either specify <competitor> or use --all flag")
		}
		name := args[0]
		if _, err := competitors.Get(name); err != nil {
			return fmt.Errorf("unknown competitor: %s\nValid competitors: %s", name, strings.Join(competitors.Names(), ", "))
		}
		results = append(results, a.Pipeline.RunCompetitor(ctx, name))
	}

	displayScrapeResults(results)

	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("some scrapes failed")
		}
	}
	return nil
}

func displayScrapeResults(results []pipeline.CompetitorResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "COMPETITOR\tSTATUS\tPAGES\tPRODUCTS\tCHANGE")
	fmt.Fprintln(w, "----------\t------\t-----\t--------\t------")

	for _, r := range results {
		status := "ACCEPTED"
		switch {
		case r.Err != nil:
			status = "FAILED"
		case !r.Accepted:
			status = "REJECTED"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%+d\n", r.Competitor, status, r.Pages, r.Products, r.Change)
	}

	w.Flush()
}
