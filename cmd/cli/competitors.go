package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/refurbtrack/price-tracker/internal/competitors"
)

// competitorsCmd represents the competitors command
var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "List the registered competitor sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tWEBSITE\tLISTINGS")
		for _, comp := range competitors.All() {
			fmt.Fprintf(w, "%s\t%s\t%d\n", comp.Name, comp.BaseURL, len(comp.Listings))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(competitorsCmd)
}
