package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/refurbtrack/price-tracker/internal/export"
	"github.com/refurbtrack/price-tracker/internal/store"
)

var exportFormat string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <output-file>",
	Short: "Export the dataset as CSV or XLSX",
	Example: `  price-tracker export prices.csv
  price-tracker export prices.xlsx --format xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv or xlsx (default: from file extension)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config required for export command but not loaded")
	}

	out := args[0]
	format := exportFormat
	if format == "" {
		format = filepath.Ext(out)
		format = trimDot(format)
	}

	st := store.New(cfg.Store.DataFile(), cfg.Store.RejectedDir, *logger)
	data := st.Load()

	switch format {
	case "csv":
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, data); err != nil {
			return err
		}
	case "xlsx":
		if err := export.WriteXLSX(out, data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q, want csv or xlsx", format)
	}

	logger.Info().Str("file", out).Str("format", format).Msg("Dataset exported")
	return nil
}

func trimDot(s string) string {
	if len(s) > 0 && s[0] == '.' {
		return s[1:]
	}
	return s
}
