package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/refurbtrack/price-tracker/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "price-tracker",
	Short: "Competitor price tracker for refurbished business computers",
	Long: `Tracks competitor retail prices for refurbished Dell, HP and Lenovo
laptops and desktops. Scrapes competitor listing pages, validates each
snapshot against the previous run, and maintains a backed-up JSON dataset
with per-run change tracking.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes the logger
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Default to console format for the CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
