// leakscan finds where air escapes from a voxel ship grid.
//
// Usage:
//
//	leakscan list              - List available ships
//	leakscan scan <ship>       - Scan a ship for leaks and print the path
//	leakscan view [ship]       - Inspect ships and scan them interactively
//	leakscan history [ship]    - Show recorded scans
//	leakscan serve             - Start SSH server for remote inspection
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.leakscan/config.yaml, ./configs/leakscan.yaml)
//	--db <path>         - Scan history database
//	--log-level <level> - debug, info, warn, error
//	--fps <rate>        - Frame rate of the scan loop and viewer
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/leakscan/internal/config"
	"github.com/vovakirdan/leakscan/internal/ship"
	"github.com/vovakirdan/leakscan/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagFPS      int

	// Loaded in PersistentPreRunE
	appConfig config.Config
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "leakscan",
	Short: "Leakscan - find air leaks in voxel ship grids",
	Long: `Leakscan walks the air inside a ship grid from a start cell and reports
the path air takes to the outside, or that the volume is sealed.

Available commands:
  list     - Show all available ships
  scan     - Scan a ship headlessly and print the leak path
  view     - Interactive ship viewer with animated leak paths
  history  - Recorded scans
  serve    - Start SSH server for remote inspection

Examples:
  leakscan list
  leakscan scan shuttle
  leakscan scan ./ships/frigate.yaml --start 3,1,4
  leakscan view corridor
  leakscan serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scan history database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frames per second (default from config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("fps") {
		cfg.Viewer.FPS = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appConfig = cfg
	logger = newLogger(os.Stderr, "leakscan")
	logger.Debug("config loaded", "source", source)
	return nil
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           appConfig.Level(),
	})
}

// fileLogger redirects logging to ~/.leakscan/leakscan.log so full-screen
// views are not drawn over.
func fileLogger() (*log.Logger, func(), error) {
	dir := config.Dir()
	if dir == "" {
		return newLogger(io.Discard, "leakscan"), func() {}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "leakscan.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return newLogger(f, "leakscan"), func() { f.Close() }, nil
}

func newLoader() *ship.Loader {
	return ship.NewLoader(appConfig.ShipsPath())
}

// openStore opens the history database, logging instead of failing when it
// is unavailable.
func openStore() *storage.Store {
	store, err := storage.Open(appConfig.DatabasePath())
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		return nil
	}
	return store
}
