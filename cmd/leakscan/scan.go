package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/host"
	"github.com/vovakirdan/leakscan/internal/leak"
	"github.com/vovakirdan/leakscan/internal/ship"
	"github.com/vovakirdan/leakscan/internal/storage"
)

var (
	flagStart     string
	flagTimeout   time.Duration
	flagNoHistory bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <ship>",
	Short: "Scan a ship for air leaks",
	Long: `Runs a leak scan without the viewer and prints the result.

The ship is a ship id or a path to a ship file. The scan starts at the
ship's start cell, or at --start when given. Ctrl+C cancels the scan.

Examples:
  leakscan scan shuttle
  leakscan scan ./ships/frigate.yaml --start 3,1,4 --timeout 10s`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagStart, "start", "", "Start cell as x,y,z (default: ship start cell)")
	scanCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Cancel the scan after this long (default from config)")
	scanCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record the scan")
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := newLoader().Resolve(args[0])
	if err != nil {
		return err
	}

	start, err := scanStart(s)
	if err != nil {
		return err
	}

	timeout := appConfig.Scan.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = flagTimeout
	}

	var store *storage.Store
	if appConfig.Scan.History && !flagNoHistory {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}

	var (
		final    leak.Report
		finished bool
	)
	runner := host.NewParallel()
	scanner := leak.NewScanner(runner, leak.Options{
		Settings: appConfig.ScanSettings(),
		Logger:   logger.WithPrefix("scanner"),
		OnReport: func(_ leak.Grid, r leak.Report) {
			final = r
			finished = true
			if store == nil {
				return
			}
			if err := store.SaveReport(s.ID, r); err != nil {
				logger.Warn("could not save scan", "ship", s.ID, "error", err)
			}
		},
	})

	if !scanner.StartScan(s, start) {
		if !appConfig.Scan.Pressurization {
			return errors.New("pressurization is disabled in the config")
		}
		return fmt.Errorf("start cell %s is outside the ship grid", start)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for !finished {
		select {
		case <-runner.Ready():
		case <-ctx.Done():
			scanner.CancelScan()
		case <-deadline:
			logger.Warn("scan timed out", "timeout", timeout)
			scanner.CancelScan()
		}
		runner.Drain()
		scanner.PollResult()
	}

	// Nothing is drawn headless.
	scanner.ClearStatus()
	printReport(s, final)
	return nil
}

// scanStart picks the start cell: --start, then the ship's start cell, then
// the centre of its bounds.
func scanStart(s *ship.Ship) (core.Vec3I, error) {
	if flagStart != "" {
		return core.ParseVec3I(flagStart)
	}
	if s.HasStart {
		return s.Start, nil
	}
	b := s.Bounds()
	return core.V((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2, (b.Min.Z+b.Max.Z)/2), nil
}

func printReport(s *ship.Ship, r leak.Report) {
	fmt.Printf("Ship:  %s (%s)\n", s.Name, s.ID)
	fmt.Printf("Start: %s\n", r.Start)
	fmt.Println()

	switch r.Outcome {
	case leak.OutcomeFound:
		fmt.Println(leak.MessageFound)
	case leak.OutcomeCancelled:
		fmt.Println(leak.MessageCancelled)
	default:
		fmt.Println(leak.MessageNoLeaks)
	}
	if r.Outcome == leak.OutcomeFailed && r.Err != nil {
		fmt.Printf("  (scan failed: %v)\n", r.Err)
	}

	fmt.Printf("  expansions: %d  elapsed: %s\n", r.Stats.Expansions, r.Elapsed.Round(time.Microsecond))
	if r.Outcome != leak.OutcomeFound {
		return
	}

	exit := r.Lines[0].Start
	meters := float64(r.Moves()) * s.CellSize()
	fmt.Printf("  exit: %s  moves: %d  length: %.1fm  view: %s\n", exit, r.Moves(), meters, r.ViewTime)
	fmt.Println()
	fmt.Println("Path (start to exit):")
	for i := len(r.Lines) - 1; i >= 0; i-- {
		l := r.Lines[i]
		fmt.Printf("  %s -> %s\n", l.End, l.Start)
	}
}
