package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/leakscan/internal/platform/tui"
	"github.com/vovakirdan/leakscan/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
	flagClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history [ship]",
	Short: "Show recorded scans",
	Long: `Display recorded scans, newest first. Without a ship, shows scans of
every ship.

Examples:
  leakscan history
  leakscan history shuttle --limit 5
  leakscan history --interactive
  leakscan history corridor --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of scans to show")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive history board")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded scans")
}

func runHistory(_ *cobra.Command, args []string) error {
	shipID := ""
	if len(args) > 0 {
		shipID = args[0]
	}

	store, err := storage.Open(appConfig.DatabasePath())
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScans(shipID); err != nil {
			return err
		}
		if shipID == "" {
			fmt.Println("Cleared all scans.")
		} else {
			fmt.Printf("Cleared scans of %s.\n", shipID)
		}
		return nil
	}

	if flagInteractive {
		return runHistoryBoard(store)
	}

	scans, err := store.RecentScans(shipID, flagLimit)
	if err != nil {
		return fmt.Errorf("could not fetch scans: %w", err)
	}

	if len(scans) == 0 {
		fmt.Println("No scans recorded yet.")
		return nil
	}

	title := "all ships"
	if shipID != "" {
		title = shipID
	}
	fmt.Printf("Recent scans (%s):\n", title)
	fmt.Println()
	fmt.Printf("  %-12s  %-9s  %-10s  %-10s  %5s  %6s  %s\n", "Ship", "Outcome", "Start", "Exit", "Moves", "Time", "Date")
	fmt.Printf("  %-12s  %-9s  %-10s  %-10s  %5s  %6s  %s\n", "----", "-------", "-----", "----", "-----", "----", "----")

	for _, r := range scans {
		exit := r.Exit
		if exit == "" {
			exit = "-"
		}
		fmt.Printf("  %-12s  %-9s  %-10s  %-10s  %5d  %6s  %s\n",
			r.ShipID,
			r.Outcome,
			r.Start,
			exit,
			r.Moves,
			r.Duration(),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	counts, err := store.CountByOutcome(shipID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Totals: %d found, %d sealed, %d cancelled, %d failed\n",
		counts["found"], counts["sealed"], counts["cancelled"], counts["failed"])
	return nil
}

func runHistoryBoard(store *storage.Store) error {
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	ships, err := newLoader().LoadAll()
	if err != nil {
		return err
	}
	tabs := make([]tui.HistoryShip, 0, len(ships))
	for _, s := range ships {
		tabs = append(tabs, tui.HistoryShip{ID: s.ID, Title: s.Name})
	}

	_, err = tui.RunHistory(store, tabs, width, height)
	return err
}
