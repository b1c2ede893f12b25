package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/platform/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [ship]",
	Short: "Inspect a ship and scan it interactively",
	Long: `Opens the ship viewer. Without a ship, starts at the ship picker.

Controls:
  Arrows/WASD  - Move the cursor
  [ / ]        - Change layer
  L/Enter      - Scan for leaks from the cursor
  C            - Cancel a running scan
  X            - Clear the shown path
  O            - Open or close the door under the cursor
  Esc/B        - Back to the picker
  Q/Ctrl+C     - Quit

Logs are written to ~/.leakscan/leakscan.log.

Examples:
  leakscan view
  leakscan view shuttle
  leakscan view ./ships/frigate.yaml --fps 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func runView(_ *cobra.Command, args []string) error {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: appConfig.Viewer.FPS,
	}

	viewLogger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// The viewer takes the terminal; keep warnings out of it too.
	logger = viewLogger

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	loader := newLoader()
	if len(args) == 0 {
		return tui.RunSession(tui.SessionOptions{
			Loader:  loader,
			Store:   store,
			Config:  appConfig,
			Logger:  viewLogger,
			Runtime: runtime,
		})
	}

	s, err := loader.Resolve(args[0])
	if err != nil {
		return err
	}
	return tui.RunViewer(s, tui.ViewerOptions{
		Config:  appConfig,
		Store:   store,
		Logger:  viewLogger,
		Runtime: runtime,
	})
}
