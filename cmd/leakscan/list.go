package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagShipsDir string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available ships",
	Long: `Shows the ships in the ships directory plus the built-in samples.
A ship file with the same id as a sample replaces it.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagShipsDir, "ships", "", "Ships directory (default from config)")
}

func runList(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("ships") {
		appConfig.ShipsDir = flagShipsDir
	}

	ships, err := newLoader().LoadAll()
	if err != nil {
		return err
	}

	if len(ships) == 0 {
		fmt.Println("No ships available.")
		return nil
	}

	fmt.Println("Available ships:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range ships {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Printf("  %-*s  %-22s  %6s  %5s  %s\n", maxIDLen, "ID", "Name", "Blocks", "Grid", "Source")
	fmt.Printf("  %-*s  %-22s  %6s  %5s  %s\n", maxIDLen, "--", "----", "------", "----", "------")

	for _, s := range ships {
		fmt.Printf("  %-*s  %-22s  %6d  %5.1f  %s\n", maxIDLen, s.ID, s.Name, s.Len(), s.GridSize, s.FilePath)
	}

	fmt.Println()
	fmt.Println("Run 'leakscan scan <id>' or 'leakscan view <id>'.")
	return nil
}
