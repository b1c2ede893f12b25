package storage

import (
	"fmt"

	"github.com/vovakirdan/leakscan/internal/leak"
)

// RecordFromReport converts a scanner report into a history record.
func RecordFromReport(shipID string, r leak.Report) ScanRecord {
	rec := ScanRecord{
		ShipID:     shipID,
		Start:      cellText(r.Start.X, r.Start.Y, r.Start.Z),
		Outcome:    string(r.Outcome),
		Moves:      r.Moves(),
		Expansions: r.Stats.Expansions,
		DurationMs: r.Elapsed.Milliseconds(),
	}
	if len(r.Lines) > 0 {
		exit := r.Lines[0].Start
		rec.Exit = cellText(exit.X, exit.Y, exit.Z)
	}
	return rec
}

// SaveReport records a scanner report for a ship.
func (s *Store) SaveReport(shipID string, r leak.Report) error {
	_, err := s.SaveScan(RecordFromReport(shipID, r))
	return err
}

func cellText(x, y, z int) string {
	return fmt.Sprintf("%d,%d,%d", x, y, z)
}
