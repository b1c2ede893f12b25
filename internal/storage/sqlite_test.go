package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/leakscan/internal/core"
	"github.com/vovakirdan/leakscan/internal/leak"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	records := []ScanRecord{
		{ShipID: "shuttle", Start: "4,2,3", Exit: "4,2,-1", Outcome: "found", Moves: 4, Expansions: 30, DurationMs: 2},
		{ShipID: "shuttle", Start: "4,2,3", Outcome: "cancelled", Expansions: 3},
		{ShipID: "corridor", Start: "2,2,2", Outcome: "sealed", Expansions: 120, DurationMs: 5},
	}
	for _, rec := range records {
		if _, err := store.SaveScan(rec); err != nil {
			t.Fatalf("SaveScan() failed: %v", err)
		}
	}

	shuttle, err := store.RecentScans("shuttle", 10)
	if err != nil {
		t.Fatalf("RecentScans() failed: %v", err)
	}
	if len(shuttle) != 2 {
		t.Fatalf("Expected 2 shuttle scans, got %d", len(shuttle))
	}

	// Newest first
	if shuttle[0].Outcome != "cancelled" {
		t.Errorf("Expected newest scan to be cancelled, got %s", shuttle[0].Outcome)
	}
	if shuttle[1].Exit != "4,2,-1" || shuttle[1].Moves != 4 {
		t.Errorf("Unexpected found scan: %+v", shuttle[1])
	}
	if shuttle[1].Duration().Milliseconds() != 2 {
		t.Errorf("Expected 2ms duration, got %v", shuttle[1].Duration())
	}
	if shuttle[0].CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	all, err := store.RecentScans("", 10)
	if err != nil {
		t.Fatalf("RecentScans(all) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 scans overall, got %d", len(all))
	}
	if all[0].ShipID != "corridor" {
		t.Errorf("Expected corridor scan first, got %s", all[0].ShipID)
	}
}

func TestStoreSaveRequiresShip(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveScan(ScanRecord{Outcome: "sealed"}); err == nil {
		t.Error("Expected error for scan without ship id")
	}
}

func TestStoreRecentScansLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 30; i++ {
		if _, err := store.SaveScan(ScanRecord{ShipID: "pod", Start: "1,1,1", Outcome: "found", Moves: i}); err != nil {
			t.Fatalf("SaveScan() failed: %v", err)
		}
	}

	scans, err := store.RecentScans("pod", 5)
	if err != nil {
		t.Fatalf("RecentScans() failed: %v", err)
	}
	if len(scans) != 5 {
		t.Errorf("Expected 5 scans, got %d", len(scans))
	}
	if scans[0].Moves != 29 {
		t.Errorf("Expected newest scan first, got moves=%d", scans[0].Moves)
	}

	// Zero limit falls back to the default
	scans, err = store.RecentScans("pod", 0)
	if err != nil {
		t.Fatalf("RecentScans() failed: %v", err)
	}
	if len(scans) != 20 {
		t.Errorf("Expected 20 scans, got %d", len(scans))
	}
}

func TestStoreLastScan(t *testing.T) {
	store := openTestStore(t)

	last, err := store.LastScan("shuttle")
	if err != nil {
		t.Fatalf("LastScan() failed: %v", err)
	}
	if last != nil {
		t.Errorf("Expected nil for unscanned ship, got %+v", last)
	}

	store.SaveScan(ScanRecord{ShipID: "shuttle", Start: "1,1,1", Outcome: "sealed"})
	store.SaveScan(ScanRecord{ShipID: "shuttle", Start: "2,2,2", Outcome: "found", Moves: 3})

	last, err = store.LastScan("shuttle")
	if err != nil {
		t.Fatalf("LastScan() failed: %v", err)
	}
	if last == nil || last.Start != "2,2,2" {
		t.Errorf("Expected last scan from 2,2,2, got %+v", last)
	}
}

func TestStoreCountByOutcome(t *testing.T) {
	store := openTestStore(t)

	for _, outcome := range []string{"found", "found", "sealed", "cancelled"} {
		store.SaveScan(ScanRecord{ShipID: "corridor", Start: "2,2,2", Outcome: outcome})
	}
	store.SaveScan(ScanRecord{ShipID: "other", Start: "0,0,0", Outcome: "found"})

	counts, err := store.CountByOutcome("corridor")
	if err != nil {
		t.Fatalf("CountByOutcome() failed: %v", err)
	}
	if counts["found"] != 2 || counts["sealed"] != 1 || counts["cancelled"] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
	if counts["failed"] != 0 {
		t.Errorf("Expected no failed scans, got %d", counts["failed"])
	}
}

func TestStoreAllShipStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScan(ScanRecord{ShipID: "shuttle", Start: "4,2,3", Outcome: "found", Moves: 4})
	store.SaveScan(ScanRecord{ShipID: "shuttle", Start: "4,2,3", Outcome: "found", Moves: 9})
	store.SaveScan(ScanRecord{ShipID: "shuttle", Start: "4,2,3", Outcome: "sealed"})
	store.SaveScan(ScanRecord{ShipID: "corridor", Start: "2,2,2", Outcome: "sealed"})

	stats, err := store.AllShipStats()
	if err != nil {
		t.Fatalf("AllShipStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 ships, got %d", len(stats))
	}

	s := stats["shuttle"]
	if s.Scans != 3 || s.Leaks != 2 || s.MaxMoves != 9 {
		t.Errorf("Unexpected shuttle stats: %+v", s)
	}
	if stats["corridor"].Leaks != 0 {
		t.Errorf("Expected corridor to have no leaks, got %d", stats["corridor"].Leaks)
	}
}

func TestStoreClearScans(t *testing.T) {
	store := openTestStore(t)

	store.SaveScan(ScanRecord{ShipID: "shuttle", Start: "4,2,3", Outcome: "found"})
	store.SaveScan(ScanRecord{ShipID: "corridor", Start: "2,2,2", Outcome: "sealed"})

	if err := store.ClearScans("shuttle"); err != nil {
		t.Fatalf("ClearScans() failed: %v", err)
	}

	scans, _ := store.RecentScans("shuttle", 10)
	if len(scans) != 0 {
		t.Errorf("Expected 0 shuttle scans after clear, got %d", len(scans))
	}
	scans, _ = store.RecentScans("corridor", 10)
	if len(scans) != 1 {
		t.Errorf("Expected corridor scans to survive, got %d", len(scans))
	}

	if err := store.ClearScans(""); err != nil {
		t.Fatalf("ClearScans(all) failed: %v", err)
	}
	scans, _ = store.RecentScans("", 10)
	if len(scans) != 0 {
		t.Errorf("Expected empty history, got %d", len(scans))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Only nested directory creation is checked; nothing is written to home
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestRecordFromReport(t *testing.T) {
	r := leak.Report{
		Outcome: leak.OutcomeFound,
		Start:   core.V(1, 2, 3),
		Lines: []core.LineI{
			{Start: core.V(1, 2, -1), End: core.V(1, 2, 0)},
			{Start: core.V(1, 2, 0), End: core.V(1, 2, 3)},
		},
		Stats:   leak.SearchStats{Expansions: 42},
		Elapsed: 1500 * time.Microsecond,
	}

	rec := RecordFromReport("shuttle", r)
	if rec.Start != "1,2,3" || rec.Exit != "1,2,-1" {
		t.Errorf("Unexpected cells: start=%s exit=%s", rec.Start, rec.Exit)
	}
	if rec.Outcome != "found" || rec.Moves != 2 || rec.Expansions != 42 || rec.DurationMs != 1 {
		t.Errorf("Unexpected record: %+v", rec)
	}

	store := openTestStore(t)
	if err := store.SaveReport("shuttle", leak.Report{Outcome: leak.OutcomeNoLeak}); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	last, _ := store.LastScan("shuttle")
	if last == nil || last.Exit != "" || last.Start != "0,0,0" {
		t.Errorf("Unexpected saved report: %+v", last)
	}
}
