package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/velocity.plan/internal/monitoring"
	"github.com/banshee-data/velocity.plan/internal/timeutil"
)

var testEpoch = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// openTestDB opens a migrated database in a temp dir with a mock clock.
func openTestDB(t *testing.T) (*DB, *timeutil.MockClock) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })

	db, err := Open(filepath.Join(t.TempDir(), "plan.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := timeutil.NewMockClock(testEpoch)
	db.SetClock(clock)
	return db, clock
}
