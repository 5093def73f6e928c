package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite lists phases from several readers while
// a writer inserts; every snapshot must be internally consistent.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("ReadWrite")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))
	phaseRepo := NewSQLitePhaseRepo(database)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			p := testutil.NewTestPhase(proj.ID, fmt.Sprintf("Phase-%d", i), "2024-01-01", "2024-01-10", testutil.WithOrder(i))
			if err := phaseRepo.Create(ctx, p); err != nil {
				t.Errorf("writer: create phase %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				phases, err := phaseRepo.ListByProject(ctx, proj.ID)
				if err != nil {
					t.Errorf("reader %d: list phases: %v", reader, err)
					return
				}
				for _, p := range phases {
					if p.ID == "" || !p.EndDate.After(p.StartDate) {
						t.Errorf("reader %d: inconsistent phase row %+v", reader, p)
					}
				}
			}
		}(r)
	}
	wg.Wait()

	phases, err := phaseRepo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, phases, 20)
}
