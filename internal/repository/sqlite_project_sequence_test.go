package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSequence_SeedsFromExistingPhases(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Seq")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))
	phaseRepo := NewSQLitePhaseRepo(database)
	require.NoError(t, phaseRepo.Create(ctx, testutil.NewTestPhase(proj.ID, "A", "2024-01-01", "2024-01-05", testutil.WithOrder(4))))

	seq := NewSQLiteProjectSequenceRepo(database)
	first, err := seq.NextProjectSeq(ctx, proj.ID)
	require.NoError(t, err)
	second, err := seq.NextProjectSeq(ctx, proj.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, first)
	assert.Equal(t, 6, second)
}
