package storetest

import (
	"context"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func Prune(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, rec))
	}

	shortRec := aRecord(`shortWID`, `Short`, 0)
	require.NoError(t, s.Save(ctx, shortRec))

	dropped, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 3, dropped)

	foundRec, err := s.Get(ctx, `aWID`)
	require.NoError(t, err)
	require.Equal(t, int64(5), foundRec.Rev)

	_, err = s.GetRev(ctx, `aWID`, 4)
	require.NoError(t, err)
	_, err = s.GetRev(ctx, `aWID`, 3)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)

	_, err = s.Get(ctx, `shortWID`)
	require.NoError(t, err)

	dropped, err = s.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 0, dropped)
}

// PruneSimilarIDs prunes workflows whose ids extend each other and expects
// the revision counts of each to be tracked independently.
func PruneSimilarIDs(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`a`, `A Workflow`, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Save(ctx, rec))
	}

	similarRec := aRecord(`a.b`, `Similar`, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Save(ctx, similarRec))
	}

	dropped, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, dropped)

	for _, id := range []flowcanvas.WorkflowID{`a`, `a.b`} {
		_, err = s.GetRev(ctx, id, 1)
		require.ErrorIs(t, err, flowcanvas.ErrNotFound)
		_, err = s.GetRev(ctx, id, 2)
		require.NoError(t, err)

		foundRec, err := s.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, int64(3), foundRec.Rev)
	}
}
