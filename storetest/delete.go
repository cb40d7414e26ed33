package storetest

import (
	"context"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func Delete(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Save(ctx, rec))

	keptRec := aRecord(`keptWID`, `Kept`, 0)
	require.NoError(t, s.Save(ctx, keptRec))

	require.NoError(t, s.Delete(ctx, `aWID`))

	_, err := s.Get(ctx, `aWID`)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)
	_, err = s.GetRev(ctx, `aWID`, 1)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, flowcanvas.WorkflowID(`keptWID`), infos[0].ID)
}

// DeleteSimilarIDs deletes a workflow whose id is a prefix of another
// workflow's id and expects the longer one to be left untouched.
func DeleteSimilarIDs(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`a`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Save(ctx, rec))

	similarRec := aRecord(`a.b`, `Similar`, 0)
	require.NoError(t, s.Save(ctx, similarRec))
	require.NoError(t, s.Save(ctx, similarRec))

	require.NoError(t, s.Delete(ctx, `a`))

	_, err := s.Get(ctx, `a`)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)

	foundRec, err := s.Get(ctx, `a.b`)
	require.NoError(t, err)
	require.Equal(t, int64(2), foundRec.Rev)

	_, err = s.GetRev(ctx, `a.b`, 1)
	require.NoError(t, err)
}

func DeleteNotFound(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	err := s.Delete(ctx, `unknownWID`)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)
}
