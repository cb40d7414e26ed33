package storetest

import (
	"context"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func SaveNew(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	require.Equal(t, int64(1), rec.Rev)
	require.NotZero(t, rec.CommittedAtUnixMilli)

	foundRec, err := s.Get(ctx, `aWID`)
	require.NoError(t, err)
	require.Equal(t, rec, foundRec)
}

func SaveAssignsID(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(``, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	require.NotEmpty(t, rec.Workflow.ID)
	require.Equal(t, int64(1), rec.Rev)

	foundRec, err := s.Get(ctx, rec.Workflow.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Workflow.ID, foundRec.Workflow.ID)
}

func SaveSequence(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	require.Equal(t, int64(1), rec.Rev)

	rec.Workflow.Name = `A Workflow v2`
	require.NoError(t, s.Save(ctx, rec))
	require.Equal(t, int64(2), rec.Rev)

	rec.Workflow.Name = `A Workflow v3`
	require.NoError(t, s.Save(ctx, rec))
	require.Equal(t, int64(3), rec.Rev)

	foundRec, err := s.Get(ctx, `aWID`)
	require.NoError(t, err)
	require.Equal(t, int64(3), foundRec.Rev)
	require.Equal(t, `A Workflow v3`, foundRec.Workflow.Name)
}

func SaveRevMismatch(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Save(ctx, rec))

	staleRec := aRecord(`aWID`, `Stale`, 1)
	err := s.Save(ctx, staleRec)
	require.True(t, flowcanvas.IsErrRevMismatch(err))

	var revErr flowcanvas.ErrRevMismatch
	require.ErrorAs(t, err, &revErr)
	require.True(t, revErr.Contains(`aWID`))

	foundRec, err := s.Get(ctx, `aWID`)
	require.NoError(t, err)
	require.Equal(t, int64(2), foundRec.Rev)
	require.Equal(t, `A Workflow`, foundRec.Workflow.Name)
}
