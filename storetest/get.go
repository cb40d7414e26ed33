package storetest

import (
	"context"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func GetLatest(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))
	rec.Workflow.Name = `A Workflow v2`
	require.NoError(t, s.Save(ctx, rec))

	expRec := rec.CopyTo(&flowcanvas.Record{})

	foundRec, err := s.Get(ctx, `aWID`)
	require.NoError(t, err)
	require.Equal(t, expRec, foundRec)
}

func GetRev(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))

	expRec := rec.CopyTo(&flowcanvas.Record{})

	rec.Workflow.Name = `A Workflow v2`
	require.NoError(t, s.Save(ctx, rec))
	rec.Workflow.Name = `A Workflow v3`
	require.NoError(t, s.Save(ctx, rec))

	foundRec, err := s.GetRev(ctx, `aWID`, 1)
	require.NoError(t, err)
	require.Equal(t, expRec, foundRec)
}

func GetNotFound(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, `unknownWID`)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)
}

func GetRevNotFound(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	rec := aRecord(`aWID`, `A Workflow`, 0)
	require.NoError(t, s.Save(ctx, rec))

	_, err := s.GetRev(ctx, `aWID`, 42)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)

	_, err = s.GetRev(ctx, `unknownWID`, 1)
	require.ErrorIs(t, err, flowcanvas.ErrNotFound)
}
