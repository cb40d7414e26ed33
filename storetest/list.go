package storetest

import (
	"context"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func List(t *testing.T, s flowcanvas.Store) {
	ctx := context.Background()

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, infos)

	fooRec := aRecord(`fooWID`, `Foo`, 0)
	require.NoError(t, s.Save(ctx, fooRec))
	require.NoError(t, s.Save(ctx, fooRec))

	barRec := aRecord(`barWID`, `Bar`, 0)
	require.NoError(t, s.Save(ctx, barRec))

	infos, err = s.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []flowcanvas.WorkflowInfo{
		{
			ID:                   `fooWID`,
			Name:                 `Foo`,
			Rev:                  2,
			CommittedAtUnixMilli: fooRec.CommittedAtUnixMilli,
		},
		{
			ID:                   `barWID`,
			Name:                 `Bar`,
			Rev:                  1,
			CommittedAtUnixMilli: barRec.CommittedAtUnixMilli,
		},
	}, infos)
}
