package pgstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/makasim/flowcanvas/pgstore"
	"github.com/makasim/flowcanvas/pgstore/testpgstore"
	"github.com/makasim/flowcanvas/storetest"
	"github.com/stretchr/testify/require"
)

func TestSuite(t *testing.T) {
	dsn := os.Getenv(`FLOWCANVAS_PG_DSN`)
	if dsn == `` {
		t.Skip(`FLOWCANVAS_PG_DSN is not set`)
	}

	s := storetest.Get(func(t *testing.T) flowcanvas.Store {
		conn := testpgstore.OpenFreshDB(t, dsn, ``)

		for i, m := range pgstore.Migrations {
			_, err := conn.Exec(context.Background(), m.SQL)
			require.NoError(t, err, fmt.Sprintf("Migration #%d (%s) failed ", i, m.Desc))
		}

		l, _ := storetest.NewTestLogger(t)
		return pgstore.New(conn, l)
	})

	s.Test(t)
}

func TestMigrations(t *testing.T) {
	dsn := os.Getenv(`FLOWCANVAS_PG_DSN`)
	if dsn == `` {
		t.Skip(`FLOWCANVAS_PG_DSN is not set`)
	}

	conn := testpgstore.OpenFreshDB(t, dsn, ``)

	require.NotEmpty(t, pgstore.Migrations)
	for i, m := range pgstore.Migrations {
		require.NotEmpty(t, m.Desc)
		_, err := conn.Exec(context.Background(), m.SQL)
		require.NoError(t, err, fmt.Sprintf("Migration #%d (%s) failed ", i, m.Desc))
	}
}
