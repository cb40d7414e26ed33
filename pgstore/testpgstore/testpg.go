package testpgstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/xo/dburl"
)

func OpenFreshDB(t *testing.T, dsn0, dbName string) *pgxpool.Pool {
	dsn, err := dburl.Parse(dsn0)
	require.NoError(t, err)

	conn0, err := pgxpool.New(context.Background(), dsn.String())
	require.NoError(t, err)
	defer conn0.Close()

	if dbName == `` {
		dbName = fmt.Sprintf(`flowcanvas_testdb_%d`, time.Now().UnixNano())
	}

	_, err = conn0.Exec(context.Background(), fmt.Sprintf(`CREATE DATABASE %s`, dbName))
	require.NoError(t, err)

	dsn.Path = dbName
	conn, err := pgxpool.New(context.Background(), dsn.String())
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
