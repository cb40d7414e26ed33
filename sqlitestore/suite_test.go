package sqlitestore_test

import (
	"database/sql"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/makasim/flowcanvas/sqlitestore"
	"github.com/makasim/flowcanvas/storetest"
)

func TestSuite(t *testing.T) {
	s := storetest.Get(func(t *testing.T) flowcanvas.Store {
		db, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			t.Fatalf("failed to open sqlite db: %v", err)
		}
		t.Cleanup(func() {
			if err := db.Close(); err != nil {
				t.Fatalf("failed to close sqlite db: %v", err)
			}
		})

		// in-memory sqlite db is per connection
		db.SetMaxOpenConns(1)

		l, _ := storetest.NewTestLogger(t)

		st, err := sqlitestore.New(db, l)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		return st
	})

	s.Test(t)
}
