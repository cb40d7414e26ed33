package badgerstore_test

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/makasim/flowcanvas"
	"github.com/makasim/flowcanvas/badgerstore"
	"github.com/makasim/flowcanvas/storetest"
)

func TestSuite(t *testing.T) {
	s := storetest.Get(func(t *testing.T) flowcanvas.Store {
		db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(2))
		if err != nil {
			t.Fatalf("failed to open badger db: %v", err)
		}
		t.Cleanup(func() {
			if err := db.Close(); err != nil {
				t.Fatalf("failed to close badger db: %v", err)
			}
		})

		l, _ := storetest.NewTestLogger(t)
		return badgerstore.New(db, l)
	})

	// badger keeps compaction goroutines until db close
	s.DisableGoleak()

	s.Test(t)
}
