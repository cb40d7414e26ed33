package memstore_test

import (
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/makasim/flowcanvas/memstore"
	"github.com/makasim/flowcanvas/storetest"
)

func TestSuite(t *testing.T) {
	s := storetest.Get(func(t *testing.T) flowcanvas.Store {
		l, _ := storetest.NewTestLogger(t)
		return memstore.New(l)
	})

	s.Test(t)
}
