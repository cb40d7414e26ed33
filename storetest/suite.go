package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/makasim/flowcanvas"
	"go.uber.org/goleak"
)

type Suite struct {
	SetUp func(t *testing.T) flowcanvas.Store

	disableGoleak bool
	cases         map[string]func(t *testing.T, s flowcanvas.Store)
}

func (s *Suite) Test(main *testing.T) {
	for name := range s.cases {
		s.run(main, name)
	}
}

func (s *Suite) run(main *testing.T, name string) {
	if !s.disableGoleak {
		defer goleak.VerifyNone(main, goleak.IgnoreCurrent())
	}

	main.Run(name, func(t *testing.T) {
		t.Helper()

		fn := s.cases[name]
		if fn == nil {
			t.SkipNow()
		}

		st := s.SetUp(t)
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()

			if err := st.Shutdown(ctx); err != nil {
				t.Fatalf("failed to shutdown store: %v", err)
			}
		})

		fn(t, st)
	})
}

func (s *Suite) DisableGoleak() {
	s.disableGoleak = true
}

func (s *Suite) Skip(t *testing.T, name string) {
	if _, ok := s.cases[name]; !ok {
		t.Fatal("unknown test case: ", name)
	}

	s.cases[name] = nil
}

func Get(setUp func(t *testing.T) flowcanvas.Store) *Suite {
	return &Suite{
		SetUp: setUp,

		cases: map[string]func(t *testing.T, s flowcanvas.Store){
			"SaveNew":         SaveNew,
			"SaveAssignsID":   SaveAssignsID,
			"SaveSequence":    SaveSequence,
			"SaveRevMismatch": SaveRevMismatch,

			"GetLatest":      GetLatest,
			"GetRev":         GetRev,
			"GetNotFound":    GetNotFound,
			"GetRevNotFound": GetRevNotFound,

			"List": List,

			"Delete":           Delete,
			"DeleteSimilarIDs": DeleteSimilarIDs,
			"DeleteNotFound":   DeleteNotFound,

			"Prune":           Prune,
			"PruneSimilarIDs": PruneSimilarIDs,
		},
	}
}
