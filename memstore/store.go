package memstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/makasim/flowcanvas"
)

// Store keeps revision logs in memory. Intended for tests and single
// process setups.
type Store struct {
	mux   sync.Mutex
	logs  map[flowcanvas.WorkflowID][]*flowcanvas.Record
	order []flowcanvas.WorkflowID

	l *slog.Logger
}

func New(l *slog.Logger) *Store {
	return &Store{
		logs: make(map[flowcanvas.WorkflowID][]*flowcanvas.Record),
		l:    l,
	}
}

func (s *Store) Get(_ context.Context, id flowcanvas.WorkflowID) (*flowcanvas.Record, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	log := s.logs[id]
	if len(log) == 0 {
		return nil, flowcanvas.ErrNotFound
	}

	return log[len(log)-1].CopyTo(&flowcanvas.Record{}), nil
}

func (s *Store) GetRev(_ context.Context, id flowcanvas.WorkflowID, rev int64) (*flowcanvas.Record, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	for _, rec := range s.logs[id] {
		if rec.Rev == rev {
			return rec.CopyTo(&flowcanvas.Record{}), nil
		}
	}

	return nil, flowcanvas.ErrNotFound
}

func (s *Store) Save(_ context.Context, rec *flowcanvas.Record) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if rec.Workflow.ID == `` {
		rec.Workflow.ID = flowcanvas.NewWorkflowID()
	}

	id := rec.Workflow.ID
	log := s.logs[id]

	var latestRev int64
	if len(log) > 0 {
		latestRev = log[len(log)-1].Rev
	}
	if rec.Rev != latestRev {
		return flowcanvas.ErrRevMismatch{IDS: []flowcanvas.WorkflowID{id}}
	}

	rec.Rev = latestRev + 1
	rec.CommittedAtUnixMilli = time.Now().UnixMilli()

	if len(log) == 0 {
		s.order = append(s.order, id)
	}
	s.logs[id] = append(log, rec.CopyTo(&flowcanvas.Record{}))

	return nil
}

func (s *Store) List(_ context.Context) ([]flowcanvas.WorkflowInfo, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	infos := make([]flowcanvas.WorkflowInfo, 0, len(s.order))
	for _, id := range s.order {
		log := s.logs[id]
		if len(log) == 0 {
			continue
		}

		latest := log[len(log)-1]
		infos = append(infos, flowcanvas.WorkflowInfo{
			ID:                   id,
			Name:                 latest.Workflow.Name,
			Rev:                  latest.Rev,
			CommittedAtUnixMilli: latest.CommittedAtUnixMilli,
		})
	}

	return infos, nil
}

func (s *Store) Delete(_ context.Context, id flowcanvas.WorkflowID) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if len(s.logs[id]) == 0 {
		return flowcanvas.ErrNotFound
	}

	delete(s.logs, id)
	for i, oID := range s.order {
		if oID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

func (s *Store) Prune(_ context.Context, keep int) (int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var dropped int
	for id, log := range s.logs {
		if len(log) <= keep {
			continue
		}

		dropped += len(log) - keep
		s.logs[id] = append([]*flowcanvas.Record(nil), log[len(log)-keep:]...)
	}

	return dropped, nil
}

func (s *Store) Shutdown(_ context.Context) error {
	return nil
}
