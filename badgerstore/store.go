package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/makasim/flowcanvas"
)

// Store keeps revision logs in a Badger database. Records are stored in
// protobuf encoding under per workflow keys; a separate key tracks the
// latest committed rev of each workflow.
type Store struct {
	db *badger.DB

	l *slog.Logger
}

func New(db *badger.DB, l *slog.Logger) *Store {
	return &Store{
		db: db,
		l:  l,
	}
}

func (s *Store) Get(_ context.Context, id flowcanvas.WorkflowID) (*flowcanvas.Record, error) {
	rec := &flowcanvas.Record{}
	if err := s.db.View(func(txn *badger.Txn) error {
		rev, err := getLatestRev(txn, id)
		if err != nil {
			return err
		}
		if rev == 0 {
			return fmt.Errorf("%w; id=%s", flowcanvas.ErrNotFound, id)
		}

		return getRecord(txn, id, rev, rec)
	}); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Store) GetRev(_ context.Context, id flowcanvas.WorkflowID, rev int64) (*flowcanvas.Record, error) {
	rec := &flowcanvas.Record{}
	if err := s.db.View(func(txn *badger.Txn) error {
		if err := getRecord(txn, id, rev, rec); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w; id=%s rev=%d", flowcanvas.ErrNotFound, id, rev)
		} else if err != nil {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Store) Save(_ context.Context, rec *flowcanvas.Record) error {
	if rec.Workflow.ID == `` {
		rec.Workflow.ID = flowcanvas.NewWorkflowID()
	}

	id := rec.Workflow.ID

	return s.db.Update(func(txn *badger.Txn) error {
		latestRev, err := getLatestRev(txn, id)
		if err != nil {
			return err
		}
		if rec.Rev != latestRev {
			return flowcanvas.ErrRevMismatch{IDS: []flowcanvas.WorkflowID{id}}
		}

		rec.Rev = latestRev + 1
		rec.CommittedAtUnixMilli = time.Now().UnixMilli()

		if err := setRecord(txn, rec); err != nil {
			return fmt.Errorf("set record: %w", err)
		}
		if err := setLatestRev(txn, id, rec.Rev); err != nil {
			return fmt.Errorf("set latest rev: %w", err)
		}

		return nil
	})
}

func (s *Store) List(_ context.Context) ([]flowcanvas.WorkflowInfo, error) {
	var infos []flowcanvas.WorkflowInfo
	if err := s.db.View(func(txn *badger.Txn) error {
		prefix := latestRevPrefix()

		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchSize: 100,
			Prefix:       prefix,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id := flowcanvas.WorkflowID(strings.TrimPrefix(string(it.Item().Key()), string(prefix)))

			rev, err := getLatestRev(txn, id)
			if err != nil {
				return err
			}

			rec := &flowcanvas.Record{}
			if err := getRecord(txn, id, rev, rec); err != nil {
				return fmt.Errorf("get record: id=%s rev=%d: %w", id, rev, err)
			}

			infos = append(infos, flowcanvas.WorkflowInfo{
				ID:                   id,
				Name:                 rec.Workflow.Name,
				Rev:                  rec.Rev,
				CommittedAtUnixMilli: rec.CommittedAtUnixMilli,
			})
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return infos, nil
}

func (s *Store) Delete(_ context.Context, id flowcanvas.WorkflowID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		rev, err := getLatestRev(txn, id)
		if err != nil {
			return err
		}
		if rev == 0 {
			return fmt.Errorf("%w; id=%s", flowcanvas.ErrNotFound, id)
		}

		keys, err := recordKeys(txn, id)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		return txn.Delete(latestRevKey(id))
	})
}

func (s *Store) Prune(_ context.Context, keep int) (int, error) {
	var dropped int
	if err := s.db.Update(func(txn *badger.Txn) error {
		prefix := latestRevPrefix()

		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchSize: 100,
			Prefix:       prefix,
		})

		var ids []flowcanvas.WorkflowID
		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, flowcanvas.WorkflowID(strings.TrimPrefix(string(it.Item().Key()), string(prefix))))
		}
		it.Close()

		for _, id := range ids {
			keys, err := recordKeys(txn, id)
			if err != nil {
				return err
			}
			if len(keys) <= keep {
				continue
			}

			for _, key := range keys[:len(keys)-keep] {
				if err := txn.Delete(key); err != nil {
					return err
				}
				dropped++
			}
		}

		return nil
	}); err != nil {
		return 0, err
	}

	return dropped, nil
}

func (s *Store) Shutdown(_ context.Context) error {
	return nil
}
