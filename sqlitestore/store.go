package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/makasim/flowcanvas"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps revision logs in a SQLite database. The workflow document
// is stored as a JSONB column; the latest rev of each workflow lives in
// a separate table.
type Store struct {
	db *sql.DB

	l *slog.Logger
}

func New(db *sql.DB, l *slog.Logger) (*Store, error) {
	if _, err := db.Exec(createRecordLogTableSQL); err != nil {
		return nil, fmt.Errorf("create flowcanvas_record_log table: db: exec: %w", err)
	}
	if _, err := db.Exec(createRecordLatestTableSQL); err != nil {
		return nil, fmt.Errorf("create flowcanvas_record_latest table: db: exec: %w", err)
	}

	return &Store{
		db: db,
		l:  l,
	}, nil
}

func (s *Store) Get(ctx context.Context, id flowcanvas.WorkflowID) (*flowcanvas.Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx, `
SELECT l.id, l.rev, l.committed_at_unix_milli, l.workflow
FROM flowcanvas_record_log AS l
JOIN flowcanvas_record_latest AS latest ON latest.id = l.id AND latest.rev = l.rev
WHERE l.id = ?`, string(id)), id)
}

func (s *Store) GetRev(ctx context.Context, id flowcanvas.WorkflowID, rev int64) (*flowcanvas.Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx, `
SELECT id, rev, committed_at_unix_milli, workflow
FROM flowcanvas_record_log
WHERE id = ? AND rev = ?`, string(id), rev), id)
}

func (s *Store) Save(ctx context.Context, rec *flowcanvas.Record) error {
	if rec.Workflow.ID == `` {
		rec.Workflow.ID = flowcanvas.NewWorkflowID()
	}

	id := rec.Workflow.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback()

	var latestRev int64
	err = tx.QueryRowContext(ctx, `SELECT rev FROM flowcanvas_record_latest WHERE id = ?`, string(id)).Scan(&latestRev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("query latest rev: %w", err)
	}

	if rec.Rev != latestRev {
		return flowcanvas.ErrRevMismatch{IDS: []flowcanvas.WorkflowID{id}}
	}

	nextRev := latestRev + 1
	committedAt := time.Now().UnixMilli()

	w, err := flowcanvas.MarshalJSONWorkflow(&rec.Workflow)
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO flowcanvas_record_log(id, rev, committed_at_unix_milli, workflow)
VALUES (?, ?, ?, ?)`, string(id), nextRev, committedAt, w); err != nil {
		return fmt.Errorf("insert record log: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO flowcanvas_record_latest(id, rev)
VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET rev = excluded.rev`, string(id), nextRev); err != nil {
		return fmt.Errorf("upsert record latest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: commit: %w", err)
	}

	rec.Rev = nextRev
	rec.CommittedAtUnixMilli = committedAt

	return nil
}

func (s *Store) List(ctx context.Context) ([]flowcanvas.WorkflowInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT l.id, l.rev, l.committed_at_unix_milli, l.workflow
FROM flowcanvas_record_log AS l
JOIN flowcanvas_record_latest AS latest ON latest.id = l.id AND latest.rev = l.rev
ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("query record latest: %w", err)
	}
	defer rows.Close()

	var infos []flowcanvas.WorkflowInfo
	for rows.Next() {
		var id string
		var rev, committedAt int64
		var w []byte
		if err := rows.Scan(&id, &rev, &committedAt, &w); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		workflow := flowcanvas.Workflow{}
		if err := flowcanvas.UnmarshalJSONWorkflow(w, &workflow); err != nil {
			return nil, fmt.Errorf("unmarshal workflow: %w", err)
		}

		infos = append(infos, flowcanvas.WorkflowInfo{
			ID:                   flowcanvas.WorkflowID(id),
			Name:                 workflow.Name,
			Rev:                  rev,
			CommittedAtUnixMilli: committedAt,
		})
	}

	return infos, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id flowcanvas.WorkflowID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM flowcanvas_record_latest WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete record latest: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w; id=%s", flowcanvas.ErrNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM flowcanvas_record_log WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete record log: %w", err)
	}

	return tx.Commit()
}

func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM flowcanvas_record_log
WHERE (id, rev) NOT IN (
	SELECT id, rev FROM (
		SELECT id, rev, ROW_NUMBER() OVER (PARTITION BY id ORDER BY rev DESC) AS pos
		FROM flowcanvas_record_log
	) WHERE pos <= ?
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("delete record log: %w", err)
	}

	dropped, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(dropped), nil
}

func (s *Store) Shutdown(_ context.Context) error {
	return nil
}

func scanRecord(row *sql.Row, wID flowcanvas.WorkflowID) (*flowcanvas.Record, error) {
	var id string
	var rev, committedAt int64
	var w []byte

	if err := row.Scan(&id, &rev, &committedAt, &w); errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w; id=%s", flowcanvas.ErrNotFound, wID)
	} else if err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}

	rec := &flowcanvas.Record{
		Rev:                  rev,
		CommittedAtUnixMilli: committedAt,
	}
	if err := flowcanvas.UnmarshalJSONWorkflow(w, &rec.Workflow); err != nil {
		return nil, fmt.Errorf("unmarshal workflow: %w", err)
	}

	return rec, nil
}
