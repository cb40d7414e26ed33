package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/makasim/flowcanvas"
)

type conntx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type conn interface {
	conntx

	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Store keeps revision logs in Postgres. Run Migrations against the
// database before creating the store.
type Store struct {
	conn conn

	l *slog.Logger
}

func New(conn conn, l *slog.Logger) *Store {
	return &Store{
		conn: conn,
		l:    l,
	}
}

func (s *Store) Get(ctx context.Context, id flowcanvas.WorkflowID) (*flowcanvas.Record, error) {
	rec := &flowcanvas.Record{}
	err := s.conn.QueryRow(ctx, `
SELECT r.workflow, r.rev, r.committed_at_unix_milli
FROM flowcanvas_records AS r
INNER JOIN flowcanvas_latest_records AS lr
	ON r.id = lr.id AND r.rev = lr.rev
WHERE lr.id = $1
LIMIT 1`, id).Scan(&rec.Workflow, &rec.Rev, &rec.CommittedAtUnixMilli)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w; id=%s", flowcanvas.ErrNotFound, id)
	} else if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Store) GetRev(ctx context.Context, id flowcanvas.WorkflowID, rev int64) (*flowcanvas.Record, error) {
	rec := &flowcanvas.Record{}
	err := s.conn.QueryRow(ctx, `
SELECT workflow, rev, committed_at_unix_milli
FROM flowcanvas_records
WHERE id = $1 AND rev = $2
LIMIT 1`, id, rev).Scan(&rec.Workflow, &rec.Rev, &rec.CommittedAtUnixMilli)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w; id=%s rev=%d", flowcanvas.ErrNotFound, id, rev)
	} else if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Store) Save(ctx context.Context, rec *flowcanvas.Record) error {
	if rec.Workflow.ID == `` {
		rec.Workflow.ID = flowcanvas.NewWorkflowID()
	}

	id := rec.Workflow.ID

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var latestRev int64
	err = tx.QueryRow(ctx, `SELECT rev FROM flowcanvas_latest_records WHERE id = $1 FOR UPDATE`, id).Scan(&latestRev)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("query latest rev: %w", err)
	}

	if rec.Rev != latestRev {
		return flowcanvas.ErrRevMismatch{IDS: []flowcanvas.WorkflowID{id}}
	}

	nextRev := latestRev + 1
	committedAt := time.Now().UnixMilli()

	if _, err := tx.Exec(ctx, `
INSERT INTO flowcanvas_records(id, rev, committed_at_unix_milli, workflow)
VALUES ($1, $2, $3, $4)`, id, nextRev, committedAt, &rec.Workflow); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO flowcanvas_latest_records(id, rev)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET rev = excluded.rev`, id, nextRev); err != nil {
		return fmt.Errorf("upsert latest record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("db: commit: %w", err)
	}

	rec.Rev = nextRev
	rec.CommittedAtUnixMilli = committedAt

	return nil
}

func (s *Store) List(ctx context.Context) ([]flowcanvas.WorkflowInfo, error) {
	rows, err := s.conn.Query(ctx, `
SELECT r.id, r.workflow->>'workflow_name', r.rev, r.committed_at_unix_milli
FROM flowcanvas_records AS r
INNER JOIN flowcanvas_latest_records AS lr
	ON r.id = lr.id AND r.rev = lr.rev
ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("query latest records: %w", err)
	}
	defer rows.Close()

	var infos []flowcanvas.WorkflowInfo
	for rows.Next() {
		var info flowcanvas.WorkflowInfo
		var name *string
		if err := rows.Scan(&info.ID, &name, &info.Rev, &info.CommittedAtUnixMilli); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if name != nil {
			info.Name = *name
		}

		infos = append(infos, info)
	}

	return infos, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id flowcanvas.WorkflowID) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `DELETE FROM flowcanvas_latest_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete latest record: %w", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w; id=%s", flowcanvas.ErrNotFound, id)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM flowcanvas_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	res, err := s.conn.Exec(ctx, `
DELETE FROM flowcanvas_records
WHERE (id, rev) NOT IN (
	SELECT id, rev FROM (
		SELECT id, rev, ROW_NUMBER() OVER (PARTITION BY id ORDER BY rev DESC) AS pos
		FROM flowcanvas_records
	) ranked WHERE pos <= $1
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}

	return int(res.RowsAffected()), nil
}

func (s *Store) Shutdown(_ context.Context) error {
	return nil
}
