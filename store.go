package flowcanvas

import (
	"context"
	"time"
)

// Record is the storage envelope around a workflow document. The document
// itself carries no version field by contract; revisions belong to the store.
type Record struct {
	Workflow Workflow `json:"workflow"`

	Rev                  int64 `json:"rev"`
	CommittedAtUnixMilli int64 `json:"committed_at_unix_milli"`
}

func (rec *Record) CommittedAt() time.Time {
	return time.UnixMilli(rec.CommittedAtUnixMilli)
}

func (rec *Record) CopyTo(to *Record) *Record {
	rec.Workflow.CopyTo(&to.Workflow)
	to.Rev = rec.Rev
	to.CommittedAtUnixMilli = rec.CommittedAtUnixMilli

	return to
}

type WorkflowInfo struct {
	ID                   WorkflowID `json:"workflow_id"`
	Name                 string     `json:"workflow_name"`
	Rev                  int64      `json:"rev"`
	CommittedAtUnixMilli int64      `json:"committed_at_unix_milli"`
}

// Store persists workflow documents as an append-only log of revisions.
//
// Save commits rec as a new revision. rec.Rev must equal the latest
// committed rev of the workflow (zero for a new workflow); on mismatch
// Save returns ErrRevMismatch and commits nothing. On success the store
// assigns the new rev and committed-at time back to rec. A record with an
// empty workflow id gets one assigned.
type Store interface {
	Get(ctx context.Context, id WorkflowID) (*Record, error)
	GetRev(ctx context.Context, id WorkflowID, rev int64) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]WorkflowInfo, error)
	Delete(ctx context.Context, id WorkflowID) error

	// Prune drops all but the latest keep revisions of every workflow
	// and reports how many revisions were dropped.
	Prune(ctx context.Context, keep int) (int, error)

	Shutdown(ctx context.Context) error
}
