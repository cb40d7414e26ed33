package flowcanvas

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")
var ErrTypeNotFound = errors.New("node type not found")

// ErrRevMismatch is returned by Store.Save when the record's rev does not
// match the latest committed rev of the workflow.
type ErrRevMismatch struct {
	IDS []WorkflowID
}

func (err ErrRevMismatch) Error() string {
	ids := make([]string, 0, len(err.IDS))
	for _, id := range err.IDS {
		ids = append(ids, string(id))
	}

	return fmt.Sprintf("rev mismatch: %s", strings.Join(ids, ","))
}

func (err ErrRevMismatch) Contains(id WorkflowID) bool {
	for _, errID := range err.IDS {
		if errID == id {
			return true
		}
	}

	return false
}

func IsErrRevMismatch(err error) bool {
	return errors.As(err, &ErrRevMismatch{})
}
