package badgerstore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/makasim/flowcanvas"
)

func setRecord(txn *badger.Txn, rec *flowcanvas.Record) error {
	return txn.Set(recordKey(rec.Workflow.ID, rec.Rev), flowcanvas.MarshalRecord(rec, nil))
}

func getRecord(txn *badger.Txn, id flowcanvas.WorkflowID, rev int64, rec *flowcanvas.Record) error {
	item, err := txn.Get(recordKey(id, rev))
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return flowcanvas.UnmarshalRecord(val, rec)
	})
}

// recordKeys returns the record keys of a workflow in ascending rev order.
func recordKeys(txn *badger.Txn, id flowcanvas.WorkflowID) ([][]byte, error) {
	prefix := recordPrefix(id)

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchSize:   100,
		PrefetchValues: false,
		Prefix:         prefix,
	})
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}

	return keys, nil
}

func setLatestRev(txn *badger.Txn, id flowcanvas.WorkflowID, rev int64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(rev))

	return txn.Set(latestRevKey(id), b)
}

func getLatestRev(txn *badger.Txn, id flowcanvas.WorkflowID) (int64, error) {
	item, err := txn.Get(latestRevKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var rev int64
	if err := item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("value not uint64")
		}

		rev = int64(binary.BigEndian.Uint64(val))
		return nil
	}); err != nil {
		return 0, err
	}

	return rev, nil
}

// Record keys carry the id length so prefix scans of one id cannot match
// another id extending it through the separator, e.g. "a" and "a.b".
func recordKey(id flowcanvas.WorkflowID, rev int64) []byte {
	return []byte(fmt.Sprintf(`flowcanvas.records.%d.%s.%020d`, len(id), id, rev))
}

func recordPrefix(id flowcanvas.WorkflowID) []byte {
	return []byte(fmt.Sprintf(`flowcanvas.records.%d.%s.`, len(id), id))
}

func latestRevKey(id flowcanvas.WorkflowID) []byte {
	return []byte(fmt.Sprintf(`flowcanvas.latest_revs.%s`, id))
}

func latestRevPrefix() []byte {
	return []byte(`flowcanvas.latest_revs.`)
}
