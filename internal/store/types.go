package store

import "errors"

// Sentinel errors surfaced by record reads and guarded writes.
var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrRevisionConflict reports a guarded write that lost to a concurrent
	// writer. The record on disk is unchanged.
	ErrRevisionConflict = errors.New("revision conflict")
	// ErrDuplicate reports an insert whose key already exists.
	ErrDuplicate = errors.New("record already exists")
)

// #region registry
// Registry is the single aggregate counter row. TotalRecords counts every
// record insert made after the registry was initialized.
type Registry struct {
	Authority    string
	TotalRecords uint64
	LastUpdate   int64
}

// #endregion registry
