package domain

import "errors"

// Domain errors represent business outcomes, distinct from
// infrastructure failures. Callers match them with errors.Is to
// render one specific message per outcome.
var (
	// ErrNotFound indicates a requested document does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a document create collided with an existing one.
	ErrAlreadyExists = errors.New("already exists")

	// ErrVersionMismatch indicates a conditional replace was rejected because
	// the supplied version token is stale.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrBatchNotFound indicates no ledger exists for the batch under any
	// candidate reference.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrItemNotFound indicates the batch ledger has no item with the
	// requested image ID.
	ErrItemNotFound = errors.New("item not found")

	// ErrAlreadyUsed indicates the item was consumed earlier.
	// This is terminal and never retried.
	ErrAlreadyUsed = errors.New("item already used")

	// ErrConflict indicates the optimistic write lost to concurrent writers
	// more times than the retry bound allows. The caller may re-issue.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrAmbiguousCommit indicates a conditional replace timed out and may or
	// may not have committed. Never auto-retried; verify before retrying.
	ErrAmbiguousCommit = errors.New("ambiguous commit")

	// ErrInvalidID indicates a batch or image identifier failed validation.
	// Rejected before any store access.
	ErrInvalidID = errors.New("invalid identifier")
)
