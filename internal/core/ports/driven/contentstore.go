package driven

import "context"

// Document is a content store read result: raw bytes plus the opaque
// version token required as a precondition on the next replace.
type Document struct {
	Bytes []byte

	// Version is equality-comparable only. The core threads it through
	// and never interprets it.
	Version string
}

// ContentStore persists ledger documents in a remote store that offers
// single-document optimistic concurrency and nothing stronger.
//
// Implementations must keep the error taxonomy distinct: a missing
// document is domain.ErrNotFound, a stale precondition is
// domain.ErrVersionMismatch, and transport or auth failures are
// anything else. Callers rely on that distinction to avoid treating a
// transient outage as "batch does not exist".
type ContentStore interface {
	// Get fetches the document at key. An empty ref selects the store's
	// default reference; a non-empty ref pins a specific one.
	Get(ctx context.Context, key, ref string) (*Document, error)

	// PutIfMatch replaces the whole document, conditional on version
	// matching the store's current token for key. The message is a
	// human-readable audit line recorded alongside the write.
	PutIfMatch(ctx context.Context, key string, data []byte, version, message string) error

	// Create writes a document that must not yet exist.
	Create(ctx context.Context, key string, data []byte, message string) error
}
