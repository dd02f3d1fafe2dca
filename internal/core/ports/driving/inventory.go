package driving

import (
	"context"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

// Inventory exposes batch inventory queries and the single mutation the
// command and webhook layers need.
//
// Every outcome maps to one domain error so callers can render a
// specific message: domain.ErrInvalidID, domain.ErrBatchNotFound,
// domain.ErrItemNotFound, domain.ErrAlreadyUsed, domain.ErrConflict,
// domain.ErrAmbiguousCommit. Anything else is a storage failure.
type Inventory interface {
	// FetchStatus returns the current counts and stock level for a batch.
	FetchStatus(ctx context.Context, batchID string) (*domain.BatchStatus, error)

	// MarkUsed transitions one item from new to used and returns the
	// counts after the committed write. link may be empty; actor must not.
	MarkUsed(ctx context.Context, batchID, imageID, link, actor string) (*domain.UseResult, error)
}
