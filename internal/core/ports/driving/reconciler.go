package driving

import (
	"context"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

// RunResult is the outcome of one reconciliation run across all batches.
type RunResult struct {
	// Summary lists batches that gained new items, for notification.
	Summary domain.Summary

	// Deltas holds the per-batch results for every batch that was
	// processed, including removal-only and no-op batches.
	Deltas []domain.Delta

	// Failures maps batch IDs to the error that stopped their pass.
	// A failed batch never aborts the rest of the run.
	Failures map[string]error
}

// Reconciler brings each batch's ledger into agreement with the files
// actually present in its inbox directory.
//
// Runs must be serialized: the write path bypasses optimistic
// concurrency, so two concurrent runs against one batch may lose
// updates.
type Reconciler interface {
	// ListBatchIDs returns the candidate batches found under the inbox root.
	ListBatchIDs() ([]string, error)

	// ReconcileBatch syncs a single batch and reports what changed.
	ReconcileBatch(ctx context.Context, batchID string) (*domain.Delta, error)

	// Run reconciles every batch, persists the summary and notifies.
	Run(ctx context.Context) (*RunResult, error)
}
