package driven

import (
	"context"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

// SummaryStore persists the per-run reconciliation summary for the
// notification channel to consume. Transient, not authoritative.
type SummaryStore interface {
	Save(summary *domain.Summary) error
}

// Notifier pushes a reconciliation summary to an outbound channel.
type Notifier interface {
	Notify(ctx context.Context, summary *domain.Summary) error
}
