package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
	"github.com/stockpile-labs/stockpile-cli/internal/logger"
)

// DefaultKeyPrefix is where ledger documents live in the content store.
const DefaultKeyPrefix = "batches"

// ledgerKey derives the stable store key for a batch's ledger document.
func ledgerKey(prefix, batchID string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + "/" + batchID + ".json"
}

// loadLedger probes the candidate references in order and decodes the
// first document found. The probe exists because ledgers created under
// an old reference scheme must stay readable without a migration step.
//
// A missing document under every candidate yields domain.ErrBatchNotFound.
// Any other store error aborts the probe immediately: a transient
// failure must never be mistaken for "batch does not exist".
func loadLedger(
	ctx context.Context, store driven.ContentStore, key string, refs []string,
) (*domain.Ledger, string, error) {
	if len(refs) == 0 {
		refs = []string{""}
	}

	for _, ref := range refs {
		doc, err := store.Get(ctx, key, ref)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Ledger %s not found on ref %q, trying next", key, ref)
				continue
			}
			return nil, "", fmt.Errorf("fetch %s: %w", key, err)
		}

		ledger, err := domain.DecodeLedger(doc.Bytes)
		if err != nil {
			return nil, "", fmt.Errorf("ledger %s: %w", key, err)
		}
		return ledger, doc.Version, nil
	}

	return nil, "", fmt.Errorf("%w: %s", domain.ErrBatchNotFound, key)
}
