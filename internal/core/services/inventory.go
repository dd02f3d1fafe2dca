package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driving"
	"github.com/stockpile-labs/stockpile-cli/internal/logger"
)

// Ensure InventoryService implements the interface.
var _ driving.Inventory = (*InventoryService)(nil)

// DefaultConflictRetries bounds how many times MarkUsed re-runs the
// read-modify-write sequence after a version conflict. One retry keeps
// worst-case latency low; real contention surfaces domain.ErrConflict
// for the caller to re-issue.
const DefaultConflictRetries = 1

// InventoryConfig tunes the ledger repository.
type InventoryConfig struct {
	// KeyPrefix locates ledger documents in the store. Default "batches".
	KeyPrefix string

	// Refs is the ordered list of reference candidates probed on fetch.
	// The empty string means the store's default reference. Defaults to
	// the default reference only; legacy fallbacks are an explicit opt-in.
	Refs []string

	// ConflictRetries overrides DefaultConflictRetries when positive.
	ConflictRetries int
}

// InventoryService is the ledger repository: a linearizable-per-batch
// view of "fetch current ledger" and "apply one item transition" on top
// of a store that offers only single-document optimistic concurrency.
type InventoryService struct {
	store      driven.ContentStore
	keyPrefix  string
	refs       []string
	maxRetries int
	now        func() time.Time
}

// NewInventoryService creates an inventory service over a content store.
func NewInventoryService(store driven.ContentStore, cfg InventoryConfig) *InventoryService {
	refs := cfg.Refs
	if len(refs) == 0 {
		refs = []string{""}
	}
	retries := cfg.ConflictRetries
	if retries <= 0 {
		retries = DefaultConflictRetries
	}
	return &InventoryService{
		store:      store,
		keyPrefix:  cfg.KeyPrefix,
		refs:       refs,
		maxRetries: retries,
		now:        time.Now,
	}
}

// FetchStatus returns the current counts and stock level for a batch.
// No side effects.
func (s *InventoryService) FetchStatus(ctx context.Context, batchID string) (*domain.BatchStatus, error) {
	if err := domain.ValidateID(batchID); err != nil {
		return nil, err
	}

	ledger, _, err := loadLedger(ctx, s.store, ledgerKey(s.keyPrefix, batchID), s.refs)
	if err != nil {
		return nil, err
	}

	total, used := ledger.Counts()
	remaining := total - used
	return &domain.BatchStatus{
		BatchID:   batchID,
		Total:     total,
		Used:      used,
		Remaining: remaining,
		Level:     domain.LevelFor(total, remaining),
		Items:     ledger.Items,
	}, nil
}

// MarkUsed transitions one item from new to used via a bounded
// read-modify-write loop. Each attempt re-fetches the ledger, so the
// already-used check always runs against the freshly observed state;
// two concurrent callers for the same item can never both succeed.
func (s *InventoryService) MarkUsed(
	ctx context.Context, batchID, imageID, link, actor string,
) (*domain.UseResult, error) {
	if err := domain.ValidateID(batchID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID(imageID); err != nil {
		return nil, err
	}
	if actor == "" {
		return nil, fmt.Errorf("%w: actor identity required", domain.ErrInvalidID)
	}
	if link == "" {
		link = domain.UsedInNone
	}

	key := ledgerKey(s.keyPrefix, batchID)

	for attempt := 0; ; attempt++ {
		ledger, version, err := loadLedger(ctx, s.store, key, s.refs)
		if err != nil {
			return nil, err
		}

		item := ledger.Find(imageID)
		if item == nil {
			return nil, fmt.Errorf("%w: %s in batch %s", domain.ErrItemNotFound, imageID, batchID)
		}
		if item.Status == domain.StatusUsed {
			return nil, fmt.Errorf("%w: %s in batch %s", domain.ErrAlreadyUsed, imageID, batchID)
		}

		usedAt := s.now().UTC()
		item.Status = domain.StatusUsed
		item.UsedAt = &usedAt
		item.UsedIn = link
		item.UsedBy = actor

		data, err := domain.EncodeLedger(ledger)
		if err != nil {
			return nil, err
		}

		message := fmt.Sprintf("Mark %s used in %s", imageID, batchID)
		err = s.store.PutIfMatch(ctx, key, data, version, message)
		if err == nil {
			total, used := ledger.Counts()
			remaining := total - used
			return &domain.UseResult{
				Total:     total,
				Used:      used,
				Remaining: remaining,
				Level:     domain.LevelFor(total, remaining),
			}, nil
		}

		if isAmbiguousCommit(err) {
			// The write may or may not have committed. Retrying blindly
			// risks double-applying the transition.
			return nil, fmt.Errorf("%w: put %s: %v", domain.ErrAmbiguousCommit, key, err)
		}
		if !errors.Is(err, domain.ErrVersionMismatch) {
			return nil, fmt.Errorf("put %s: %w", key, err)
		}
		if attempt >= s.maxRetries {
			return nil, fmt.Errorf("%w: %s/%s after %d attempts",
				domain.ErrConflict, batchID, imageID, attempt+1)
		}

		logger.Debug("Version conflict on %s (attempt %d), re-fetching", key, attempt+1)
	}
}

// isAmbiguousCommit reports whether a put failure leaves the commit
// state unknown: the request may have reached the store even though no
// confirmation came back.
func isAmbiguousCommit(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
