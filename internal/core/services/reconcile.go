package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driving"
	"github.com/stockpile-labs/stockpile-cli/internal/logger"
)

// Ensure ReconcileService implements the interface.
var _ driving.Reconciler = (*ReconcileService)(nil)

// DefaultPathPrefix is the repository-relative location recorded in each
// item's file_path.
const DefaultPathPrefix = "images/inbox"

// ReconcileConfig tunes the reconciliation engine.
type ReconcileConfig struct {
	// KeyPrefix locates ledger documents in the store. Default "batches".
	KeyPrefix string

	// Refs is the ordered reference probe list, as for the inventory side.
	Refs []string

	// PathPrefix is prepended to "<batchID>/<image>" when recording an
	// item's file path. Default "images/inbox".
	PathPrefix string
}

// ReconcileService brings each batch's ledger into agreement with the
// files present in its inbox directory. It assumes it is never run
// concurrently with itself for the same batch: its writes do not go
// through the optimistic retry path.
type ReconcileService struct {
	store     driven.ContentStore
	inbox     driven.InboxScanner
	summaries driven.SummaryStore // optional
	notifier  driven.Notifier     // optional

	keyPrefix  string
	refs       []string
	pathPrefix string

	now      func() time.Time
	newRunID func() string
}

// NewReconcileService creates a reconciliation engine. summaries and
// notifier may be nil; the corresponding steps are skipped.
func NewReconcileService(
	store driven.ContentStore,
	inbox driven.InboxScanner,
	summaries driven.SummaryStore,
	notifier driven.Notifier,
	cfg ReconcileConfig,
) *ReconcileService {
	pathPrefix := cfg.PathPrefix
	if pathPrefix == "" {
		pathPrefix = DefaultPathPrefix
	}
	return &ReconcileService{
		store:      store,
		inbox:      inbox,
		summaries:  summaries,
		notifier:   notifier,
		keyPrefix:  cfg.KeyPrefix,
		refs:       cfg.Refs,
		pathPrefix: pathPrefix,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// ListBatchIDs returns the candidate batches found under the inbox root.
func (s *ReconcileService) ListBatchIDs() ([]string, error) {
	return s.inbox.BatchIDs()
}

// ReconcileBatch syncs one batch's ledger against its inbox directory.
//
// The filesystem is ground truth for existence: items whose backing file
// vanished are dropped regardless of status, then new files are appended
// with status new. Items whose file is still present are never touched,
// so the pass is idempotent.
func (s *ReconcileService) ReconcileBatch(ctx context.Context, batchID string) (*domain.Delta, error) {
	if err := domain.ValidateID(batchID); err != nil {
		return nil, err
	}

	images, err := s.inbox.Images(batchID)
	if err != nil {
		return nil, fmt.Errorf("scan inbox %s: %w", batchID, err)
	}

	key := ledgerKey(s.keyPrefix, batchID)
	ledger, version, err := loadLedger(ctx, s.store, key, s.refs)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrBatchNotFound):
		if len(images) == 0 {
			// Nothing on disk and no ledger: leave the batch implicit.
			return &domain.Delta{BatchID: batchID, NewImages: []string{}}, nil
		}
		ledger = domain.NewLedger(batchID, s.now().UTC())
		created = true
	default:
		return nil, err
	}

	onDisk := make(map[string]bool, len(images))
	for _, img := range images {
		onDisk[img] = true
	}

	// Orphan removal first, so a re-added file lands as a fresh item.
	removed := []string{}
	kept := make([]domain.Item, 0, len(ledger.Items))
	for _, item := range ledger.Items {
		if !onDisk[item.ImageID] {
			removed = append(removed, item.ImageID)
			if item.Status == domain.StatusUsed {
				logger.Warn("Batch %s: dropping used item %s (file gone); usage history by %s at %s is lost",
					batchID, item.ImageID, item.UsedBy, item.UsedIn)
			}
			continue
		}
		kept = append(kept, item)
	}
	ledger.Items = kept

	known := make(map[string]bool, len(kept))
	for i := range kept {
		known[kept[i].ImageID] = true
	}

	added := []string{}
	addedAt := s.now().UTC()
	for _, img := range images {
		if known[img] {
			continue
		}
		ledger.Items = append(ledger.Items, domain.Item{
			ImageID:  img,
			FilePath: path.Join(s.pathPrefix, batchID, img),
			Status:   domain.StatusNew,
			AddedAt:  addedAt,
		})
		added = append(added, img)
	}

	if created || len(removed) > 0 || len(added) > 0 {
		data, err := domain.EncodeLedger(ledger)
		if err != nil {
			return nil, err
		}
		message := fmt.Sprintf("Reconcile %s: +%d -%d", batchID, len(added), len(removed))
		if created {
			err = s.store.Create(ctx, key, data, message)
		} else {
			err = s.store.PutIfMatch(ctx, key, data, version, message)
		}
		if err != nil {
			return nil, fmt.Errorf("write ledger %s: %w", batchID, err)
		}
	}

	return &domain.Delta{
		BatchID:   batchID,
		NewCount:  len(added),
		Total:     len(ledger.Items),
		NewImages: added,
		Removed:   removed,
	}, nil
}

// Run reconciles every batch under the inbox root. A failing batch is
// recorded and skipped; it never aborts the rest of the run. The summary
// lists only batches that gained new items, matching the notification
// use case.
func (s *ReconcileService) Run(ctx context.Context) (*driving.RunResult, error) {
	ids, err := s.inbox.BatchIDs()
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	result := &driving.RunResult{
		Summary: domain.Summary{
			RunID:       s.newRunID(),
			GeneratedAt: s.now().UTC(),
			Batches:     []domain.Delta{},
		},
		Failures: make(map[string]error),
	}

	for _, id := range ids {
		delta, err := s.ReconcileBatch(ctx, id)
		if err != nil {
			logger.Warn("Reconcile %s failed: %v", id, err)
			result.Failures[id] = err
			continue
		}
		result.Deltas = append(result.Deltas, *delta)
		if delta.NewCount > 0 {
			result.Summary.Batches = append(result.Summary.Batches, *delta)
		}
		if delta.Changed() {
			logger.Info("Batch %s: %d new, %d removed, %d total",
				id, delta.NewCount, len(delta.Removed), delta.Total)
		} else {
			logger.Debug("Batch %s: no changes", id)
		}
	}

	if s.summaries != nil {
		if err := s.summaries.Save(&result.Summary); err != nil {
			logger.Warn("Save summary: %v", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, &result.Summary); err != nil {
			logger.Warn("Notify: %v", err)
		}
	}

	return result, nil
}
