package domain

import "time"

// Delta records what one reconciliation pass changed for a batch.
type Delta struct {
	BatchID   string   `json:"batch_id"`
	NewCount  int      `json:"new_count"`
	Total     int      `json:"total"`
	NewImages []string `json:"new_images"`

	// Removed lists items dropped because their backing file vanished.
	// Dropping a used item discards its usage history, so removals are
	// surfaced here rather than disappearing silently.
	Removed []string `json:"removed,omitempty"`
}

// Changed reports whether the pass mutated the ledger.
func (d *Delta) Changed() bool {
	return d.NewCount > 0 || len(d.Removed) > 0
}

// Summary is the transient per-run record handed to the notification
// channel. It is not an authoritative store; only batches that gained
// new items appear in Batches.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Batches     []Delta   `json:"batches"`
}
