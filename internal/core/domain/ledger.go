package domain

import "time"

// ItemStatus is the lifecycle state of a ledger item.
// The only transition is new -> used; there is no way back.
type ItemStatus string

const (
	// StatusNew marks an item that has been ingested but not yet consumed.
	StatusNew ItemStatus = "new"

	// StatusUsed marks an item that has been consumed.
	StatusUsed ItemStatus = "used"
)

// UsedInNone is the sentinel recorded when no usage link was provided.
const UsedInNone = "N/A"

// Item is one inventory unit (an image file) tracked within a ledger.
type Item struct {
	// ImageID is the filename, unique within its batch.
	ImageID string `json:"image_id"`

	// FilePath is the canonical location of the backing file,
	// relative to the content store repository root.
	FilePath string `json:"file_path"`

	// Status is the current lifecycle state.
	Status ItemStatus `json:"status"`

	// AddedAt is set once when the item is first ingested.
	AddedAt time.Time `json:"added_at"`

	// UsedAt is set on the transition to used.
	UsedAt *time.Time `json:"used_at,omitempty"`

	// UsedIn is a free-text reference to where the item was consumed.
	UsedIn string `json:"used_in,omitempty"`

	// UsedBy identifies the actor that consumed the item.
	UsedBy string `json:"used_by,omitempty"`
}

// Ledger is the authoritative inventory document for one batch.
// It is persisted as a single versioned document in the content store;
// every write replaces the whole document.
type Ledger struct {
	BatchID     string    `json:"batch_id"`
	CreatedAt   time.Time `json:"created_at"`
	ContextTags []string  `json:"context_tags"`
	Items       []Item    `json:"items"`
}

// NewLedger creates an empty ledger for a batch.
func NewLedger(batchID string, createdAt time.Time) *Ledger {
	return &Ledger{
		BatchID:     batchID,
		CreatedAt:   createdAt,
		ContextTags: []string{},
		Items:       []Item{},
	}
}

// Find returns a pointer to the item with the given image ID, or nil.
// The pointer aliases the ledger's Items slice so callers can mutate in place.
func (l *Ledger) Find(imageID string) *Item {
	for i := range l.Items {
		if l.Items[i].ImageID == imageID {
			return &l.Items[i]
		}
	}
	return nil
}

// Counts returns the total number of items and how many are used.
func (l *Ledger) Counts() (total, used int) {
	total = len(l.Items)
	for i := range l.Items {
		if l.Items[i].Status == StatusUsed {
			used++
		}
	}
	return total, used
}

// StockLevel classifies how much unused inventory a batch has left.
type StockLevel string

const (
	LevelEmpty   StockLevel = "empty"
	LevelLow     StockLevel = "low"
	LevelHealthy StockLevel = "healthy"
)

// LevelFor derives the stock level from item counts.
// A batch is empty when nothing remains, and low when the remaining
// share is at most one fifth of the total.
func LevelFor(total, remaining int) StockLevel {
	switch {
	case remaining <= 0:
		return LevelEmpty
	case remaining*5 <= total:
		return LevelLow
	default:
		return LevelHealthy
	}
}

// BatchStatus is the read-only inventory view returned to callers.
type BatchStatus struct {
	BatchID   string
	Total     int
	Used      int
	Remaining int
	Level     StockLevel
	Items     []Item
}

// UseResult reports the batch counts after a successful mark-used.
type UseResult struct {
	Total     int
	Used      int
	Remaining int
	Level     StockLevel
}
