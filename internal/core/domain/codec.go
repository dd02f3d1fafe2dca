package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeLedger serializes a ledger to its persisted representation.
// Two-space indentation keeps commits to the content store diffable.
func EncodeLedger(l *Ledger) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ledger %s: %w", l.BatchID, err)
	}
	return append(data, '\n'), nil
}

// DecodeLedger parses a persisted ledger document.
func DecodeLedger(data []byte) (*Ledger, error) {
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	if l.ContextTags == nil {
		l.ContextTags = []string{}
	}
	if l.Items == nil {
		l.Items = []Item{}
	}
	return &l, nil
}
