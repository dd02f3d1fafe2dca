// Package services implements the driving port interfaces.
// Services contain the core business logic: the ledger repository's
// optimistic read-modify-write protocol and the reconciliation engine's
// diff-and-merge against the inbox filesystem.
package services
