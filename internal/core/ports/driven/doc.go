// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContentStore: Versioned ledger document persistence
//   - InboxScanner: Enumerates batches and image files on disk
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SummaryStore: Persists the transient reconciliation summary
//   - Notifier: Pushes reconciliation summaries to an outbound channel
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
