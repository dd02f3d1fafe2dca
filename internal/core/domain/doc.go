// Package domain defines the core business entities for Stockpile.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Ledger: The authoritative per-batch inventory document
//   - Item: One inventory unit (image) tracked within a ledger
//   - Delta / Summary: What a reconciliation run changed
//   - StockLevel: Derived classification of remaining inventory
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
