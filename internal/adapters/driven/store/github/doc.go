// Package github implements the ContentStore port over the GitHub
// contents API. One ledger document maps to one file in a repository;
// the file's blob SHA is the opaque version token, and the API's
// conditional update-by-SHA provides the optimistic-concurrency
// precondition the core relies on.
package github
