package driven

// InboxScanner enumerates the on-disk inventory that reconciliation
// treats as ground truth.
type InboxScanner interface {
	// BatchIDs returns the candidate batch identifiers, one per
	// subdirectory of the inbox root. A missing root is not an error.
	BatchIDs() ([]string, error)

	// Images returns the image file names in a batch's inbox directory,
	// filtered to the allow-listed extensions, in sorted order.
	Images(batchID string) ([]string, error)
}
