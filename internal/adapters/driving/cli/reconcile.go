package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [batch-id]",
	Short: "Sync batch ledgers against the inbox directory",
	Long: `Reconciles ledger documents with the image files actually present
under the inbox root. New files are appended with status new; items
whose backing file vanished are removed. With a batch ID, only that
batch is reconciled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	if len(args) == 1 {
		delta, err := reconcileService.ReconcileBatch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printDelta(cmd, delta.BatchID, delta.NewCount, delta.Total, delta.NewImages, delta.Removed)
		return nil
	}

	result, err := reconcileService.Run(cmd.Context())
	if err != nil {
		return err
	}

	if len(result.Deltas) == 0 {
		cmd.Println("No batches found under the inbox root.")
	}
	for _, delta := range result.Deltas {
		printDelta(cmd, delta.BatchID, delta.NewCount, delta.Total, delta.NewImages, delta.Removed)
	}
	for id, ferr := range result.Failures {
		cmd.PrintErrf("Batch %s failed: %v\n", id, ferr)
	}
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d batch(es) failed to reconcile", len(result.Failures))
	}
	return nil
}

func printDelta(cmd *cobra.Command, batchID string, newCount, total int, newImages, removed []string) {
	switch {
	case newCount == 0 && len(removed) == 0:
		cmd.Printf("Batch %s: no changes (%d total)\n", batchID, total)
	default:
		cmd.Printf("Batch %s: +%d -%d (%d total)\n", batchID, newCount, len(removed), total)
		if len(newImages) > 0 {
			cmd.Printf("  new: %s\n", strings.Join(newImages, ", "))
		}
		if len(removed) > 0 {
			cmd.Printf("  removed: %s\n", strings.Join(removed, ", "))
		}
	}
}
