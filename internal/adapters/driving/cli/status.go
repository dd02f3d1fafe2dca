package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <batch-id>",
	Short: "Show inventory counts and stock level for a batch",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	st, err := inventoryService.FetchStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Batch %s: %d total | %d used | %d remaining | stock %s\n",
		st.BatchID, st.Total, st.Used, st.Remaining, st.Level)
	for _, item := range st.Items {
		cmd.Printf("  %-40s %s\n", item.ImageID, item.Status)
	}
	if st.Remaining == 0 {
		cmd.Println("Warning: this batch is empty.")
	}
	return nil
}
