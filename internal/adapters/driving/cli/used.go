package cli

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"
)

var usedActor string

var usedCmd = &cobra.Command{
	Use:   "used <batch-id> <image-id> [link]",
	Short: "Mark an image as used",
	Long: `Marks one image in a batch as used, recording when, by whom and
an optional link to where it was consumed. The transition is
one-directional; marking an already-used image fails.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runUsed,
}

func init() {
	usedCmd.Flags().StringVar(&usedActor, "actor", "",
		"actor identity recorded on the item (default: current OS user)")
	rootCmd.AddCommand(usedCmd)
}

func runUsed(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	link := ""
	if len(args) > 2 {
		link = args[2]
	}

	actor := usedActor
	if actor == "" {
		actor = currentUser()
	}

	res, err := inventoryService.MarkUsed(cmd.Context(), args[0], args[1], link, actor)
	if err != nil {
		return err
	}

	cmd.Printf("Marked %s as used. Remaining in %s: %d of %d (stock %s)\n",
		args[1], args[0], res.Remaining, res.Total, res.Level)
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "cli"
}
