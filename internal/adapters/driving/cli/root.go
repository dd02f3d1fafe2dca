// Package cli wires the cobra command tree over the core services.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/stockpile-labs/stockpile-cli/internal/adapters/driven/config/file"
	"github.com/stockpile-labs/stockpile-cli/internal/adapters/driven/inbox"
	"github.com/stockpile-labs/stockpile-cli/internal/adapters/driven/notify/slack"
	ghstore "github.com/stockpile-labs/stockpile-cli/internal/adapters/driven/store/github"
	"github.com/stockpile-labs/stockpile-cli/internal/adapters/driven/store/memory"
	summaryfile "github.com/stockpile-labs/stockpile-cli/internal/adapters/driven/summary/file"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driving"
	"github.com/stockpile-labs/stockpile-cli/internal/core/services"
	"github.com/stockpile-labs/stockpile-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile     string
	verboseFlag bool
)

// Service graph, built once by ensureServices. Tests may inject
// replacements directly.
var (
	appConfig        *configfile.Config
	inventoryService driving.Inventory
	reconcileService driving.Reconciler
	inboxScanner     *inbox.Scanner
)

var rootCmd = &cobra.Command{
	Use:   "stockpile",
	Short: "Track consumable image batches against a content-store ledger",
	Long: `Stockpile tracks image inventory grouped into batches. The
authoritative ledger for each batch is a versioned JSON document in a
GitHub repository; stockpile reads and updates it with optimistic
concurrency and reconciles it against a local inbox directory.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ~/.stockpile/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging")
}

// ensureServices builds the service graph on first use, so commands
// like version and help never require configuration.
func ensureServices(ctx context.Context) error {
	logger.SetVerbose(verboseFlag)

	if inventoryService != nil && reconcileService != nil {
		return nil
	}

	path := cfgFile
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
	}
	cfg, err := configfile.Load(path)
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	scanner := inbox.NewScanner(cfg.Inbox.Root)
	summaries := summaryfile.NewStore(cfg.Inbox.SummaryPath)

	var notifier driven.Notifier
	if cfg.Slack.WebhookURL != "" {
		notifier = slack.NewWebhookNotifier(cfg.Slack.WebhookURL, cfg.Store.RepoSlug())
	}

	appConfig = cfg
	inboxScanner = scanner
	inventoryService = services.NewInventoryService(store, services.InventoryConfig{
		KeyPrefix:       cfg.Store.KeyPrefix,
		Refs:            cfg.Store.Refs,
		ConflictRetries: cfg.Store.ConflictRetries,
	})
	reconcileService = services.NewReconcileService(store, scanner, summaries, notifier,
		services.ReconcileConfig{
			KeyPrefix:  cfg.Store.KeyPrefix,
			Refs:       cfg.Store.Refs,
			PathPrefix: cfg.Inbox.PathPrefix,
		})
	return nil
}

// buildStore selects the content store backend from configuration.
func buildStore(ctx context.Context, cfg *configfile.Config) (driven.ContentStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewContentStore(), nil
	case "github":
		if cfg.Store.Token == "" {
			return nil, errors.New("github token not configured (set GITHUB_TOKEN or store.token)")
		}
		if cfg.Store.Owner == "" || cfg.Store.Repo == "" {
			return nil, errors.New("store.owner and store.repo must be configured")
		}
		client := ghstore.NewClient(ctx, cfg.Store.Token)
		return ghstore.NewContentStore(client, cfg.Store.Owner, cfg.Store.Repo), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
