package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stockpile-labs/stockpile-cli/internal/adapters/driving/httpapi"
	"github.com/stockpile-labs/stockpile-cli/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server and periodic reconciliation",
	Long: `Runs the long-lived mode: hosts the Slack slash-command webhook,
reconciles all batches on a fixed interval, and (when enabled) watches
the inbox directory to schedule an extra reconciliation on change.
Reconciliation runs are funneled through a single worker so two runs
never overlap.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ensureServices(ctx); err != nil {
		return err
	}

	interval, err := appConfig.Serve.Interval()
	if err != nil {
		return err
	}

	// Single worker: runs are scheduled through a 1-slot channel, so a
	// burst of triggers coalesces and reconciliation never overlaps
	// itself. Its writes bypass the optimistic retry path, which makes
	// this serialization load-bearing.
	runCh := make(chan struct{}, 1)
	schedule := func() {
		select {
		case runCh <- struct{}{}:
		default:
		}
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-runCh:
				if _, err := reconcileService.Run(ctx); err != nil {
					logger.Warn("Reconciliation run failed: %v", err)
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				schedule()
			}
		}
	}()

	if appConfig.Serve.WatchInbox {
		watcher, err := newInboxWatcher(inboxScanner.Root())
		if err != nil {
			return err
		}
		defer watcher.Close()
		go watchInbox(ctx, watcher, schedule)
	}

	server := &http.Server{
		Addr: appConfig.Serve.Addr,
		Handler: httpapi.NewServer(inventoryService, httpapi.ServerConfig{
			SigningSecret: appConfig.Slack.SigningSecret,
			RepoSlug:      appConfig.Store.RepoSlug(),
			Ref:           firstRef(appConfig.Store.Refs),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("Listening on %s, reconciling every %s", appConfig.Serve.Addr, interval)

	// One run at startup so a restart picks up anything missed.
	schedule()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// newInboxWatcher watches the inbox root and every existing batch
// subdirectory.
func newInboxWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				// Best effort; a vanished directory is picked up by the
				// next periodic run anyway.
				_ = watcher.Add(filepath.Join(root, e.Name()))
			}
		}
	}
	return watcher, nil
}

// watchInbox schedules a reconciliation for relevant filesystem events
// and starts watching batch directories as they appear.
func watchInbox(ctx context.Context, watcher *fsnotify.Watcher, schedule func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				logger.Debug("Inbox change: %s %s", event.Op, event.Name)
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Inbox watcher: %v", err)
		}
	}
}

func firstRef(refs []string) string {
	for _, ref := range refs {
		if ref != "" {
			return ref
		}
	}
	return "main"
}
