// Package file loads the process-wide configuration from a TOML file.
// The configuration is an explicit object built once at startup and
// passed to the components that need it; secrets may be supplied or
// overridden through the environment.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values. Secrets belong in
// the environment, not in a config file checked into a dotfiles repo.
const (
	EnvGitHubToken        = "GITHUB_TOKEN"
	EnvSlackSigningSecret = "SLACK_SIGNING_SECRET"
	EnvSlackWebhookURL    = "SLACK_WEBHOOK_URL"
)

// Config is the process-wide configuration.
type Config struct {
	Store StoreConfig `toml:"store"`
	Inbox InboxConfig `toml:"inbox"`
	Slack SlackConfig `toml:"slack"`
	Serve ServeConfig `toml:"serve"`
}

// StoreConfig selects and parameterizes the content store backend.
type StoreConfig struct {
	// Backend is "github" or "memory". Default "github".
	Backend string `toml:"backend"`

	// Owner and Repo locate the ledger repository for the github backend.
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`

	// Token authenticates against the GitHub API. GITHUB_TOKEN overrides.
	Token string `toml:"token"`

	// KeyPrefix locates ledger documents. Default "batches".
	KeyPrefix string `toml:"key_prefix"`

	// Refs is the ordered reference probe list; the empty string means
	// the default branch. Legacy fallbacks are opt-in, for example
	// refs = ["main", "", "master"].
	Refs []string `toml:"refs"`

	// ConflictRetries bounds mark-used retries after a version conflict.
	ConflictRetries int `toml:"conflict_retries"`
}

// InboxConfig locates the on-disk inventory.
type InboxConfig struct {
	// Root is the inbox directory holding one subdirectory per batch.
	// Default "images/inbox".
	Root string `toml:"root"`

	// PathPrefix is the repository-relative prefix recorded in item
	// file paths. Default "images/inbox".
	PathPrefix string `toml:"path_prefix"`

	// SummaryPath is where the reconciliation summary JSON is written.
	// Default ".ingestion-summary.json".
	SummaryPath string `toml:"summary_path"`
}

// SlackConfig holds the webhook-layer secrets and the outbound channel.
type SlackConfig struct {
	// SigningSecret verifies slash-command requests.
	// SLACK_SIGNING_SECRET overrides.
	SigningSecret string `toml:"signing_secret"`

	// WebhookURL is the incoming webhook for ingestion notifications.
	// Empty disables notification. SLACK_WEBHOOK_URL overrides.
	WebhookURL string `toml:"webhook_url"`
}

// ServeConfig parameterizes serve mode.
type ServeConfig struct {
	// Addr is the HTTP listen address. Default ":3000".
	Addr string `toml:"addr"`

	// ReconcileInterval is the periodic reconciliation cadence as a
	// Go duration string. Default "10m".
	ReconcileInterval string `toml:"reconcile_interval"`

	// WatchInbox enables the filesystem watcher that schedules an
	// extra reconciliation when inbox contents change.
	WatchInbox bool `toml:"watch_inbox"`
}

// DefaultPath returns the default config file location,
// ~/.stockpile/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stockpile", "config.toml"), nil
}

// Load reads the config file at path, applies environment overrides and
// fills defaults. A missing file is not an error; the defaults plus
// environment must then carry the whole configuration.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if _, err := cfg.Serve.Interval(); err != nil {
		return nil, fmt.Errorf("serve.reconcile_interval: %w", err)
	}
	return &cfg, nil
}

// Interval parses the reconciliation cadence.
func (s ServeConfig) Interval() (time.Duration, error) {
	return time.ParseDuration(s.ReconcileInterval)
}

// RepoSlug returns "owner/repo" when both are set, else "".
func (s StoreConfig) RepoSlug() string {
	if s.Owner == "" || s.Repo == "" {
		return ""
	}
	return s.Owner + "/" + s.Repo
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvGitHubToken); v != "" {
		cfg.Store.Token = v
	}
	if v := os.Getenv(EnvSlackSigningSecret); v != "" {
		cfg.Slack.SigningSecret = v
	}
	if v := os.Getenv(EnvSlackWebhookURL); v != "" {
		cfg.Slack.WebhookURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "github"
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = "batches"
	}
	if len(cfg.Store.Refs) == 0 {
		cfg.Store.Refs = []string{""}
	}
	if cfg.Inbox.Root == "" {
		cfg.Inbox.Root = "images/inbox"
	}
	if cfg.Inbox.PathPrefix == "" {
		cfg.Inbox.PathPrefix = "images/inbox"
	}
	if cfg.Inbox.SummaryPath == "" {
		cfg.Inbox.SummaryPath = ".ingestion-summary.json"
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":3000"
	}
	if cfg.Serve.ReconcileInterval == "" {
		cfg.Serve.ReconcileInterval = "10m"
	}
}
