package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "github"
owner = "acme"
repo = "marketing-images"
token = "file-token"
key_prefix = "ledgers"
refs = ["main", "", "master"]
conflict_retries = 3

[inbox]
root = "assets/incoming"

[slack]
signing_secret = "shhh"
webhook_url = "https://hooks.slack.com/services/T/B/x"

[serve]
addr = ":8080"
reconcile_interval = "5m"
watch_inbox = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Store.Owner)
	assert.Equal(t, "acme/marketing-images", cfg.Store.RepoSlug())
	assert.Equal(t, "file-token", cfg.Store.Token)
	assert.Equal(t, "ledgers", cfg.Store.KeyPrefix)
	assert.Equal(t, []string{"main", "", "master"}, cfg.Store.Refs)
	assert.Equal(t, 3, cfg.Store.ConflictRetries)

	assert.Equal(t, "assets/incoming", cfg.Inbox.Root)
	// Unset inbox fields still receive defaults.
	assert.Equal(t, "images/inbox", cfg.Inbox.PathPrefix)
	assert.Equal(t, ".ingestion-summary.json", cfg.Inbox.SummaryPath)

	assert.Equal(t, "shhh", cfg.Slack.SigningSecret)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.True(t, cfg.Serve.WatchInbox)

	interval, err := cfg.Serve.Interval()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, interval)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "github", cfg.Store.Backend)
	assert.Equal(t, "batches", cfg.Store.KeyPrefix)
	assert.Equal(t, []string{""}, cfg.Store.Refs)
	assert.Equal(t, "images/inbox", cfg.Inbox.Root)
	assert.Equal(t, ":3000", cfg.Serve.Addr)

	interval, err := cfg.Serve.Interval()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, interval)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
[store]
token = "file-token"

[slack]
signing_secret = "file-secret"
webhook_url = "https://file.example"
`)
	t.Setenv(EnvGitHubToken, "env-token")
	t.Setenv(EnvSlackSigningSecret, "env-secret")
	t.Setenv(EnvSlackWebhookURL, "https://env.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Store.Token)
	assert.Equal(t, "env-secret", cfg.Slack.SigningSecret)
	assert.Equal(t, "https://env.example", cfg.Slack.WebhookURL)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `store = not toml`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadInterval(t *testing.T) {
	path := writeConfig(t, `
[serve]
reconcile_interval = "whenever"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile_interval")
}

func TestStoreConfig_RepoSlug(t *testing.T) {
	assert.Empty(t, StoreConfig{Owner: "acme"}.RepoSlug())
	assert.Empty(t, StoreConfig{Repo: "marketing-images"}.RepoSlug())
}
