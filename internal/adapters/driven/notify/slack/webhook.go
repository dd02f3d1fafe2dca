// Package slack implements the Notifier port against a Slack incoming
// webhook. One reconciliation summary becomes one message.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
)

// DefaultTimeout bounds a webhook post.
const DefaultTimeout = 10 * time.Second

// Ensure WebhookNotifier implements the interface.
var _ driven.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts reconciliation summaries to an incoming webhook.
type WebhookNotifier struct {
	url        string
	repoSlug   string // "owner/name" for inbox links, may be empty
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier for one webhook URL. repoSlug,
// when set, is used to render a link to the inbox on GitHub.
func NewWebhookNotifier(url, repoSlug string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		repoSlug:   repoSlug,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Notify renders the summary and posts it. Non-2xx responses are errors.
func (n *WebhookNotifier) Notify(ctx context.Context, summary *domain.Summary) error {
	payload, err := json.Marshal(map[string]string{
		"text": RenderSummary(summary, n.repoSlug),
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// RenderSummary formats a reconciliation summary as Slack message text.
func RenderSummary(summary *domain.Summary, repoSlug string) string {
	if len(summary.Batches) == 0 {
		return "📁 Ledgers updated (no new images in this run)."
	}

	var b strings.Builder
	b.WriteString("🖼 *New images ingested*\n")
	for _, batch := range summary.Batches {
		fmt.Fprintf(&b, "\n• *%s*: %d new image(s) (%d total)\n", batch.BatchID, batch.NewCount, batch.Total)
		fmt.Fprintf(&b, "  %s\n", strings.Join(batch.NewImages, ", "))
		if len(batch.Removed) > 0 {
			fmt.Fprintf(&b, "  ⚠️ removed from ledger: %s\n", strings.Join(batch.Removed, ", "))
		}
	}
	if repoSlug != "" {
		fmt.Fprintf(&b, "\n<https://github.com/%s/tree/main/images/inbox|View inbox on GitHub>", repoSlug)
	}
	return b.String()
}
