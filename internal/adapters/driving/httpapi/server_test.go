package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

type stubInventory struct {
	status    *domain.BatchStatus
	statusErr error

	useResult *domain.UseResult
	useErr    error

	gotBatch, gotImage, gotLink, gotActor string
}

func (s *stubInventory) FetchStatus(_ context.Context, batchID string) (*domain.BatchStatus, error) {
	s.gotBatch = batchID
	return s.status, s.statusErr
}

func (s *stubInventory) MarkUsed(_ context.Context, batchID, imageID, link, actor string) (*domain.UseResult, error) {
	s.gotBatch, s.gotImage, s.gotLink, s.gotActor = batchID, imageID, link, actor
	return s.useResult, s.useErr
}

func newTestServer(inv *stubInventory, secret string) (*Server, time.Time) {
	now := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	srv := NewServer(inv, ServerConfig{SigningSecret: secret})
	srv.now = func() time.Time { return now }
	return srv, now
}

// signedCommand builds a slash-command request carrying a valid v0
// signature for the given form values.
func signedCommand(form url.Values, secret string, at time.Time) *http.Request {
	body := form.Encode()
	ts := strconv.FormatInt(at.Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(headerTimestamp, ts)
	req.Header.Set(headerSignature, signSlackRequest(secret, ts, []byte(body)))
	return req
}

func replyText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ephemeral", payload["response_type"])
	return payload["text"]
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{}, testSecret)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServer_UnknownPath(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{}, testSecret)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RejectsMissingSignature(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{}, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader("text=status+promo1"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RejectsBadSignature(t *testing.T) {
	srv, now := newTestServer(&stubInventory{}, testSecret)

	req := signedCommand(url.Values{"text": {"status promo1"}}, "wrong-secret", now)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RejectsStaleTimestamp(t *testing.T) {
	srv, now := newTestServer(&stubInventory{}, testSecret)

	req := signedCommand(url.Values{"text": {"status promo1"}}, testSecret, now.Add(-10*time.Minute))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RejectsOversizedBody(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{}, testSecret)

	big := strings.Repeat("a", (64<<10)+1)
	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(big))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_StatusCommand(t *testing.T) {
	inv := &stubInventory{status: &domain.BatchStatus{
		BatchID:   "promo1",
		Total:     2,
		Used:      1,
		Remaining: 1,
		Level:     domain.LevelHealthy,
		Items: []domain.Item{
			{ImageID: "a.png", FilePath: "images/inbox/promo1/a.png", Status: domain.StatusUsed},
			{ImageID: "b.png", FilePath: "images/inbox/promo1/b.png", Status: domain.StatusNew},
		},
	}}
	srv, now := newTestServer(inv, testSecret)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, signedCommand(url.Values{
		"text":      {"status promo1"},
		"user_name": {"alice"},
	}, testSecret, now))

	text := replyText(t, rec)
	assert.Equal(t, "promo1", inv.gotBatch)
	assert.Contains(t, text, "Batch Status: promo1")
	assert.Contains(t, text, "Total: 2 | Used: 1 | Remaining: 1")
	assert.Contains(t, text, "b.png (new)")
}

func TestServer_UsedCommand(t *testing.T) {
	inv := &stubInventory{useResult: &domain.UseResult{
		Total: 2, Used: 2, Remaining: 0, Level: domain.LevelEmpty,
	}}
	srv, now := newTestServer(inv, testSecret)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, signedCommand(url.Values{
		"text":      {"used promo1 b.png https://example.com/post/9"},
		"user_name": {"alice"},
	}, testSecret, now))

	text := replyText(t, rec)
	assert.Equal(t, "promo1", inv.gotBatch)
	assert.Equal(t, "b.png", inv.gotImage)
	assert.Equal(t, "https://example.com/post/9", inv.gotLink)
	assert.Equal(t, "alice", inv.gotActor)
	assert.Contains(t, text, "Marked `b.png` as used")
	assert.Contains(t, text, "now empty")
}

func TestServer_UsedCommand_DefaultActor(t *testing.T) {
	inv := &stubInventory{useResult: &domain.UseResult{Total: 3, Used: 1, Remaining: 2, Level: domain.LevelHealthy}}
	srv, now := newTestServer(inv, testSecret)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, signedCommand(url.Values{"text": {"used promo1 b.png"}}, testSecret, now))

	replyText(t, rec)
	assert.Equal(t, "unknown", inv.gotActor)
	assert.Empty(t, inv.gotLink)
}

func TestServer_CoreErrorsAreEphemeralReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"batch not found", domain.ErrBatchNotFound, "not found"},
		{"already used", fmt.Errorf("%w: b.png", domain.ErrAlreadyUsed), "already marked as used"},
		{"conflict", domain.ErrConflict, "updated concurrently"},
		{"ambiguous", domain.ErrAmbiguousCommit, "may or may not have been saved"},
		{"invalid id", domain.ErrInvalidID, "Invalid batch or image identifier"},
		{"store failure", fmt.Errorf("boom"), "Ledger store error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &stubInventory{useErr: tt.err}
			srv, now := newTestServer(inv, testSecret)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, signedCommand(url.Values{"text": {"used promo1 b.png"}}, testSecret, now))

			// Core outcomes ride an HTTP 200 so Slack shows the text.
			assert.Contains(t, replyText(t, rec), tt.want)
		})
	}
}

func TestServer_UsageReplies(t *testing.T) {
	srv, now := newTestServer(&stubInventory{}, testSecret)

	for _, text := range []string{"", "status", "used promo1", "frobnicate x"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedCommand(url.Values{"text": {text}}, testSecret, now))
		assert.Contains(t, replyText(t, rec), "Usage:", "command text %q", text)
	}
}

func TestRenderStatus_LinksItems(t *testing.T) {
	st := &domain.BatchStatus{
		BatchID: "promo1", Total: 1, Used: 0, Remaining: 1, Level: domain.LevelHealthy,
		Items: []domain.Item{{ImageID: "a.png", FilePath: "images/inbox/promo1/a.png", Status: domain.StatusNew}},
	}
	text := renderStatus(st, "acme/marketing-images", "main")
	assert.Contains(t, text, "<https://github.com/acme/marketing-images/blob/main/images/inbox/promo1/a.png|a.png>")
}

func TestVerifySlackSignature_RoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("text=status+promo1")

	sig := signSlackRequest(testSecret, ts, body)
	assert.Nil(t, verifySlackSignature(testSecret, ts, sig, body, now, 5*time.Minute))

	// Any byte of the body changes the signature.
	authErr := verifySlackSignature(testSecret, ts, sig, []byte("text=status+promo2"), now, 5*time.Minute)
	require.NotNil(t, authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.status)
}
