// Package httpapi hosts the webhook surface: a health endpoint and the
// Slack slash-command receiver that drives the inventory core.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driving"
	"github.com/stockpile-labs/stockpile-cli/internal/logger"
)

// ServerConfig parameterizes the webhook server.
type ServerConfig struct {
	// SigningSecret verifies slash-command requests. Empty disables
	// verification, which is only acceptable in tests and local runs.
	SigningSecret string

	// MaxSkew bounds the accepted request timestamp age. Default 5m.
	MaxSkew time.Duration

	// MaxBodyBytes caps the request body. Default 64KiB; slash-command
	// payloads are tiny.
	MaxBodyBytes int64

	// RepoSlug ("owner/repo") and Ref make item lines link to the
	// backing file on GitHub. Optional.
	RepoSlug string
	Ref      string
}

// Server handles the Slack slash-command webhook.
type Server struct {
	inventory driving.Inventory
	cfg       ServerConfig
	now       func() time.Time
}

// NewServer creates a webhook server over the inventory port.
func NewServer(inventory driving.Inventory, cfg ServerConfig) *Server {
	if cfg.MaxSkew <= 0 {
		cfg.MaxSkew = 5 * time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	if cfg.Ref == "" {
		cfg.Ref = "main"
	}
	return &Server{
		inventory: inventory,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case r.URL.Path == "/slack/command" && r.Method == http.MethodPost:
		s.handleCommand(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCommand verifies, parses and dispatches one slash command.
// Core outcomes are rendered as ephemeral replies with HTTP 200; only
// transport-level failures use error status codes, matching Slack's
// delivery contract.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxBodyBytes+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > s.cfg.MaxBodyBytes {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return
	}

	if s.cfg.SigningSecret != "" {
		authErr := verifySlackSignature(
			s.cfg.SigningSecret,
			r.Header.Get(headerTimestamp),
			r.Header.Get(headerSignature),
			body,
			s.now(),
			s.cfg.MaxSkew,
		)
		if authErr != nil {
			logger.Debug("Rejected slash command: %s", authErr.message)
			http.Error(w, authErr.message, authErr.status)
			return
		}
	}

	// The body was read up front so signature verification sees the
	// exact bytes Slack signed; parse the form from the same copy.
	form, err := url.ParseQuery(string(body))
	if err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	reply := s.dispatch(r, form)
	writeJSON(w, http.StatusOK, map[string]string{
		"response_type": "ephemeral",
		"text":          reply,
	})
}

// dispatch runs one parsed command and returns the reply text.
func (s *Server) dispatch(r *http.Request, form url.Values) string {
	args := strings.Fields(form.Get("text"))
	if len(args) == 0 {
		return usageText
	}
	actor := form.Get("user_name")
	if actor == "" {
		actor = "unknown"
	}

	switch args[0] {
	case "status":
		if len(args) < 2 {
			return usageText
		}
		batchID := args[1]
		st, err := s.inventory.FetchStatus(r.Context(), batchID)
		if err != nil {
			return renderError(err, batchID, "")
		}
		return renderStatus(st, s.cfg.RepoSlug, s.cfg.Ref)

	case "used":
		if len(args) < 3 {
			return usageText
		}
		batchID, imageID := args[1], args[2]
		link := ""
		if len(args) > 3 {
			link = args[3]
		}
		res, err := s.inventory.MarkUsed(r.Context(), batchID, imageID, link, actor)
		if err != nil {
			return renderError(err, batchID, imageID)
		}
		return renderUsed(imageID, res)

	default:
		return usageText
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
