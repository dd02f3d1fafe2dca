package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore persists ledger documents as files in a GitHub repository.
type ContentStore struct {
	client *Client
	owner  string
	repo   string
}

// NewContentStore creates a content store over one repository.
func NewContentStore(client *Client, owner, repo string) *ContentStore {
	return &ContentStore{client: client, owner: owner, repo: repo}
}

// Get fetches the file at key. An empty ref reads the default branch.
// For files under 1MB the contents API inlines the base64 body, which
// covers ledger documents comfortably.
func (s *ContentStore) Get(ctx context.Context, key, ref string) (*driven.Document, error) {
	if err := s.client.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := s.client.gh.Repositories.GetContents(ctx, s.owner, s.repo, key, opts)
	if err != nil {
		werr := s.client.wrapError(err, "get contents")
		if IsNotFound(werr) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, werr
	}
	s.client.updateRateLimitFromResponse(resp)

	if content == nil {
		return nil, fmt.Errorf("get contents %s: path is a directory, not a file", key)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode content %s: %w", key, err)
	}

	return &driven.Document{
		Bytes:   []byte(decoded),
		Version: content.GetSHA(),
	}, nil
}

// PutIfMatch replaces the file's content, conditional on version being
// the file's current blob SHA. A stale SHA maps to
// domain.ErrVersionMismatch so the core can retry its read-modify-write.
func (s *ContentStore) PutIfMatch(ctx context.Context, key string, data []byte, version, message string) error {
	if err := s.client.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: data,
		SHA:     gh.Ptr(version),
	}
	_, resp, err := s.client.gh.Repositories.UpdateFile(ctx, s.owner, s.repo, key, opts)
	if err != nil {
		werr := s.client.wrapError(err, "update contents")
		switch {
		case IsVersionConflict(werr):
			return fmt.Errorf("%w: %s", domain.ErrVersionMismatch, key)
		case IsNotFound(werr):
			return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return werr
	}
	s.client.updateRateLimitFromResponse(resp)
	return nil
}

// Create writes a new file that must not yet exist.
func (s *ContentStore) Create(ctx context.Context, key string, data []byte, message string) error {
	if err := s.client.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: data,
	}
	_, resp, err := s.client.gh.Repositories.CreateFile(ctx, s.owner, s.repo, key, opts)
	if err != nil {
		werr := s.client.wrapError(err, "create contents")
		if IsAlreadyExists(werr) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, key)
		}
		return werr
	}
	s.client.updateRateLimitFromResponse(resp)
	return nil
}
