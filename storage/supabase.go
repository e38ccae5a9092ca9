package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SupabaseStore talks to the Supabase Storage REST API
type SupabaseStore struct {
	baseURL string
	apiKey  string
	bucket  string
	client  *http.Client
}

// NewSupabaseStore creates a store for bucket. A nil client gets a 30s timeout.
func NewSupabaseStore(projectURL, apiKey, bucket string, client *http.Client) *SupabaseStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SupabaseStore{
		baseURL: strings.TrimRight(projectURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		client:  client,
	}
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Upload POSTs the object without upsert, so an existing key is an error
// rather than a silent overwrite.
func (s *SupabaseStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, url.PathEscape(s.bucket), escapePath(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpload, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return key, nil
}

func (s *SupabaseStore) PublicURL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storedPath)
}
