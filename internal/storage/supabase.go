package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

// SupabaseStore uploads previews to a Supabase storage bucket over its
// object HTTP API.
type SupabaseStore struct {
	BaseURL string
	APIKey  string
	Bucket  string
	Client  *http.Client
}

// NewSupabaseStore constructs a bucket-backed store.
func NewSupabaseStore(baseURL, apiKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Bucket:  bucket,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Put applies the acceptance contract and forwards the bytes to the bucket.
// A non-2xx response from Supabase is surfaced as the collaborator's
// rejection verdict, not retried.
func (s *SupabaseStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := accept(obj); err != nil {
		return "", err
	}
	key := strings.TrimLeft(obj.Key, "/")
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, s.Bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(obj.Data))
	if err != nil {
		return "", fmt.Errorf("storage: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", obj.ContentType)
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &domain.StorageRejectedError{
			Reason: fmt.Sprintf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.BaseURL, s.Bucket, key), nil
}
