package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BucketStore uploads assets into a Supabase-style storage bucket over its
// REST API and returns the bucket's public object URL.
type BucketStore struct {
	endpoint   string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewBucketStore constructs a store for one bucket. The endpoint is the
// storage service root, e.g. https://abc.supabase.co.
func NewBucketStore(endpoint, serviceKey, bucket string, httpClient *http.Client) (*BucketStore, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("storage: endpoint is required")
	}
	serviceKey = strings.TrimSpace(serviceKey)
	if serviceKey == "" {
		return nil, errors.New("storage: service key is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &BucketStore{
		endpoint:   endpoint,
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: httpClient,
	}, nil
}

// Write uploads the object and returns its public URL.
func (s *BucketStore) Write(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.endpoint, s.bucket, cleanKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage: build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("storage: upload status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.endpoint, s.bucket, cleanKey), nil
}

var _ Store = (*BucketStore)(nil)
