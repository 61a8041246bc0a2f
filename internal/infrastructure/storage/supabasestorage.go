// Package storage implements the image blob store against a Supabase-style
// storage HTTP API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/blobstore"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/config"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

const (
	uploadTimeout = 30 * time.Second
	// Maximum error body kept for diagnostics
	maxErrorBodySize = 4 << 10
)

// SupabaseStorage uploads item images to a storage bucket over HTTP.
type SupabaseStorage struct {
	endpoint      string
	bucket        string
	apiKey        string
	publicBaseURL string
	httpClient    *http.Client
	logger        logger.Interface
}

// New returns a configured store, or nil when no endpoint is set; callers
// treat a nil store as "keep images inline".
func New(cfg *config.StorageConfig, logger logger.Interface) *SupabaseStorage {
	if cfg.Endpoint == "" {
		return nil
	}
	return &SupabaseStorage{
		endpoint:      strings.TrimSuffix(cfg.Endpoint, "/"),
		bucket:        cfg.Bucket,
		apiKey:        cfg.APIKey,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		httpClient:    &http.Client{Timeout: uploadTimeout},
		logger:        logger,
	}
}

var _ blobstore.Store = (*SupabaseStorage)(nil)

func (s *SupabaseStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if s == nil {
		return "", blobstore.ErrNotConfigured
	}

	url := fmt.Sprintf("%s/object/%s/%s", s.endpoint, s.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Debugw("image uploaded", "path", path, "bytes", len(data))
	return s.PublicURL(path), nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, path string) error {
	if s == nil {
		return blobstore.ErrNotConfigured
	}

	url := fmt.Sprintf("%s/object/%s/%s", s.endpoint, s.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	// A missing object is already the desired state.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("delete rejected with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// PublicURL composes the public URL an uploaded object is served under.
func (s *SupabaseStorage) PublicURL(path string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + path
	}
	return fmt.Sprintf("%s/object/public/%s/%s", s.endpoint, s.bucket, path)
}
