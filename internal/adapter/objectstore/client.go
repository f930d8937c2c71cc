// Package objectstore wraps an S3-compatible object storage service for
// image/audio uploads and JSON exports.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/momsflavor/backend/internal/config"
)

// Purpose prefixes. Every stored object lives under one of these.
const (
	PrefixRecipes      = "recipes"
	PrefixDiary        = "diary"
	PrefixSpeechAudio  = "audio/speech"
	PrefixCookHistory  = "cook-history"
	PrefixInteractions = "cook-history/interactions"
)

// Client uploads objects to an S3-compatible bucket. A nil-configured client
// is still constructable so the rest of the app wires up; calls then return
// ErrNotConfigured-style errors with guidance.
type Client struct {
	mc      *minio.Client
	bucket  string
	baseURL string
}

// New builds the storage client from config. When credentials are absent it
// returns a client whose operations fail with a descriptive error instead of
// failing startup.
func New(cfg config.StorageConfig) (*Client, error) {
	if !cfg.Configured() {
		return &Client{}, nil
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "https"
		if !cfg.UseSSL {
			scheme = "http"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Client{
		mc:      mc,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Configured reports whether uploads can succeed.
func (c *Client) Configured() bool { return c.mc != nil }

// Upload stores the object under prefix with a timestamp-prefixed name and
// returns its public URL.
func (c *Client) Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader, size int64) (string, error) {
	if c.mc == nil {
		return "", fmt.Errorf("object storage is not configured: set STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY and STORAGE_BUCKET")
	}

	key := fmt.Sprintf("%s/%d_%s", strings.Trim(prefix, "/"), time.Now().UnixMilli(), sanitizeFilename(filename))

	_, err := c.mc.PutObject(ctx, c.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return c.baseURL + "/" + key, nil
}

// PutJSON marshals v and stores it under the exact key, overwriting any
// previous object. Used for the recommendation data-lake mirror.
func (c *Client) PutJSON(ctx context.Context, key string, v any) error {
	if c.mc == nil {
		return fmt.Errorf("object storage is not configured: set STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY and STORAGE_BUCKET")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	_, err = c.mc.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// sanitizeFilename strips path separators and whitespace so user-supplied
// names cannot escape the purpose prefix.
func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '_'
		case ' ', '\t':
			return '-'
		}
		return r
	}, name)
	if name == "" {
		return "upload"
	}
	return name
}
