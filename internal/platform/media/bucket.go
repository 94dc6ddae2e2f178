package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cortex_edu/internal/platform/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Bucket keeps uploaded catalog images in a Google Cloud Storage bucket and
// serves them from the bucket's public endpoint or a CDN in front of it.
type Bucket struct {
	client    *storage.Client
	name      string
	cdnDomain string
	log       *logger.Logger
}

// NewBucket opens a storage client. credentials is either inline service account
// JSON or a path to a key file; empty falls back to application default credentials.
func NewBucket(ctx context.Context, name, cdnDomain, credentials string, log *logger.Logger) (*Bucket, error) {
	if name == "" {
		return nil, fmt.Errorf("media: bucket name is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	opts := append(clientOptions(credentials), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Bucket{
		client:    client,
		name:      name,
		cdnDomain: strings.TrimSuffix(cdnDomain, "/"),
		log:       log.With("bucket", name),
	}, nil
}

func clientOptions(credentials string) []option.ClientOption {
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return nil
	}
	if strings.HasPrefix(credentials, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentials))}
	}
	return []option.ClientOption{option.WithCredentialsFile(credentials)}
}

func (b *Bucket) Upload(ctx context.Context, key, contentType string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.name).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s to GCS: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}
	b.log.Info("media.uploaded", "key", key, "bytes", w.Attrs().Size)
	return nil
}

func (b *Bucket) PublicURL(key string) string {
	if b.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", b.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, key)
}

func (b *Bucket) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
