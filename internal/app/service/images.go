package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"cortex_edu/internal/common"

	"github.com/google/uuid"
)

// ImageStore keeps uploaded catalog images and reports the URL they are served from.
// media.Bucket satisfies it.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) error
	PublicURL(key string) string
}

// ImageUpload is an uploaded image body with its sniffed content type.
type ImageUpload struct {
	ContentType string
	Body        io.Reader
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// storeImage uploads img as <folder>/<slug>/<uuid><ext> and returns its public URL.
func storeImage(ctx context.Context, store ImageStore, folder, slug string, img ImageUpload) (string, error) {
	if store == nil {
		return "", fmt.Errorf("image uploads are not configured: %w", common.ErrServiceUnavailable)
	}
	ext, ok := imageExtensions[img.ContentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q: %w", img.ContentType, common.ErrValidation)
	}

	key := path.Join(folder, slug, uuid.NewString()+ext)
	if err := store.Upload(ctx, key, img.ContentType, img.Body); err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return store.PublicURL(key), nil
}
