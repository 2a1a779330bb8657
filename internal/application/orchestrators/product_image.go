package orchestrators

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gymdesk/internal/domain/product"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, productID string, r io.Reader) (string, error)
}

// ProductStoreForImage defines the store interface needed by AttachProductImage.
type ProductStoreForImage interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
	Save(ctx context.Context, p product.Product) error
}

// ExecuteAttachProductImage uploads an image and stores its URL on the product.
// PRE: the product exists
// POST: ImageURL is replaced only when the upload succeeded
func ExecuteAttachProductImage(ctx context.Context, productID string, image io.Reader, uploader ImageUploader, store ProductStoreForImage) (product.Product, error) {
	p, err := store.GetByID(ctx, productID)
	if err != nil {
		return product.Product{}, err
	}
	url, err := uploader.Upload(ctx, p.ID, image)
	if err != nil {
		return product.Product{}, fmt.Errorf("upload image for %s: %w", p.ID, err)
	}
	p.ImageURL = url
	if err := store.Save(ctx, p); err != nil {
		return product.Product{}, err
	}
	slog.Info("product_event", "event", "image_attached", "product_id", p.ID)
	return p, nil
}
