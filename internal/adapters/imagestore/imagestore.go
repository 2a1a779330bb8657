// Package imagestore uploads product images to an external host.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrDisabled is returned when no image host is configured.
var ErrDisabled = errors.New("image uploads are not configured")

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, productID string, image io.Reader) (string, error)
}

// Cloudinary uploads into the products folder, one public id per product.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary connects using a cloudinary:// URL.
func NewCloudinary(url string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// Upload replaces the product's image.
// POST: Returns the secure URL of the stored image
func (c *Cloudinary) Upload(ctx context.Context, productID string, image io.Reader) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		PublicID: productID,
		Folder:   "products",
	})
	if err != nil {
		return "", fmt.Errorf("upload image for product %s: %w", productID, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload image for product %s: %s", productID, res.Error.Message)
	}
	slog.Info("product_image_uploaded", "product_id", productID, "public_id", res.PublicID)
	return res.SecureURL, nil
}

// Disabled rejects every upload.
type Disabled struct{}

// Upload returns ErrDisabled.
func (Disabled) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrDisabled
}
