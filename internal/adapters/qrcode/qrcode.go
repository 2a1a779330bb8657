// Package qrcode renders text as a QR code PNG.
package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// PNG encodes content at medium error correction.
// PRE: content is non-empty; size > 0 or DefaultSize is used
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
