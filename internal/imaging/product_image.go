package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// MaxProductImageDimension bounds the longest edge of stored product photos
const MaxProductImageDimension = 512

// NormalizeProductImage decodes an uploaded product photo, scales it down so
// neither edge exceeds MaxProductImageDimension, and re-encodes it as PNG.
// Images already within bounds are still re-encoded, which strips any
// metadata the upload carried.
func NormalizeProductImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	outWidth, outHeight := width, height
	if width > MaxProductImageDimension || height > MaxProductImageDimension {
		if width >= height {
			outWidth = MaxProductImageDimension
			outHeight = height * MaxProductImageDimension / width
		} else {
			outHeight = MaxProductImageDimension
			outWidth = width * MaxProductImageDimension / height
		}
		if outWidth < 1 {
			outWidth = 1
		}
		if outHeight < 1 {
			outHeight = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, outWidth, outHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
