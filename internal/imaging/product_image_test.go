package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestNormalizeProductImageScalesDown(t *testing.T) {
	out, err := NormalizeProductImage(encodeTestImage(t, 2048, 1024))
	require.NoError(t, err)

	w, h := decodeBounds(t, out)
	assert.Equal(t, 512, w)
	assert.Equal(t, 256, h)
}

func TestNormalizeProductImageKeepsSmallDimensions(t *testing.T) {
	out, err := NormalizeProductImage(encodeTestImage(t, 100, 80))
	require.NoError(t, err)

	w, h := decodeBounds(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 80, h)
}

func TestNormalizeProductImagePortrait(t *testing.T) {
	out, err := NormalizeProductImage(encodeTestImage(t, 600, 1200))
	require.NoError(t, err)

	w, h := decodeBounds(t, out)
	assert.Equal(t, 512, h)
	assert.Equal(t, 256, w)
}

func TestNormalizeProductImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeProductImage([]byte("not an image"))
	assert.Error(t, err)
}
