package photoprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	// Checkerboard: high-frequency content that a strong blur must flatten.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c := color.RGBA{R: 20, G: 20, B: 20, A: 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{R: 235, G: 235, B: 235, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestProcess(t *testing.T) {
	result, err := Process(testJPEG(t, 800, 600))
	require.NoError(t, err)

	assert.Equal(t, 800, result.Width)
	assert.Equal(t, 600, result.Height)
	assert.NotEmpty(t, result.Original)
	assert.NotEmpty(t, result.Blurred)
	assert.NotEmpty(t, result.Thumb)

	thumb, err := jpeg.Decode(bytes.NewReader(result.Thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, thumb.Bounds().Dx())
	assert.Equal(t, 270, thumb.Bounds().Dy(), "thumbnail keeps aspect ratio")

	original, err := jpeg.Decode(bytes.NewReader(result.Original))
	require.NoError(t, err)
	assert.Equal(t, 800, original.Bounds().Dx())
}

func TestProcessAcceptsPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	result, err := Process(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 100, result.Width)

	// Variants are re-encoded as JPEG regardless of the input format.
	_, err = jpeg.Decode(bytes.NewReader(result.Original))
	assert.NoError(t, err)
}

func TestProcessRejectsGarbage(t *testing.T) {
	_, err := Process([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestProcessBlursPreview(t *testing.T) {
	result, err := Process(testJPEG(t, 400, 400))
	require.NoError(t, err)

	orig, err := jpeg.Decode(bytes.NewReader(result.Original))
	require.NoError(t, err)
	blurred, err := jpeg.Decode(bytes.NewReader(result.Blurred))
	require.NoError(t, err)
	require.Equal(t, orig.Bounds(), blurred.Bounds())

	// A sigma-18 blur turns the 8px checkerboard into near-uniform grey, so
	// most sampled pixels move far from their original value.
	changed := 0
	samples := 0
	for x := 4; x < 400; x += 8 {
		for y := 4; y < 400; y += 8 {
			samples++
			or, og, ob, _ := orig.At(x, y).RGBA()
			br, bg, bb, _ := blurred.At(x, y).RGBA()
			if diff(or, br)+diff(og, bg)+diff(ob, bb) > 30000 {
				changed++
			}
		}
	}
	assert.Greater(t, changed, samples/2, "blurred variant should differ from the original")
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
