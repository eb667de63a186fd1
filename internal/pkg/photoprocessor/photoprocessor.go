package photoprocessor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	// ThumbnailWidth is the gallery card size.
	ThumbnailWidth = 360
	// BlurSigma is strong enough that faces are unrecognizable in previews.
	BlurSigma = 18.0

	jpegQuality = 85
)

// Result carries the encoded variants of one uploaded photo.
type Result struct {
	Original []byte
	Blurred  []byte
	Thumb    []byte
	Width    int
	Height   int
}

// Process decodes an upload, fixes EXIF orientation and produces the three
// stored variants: the full-size original, a heavily blurred preview for
// non-entitled viewers, and a gallery thumbnail. All variants are re-encoded
// as JPEG, which also strips metadata from what we serve.
func Process(data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = fixOrientation(data, img)

	bounds := img.Bounds()
	blurred := imaging.Blur(img, BlurSigma)
	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	original, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}
	blurredData, err := encodeJPEG(blurred)
	if err != nil {
		return nil, err
	}
	thumbData, err := encodeJPEG(thumb)
	if err != nil {
		return nil, err
	}

	return &Result{
		Original: original,
		Blurred:  blurredData,
		Thumb:    thumbData,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fixOrientation rotates the decoded image according to the EXIF orientation
// tag. Phone cameras store sideways pixels plus a tag; without this the
// gallery shows rotated photos.
func fixOrientation(raw []byte, img image.Image) image.Image {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
