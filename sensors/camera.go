package sensors

import (
	"image"

	"github.com/pkg/errors"
)

// Camera is one image with the mask of pixels usable for feature detection.
type Camera struct {
	// Timestamp is in seconds.
	Timestamp float64
	Image     image.Image
	// Mask is non-zero where features may be detected.
	Mask *image.Gray
}

// NewCamera returns a camera sample whose mask covers the whole image.
func NewCamera(timestamp float64, img image.Image) (*Camera, error) {
	if img == nil {
		return nil, errors.New("camera sample needs an image")
	}
	mask := image.NewGray(img.Bounds())
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	return &Camera{Timestamp: timestamp, Image: img, Mask: mask}, nil
}

// NewMaskedCamera returns a camera sample with the given mask, which must match the image bounds.
func NewMaskedCamera(timestamp float64, img image.Image, mask *image.Gray) (*Camera, error) {
	if img == nil {
		return nil, errors.New("camera sample needs an image")
	}
	if mask == nil {
		return NewCamera(timestamp, img)
	}
	if mask.Bounds() != img.Bounds() {
		return nil, errors.Errorf("mask bounds %v do not match image bounds %v", mask.Bounds(), img.Bounds())
	}
	return &Camera{Timestamp: timestamp, Image: img, Mask: mask}, nil
}
