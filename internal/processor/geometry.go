package processor

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

var ErrEmptyImage = errors.New("image has no pixels")

// CoverSize returns the size of the source scaled, preserving its aspect ratio,
// so that it covers a width x height box. A source relatively wider than the
// target is fitted to the target height, otherwise to the target width.
func CoverSize(srcW, srcH, width, height int) (int, int) {
	imgRatio := float64(srcW) / float64(srcH)
	targetRatio := float64(width) / float64(height)

	var w, h int
	if imgRatio > targetRatio {
		h = height
		w = int(float64(height) * imgRatio)
	} else {
		w = width
		h = int(float64(width) / imgRatio)
	}

	// float truncation may land one pixel short
	w = max(w, width)
	h = max(h, height)

	return w, h
}

// CropRect returns the centered width x height window of a w x h image.
// Margins use floor division, so an odd difference leaves the extra pixel
// on the right or bottom edge.
func CropRect(w, h, width, height int) image.Rectangle {
	left := (w - width) / 2
	top := (h - height) / 2

	return image.Rect(left, top, left+width, top+height)
}

// Fit scales img to cover width x height with Lanczos resampling and
// center-crops it to exactly that size.
func Fit(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	w, h := CoverSize(b.Dx(), b.Dy(), width, height)
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	if w == width && h == height {
		return resized, nil
	}

	return imaging.Crop(resized, CropRect(w, h, width, height)), nil
}
