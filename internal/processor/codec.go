package processor

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/yourwellnessgirly/site-tools/internal/model"
)

// Encoder writes an image in one output format.
type Encoder interface {
	Format() model.Format
	Quality() int
	Encode(w io.Writer, img image.Image) error
}

// JPEGEncoder encodes baseline JPEG at a fixed quality.
type JPEGEncoder struct {
	quality int
}

// NewJPEGEncoder returns a JPEG encoder with the given quality (1-100).
func NewJPEGEncoder(quality int) *JPEGEncoder {
	return &JPEGEncoder{quality: quality}
}

func (e *JPEGEncoder) Format() model.Format { return model.FormatJPEG }
func (e *JPEGEncoder) Quality() int         { return e.quality }

func (e *JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return nil
}

// WebPEncoder encodes lossy WebP at a fixed quality using the slowest,
// best-compressing method.
type WebPEncoder struct {
	quality int
}

// NewWebPEncoder returns a lossy WebP encoder with the given quality (0-100).
func NewWebPEncoder(quality int) *WebPEncoder {
	return &WebPEncoder{quality: quality}
}

func (e *WebPEncoder) Format() model.Format { return model.FormatWebP }
func (e *WebPEncoder) Quality() int         { return e.quality }

func (e *WebPEncoder) Encode(w io.Writer, img image.Image) error {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(e.quality))
	if err != nil {
		return fmt.Errorf("invalid webp options: %w", err)
	}
	opts.Method = 6

	if err := webp.Encode(w, toNRGBA(img), opts); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}
	return nil
}

// Decode reads an image and flattens it to opaque color.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return Flatten(img), nil
}

// Flatten drops the alpha channel of palette and non-opaque images, leaving
// opaque RGB. Colors are kept as stored; nothing is composited.
func Flatten(img image.Image) image.Image {
	_, paletted := img.(*image.Paletted)
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() && !paletted {
		return img
	}

	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}
