package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/wb-go/wbf/zlog"

	"github.com/yourwellnessgirly/site-tools/internal/model"
)

// fileStorage defines the interface for file storage.
// It allows saving files into a subdirectory of a backend (e.g., local FS)
// and removing them again when a set cannot be completed.
type fileStorage interface {
	Save(subdir, filename string, src io.Reader) (string, error)
	Delete(subdir, filename string) error
}

// Rendered is one encoded variant held in memory until the whole set is ready.
type Rendered struct {
	Name    string
	Variant model.ImageVariant
	Data    []byte
}

// Processor renders size variants of an image and writes them, one file
// per encoder, through its file storage.
type Processor struct {
	fileStorage fileStorage
	encoders    []Encoder
}

// New creates a new Processor with the given file storage backend.
// Every rendered variant is written once per encoder, in encoder order.
func New(fs fileStorage, encoders ...Encoder) *Processor {
	return &Processor{fileStorage: fs, encoders: encoders}
}

// Process renders every bucket of the profile and returns the written variants
// in profile order. Nothing is written until every variant has been encoded,
// and files already written are removed if a later write fails.
func (p *Processor) Process(ctx context.Context, img image.Image, baseName, subdir string, profile model.SizeProfile) ([]model.ImageVariant, error) {
	pending := make([]Rendered, 0, len(profile.Buckets)*len(p.encoders))

	for _, bucket := range profile.Buckets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := p.Render(img, baseName, bucket)
		if err != nil {
			return nil, fmt.Errorf("size %s: %w", bucket.Label, err)
		}

		pending = append(pending, out...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return p.write(subdir, pending)
}

// Render fits the image to one bucket and encodes it with each encoder.
func (p *Processor) Render(img image.Image, baseName string, bucket model.SizeBucket) ([]Rendered, error) {
	fitted, err := Fit(img, bucket.Width, bucket.Height)
	if err != nil {
		return nil, err
	}

	out := make([]Rendered, 0, len(p.encoders))
	for _, enc := range p.encoders {
		buf := bytes.NewBuffer(nil)
		if err := enc.Encode(buf, fitted); err != nil {
			return nil, err
		}

		out = append(out, Rendered{
			Name: model.VariantName(baseName, bucket.Label, enc.Format()),
			Variant: model.ImageVariant{
				Label:   bucket.Label,
				Width:   bucket.Width,
				Height:  bucket.Height,
				Format:  enc.Format(),
				Quality: enc.Quality(),
			},
			Data: buf.Bytes(),
		})
	}

	return out, nil
}

func (p *Processor) write(subdir string, pending []Rendered) ([]model.ImageVariant, error) {
	variants := make([]model.ImageVariant, 0, len(pending))

	for i, r := range pending {
		dst, err := p.fileStorage.Save(subdir, r.Name, bytes.NewReader(r.Data))
		if err != nil {
			p.remove(subdir, pending[:i])
			return nil, fmt.Errorf("failed to save %s: %w", r.Name, err)
		}

		v := r.Variant
		v.Path = dst
		variants = append(variants, v)
	}

	return variants, nil
}

func (p *Processor) remove(subdir string, written []Rendered) {
	for _, r := range written {
		if err := p.fileStorage.Delete(subdir, r.Name); err != nil {
			zlog.Logger.Error().Err(err).Str("file", r.Name).Msg("failed to remove partial output")
		}
	}
}
