package responsive

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/yourwellnessgirly/site-tools/internal/model"
	"github.com/yourwellnessgirly/site-tools/internal/processor"
	"github.com/yourwellnessgirly/site-tools/internal/profile"
)

// fileStorage defines the interface for reading local files.
type fileStorage interface {
	Load(subdir, filename string) (io.ReadCloser, error)
}

// imageProcessor renders and writes the variants of one profile.
type imageProcessor interface {
	Process(ctx context.Context, img image.Image, baseName, subdir string, profile model.SizeProfile) ([]model.ImageVariant, error)
}

// publisher uploads a written variant to a remote store.
type publisher interface {
	Save(ctx context.Context, subdir, filename string, src io.Reader) (string, error)
	Delete(ctx context.Context, subdir, filename string) error
}

// Request names the source image, the recipe folder and the profile to render.
type Request struct {
	Input   string
	Recipe  string
	Profile string
}

// Result lists what one Generate call produced.
type Result struct {
	Recipe   string // recipe folder the variants were written to
	BaseName string
	Profile  model.SizeProfile
	Source   image.Point // source dimensions
	Variants []model.ImageVariant
	Remote   []string // object keys, when publishing
}

// Service generates responsive image sets. Any failure aborts the run.
type Service struct {
	sources   fileStorage
	outputs   fileStorage
	processor imageProcessor
	publisher publisher
}

// NewService creates a Service. sources resolves input paths as given,
// outputs reads back what the processor wrote so it can be published.
func NewService(sources, outputs fileStorage, p imageProcessor) *Service {
	return &Service{sources: sources, outputs: outputs, processor: p}
}

// WithPublisher mirrors every generated variant through pub after all of
// them were written locally.
func (s *Service) WithPublisher(pub publisher) *Service {
	s.publisher = pub
	return s
}

// Generate writes one file per bucket and encoder under <recipe>/ and returns
// the variants in profile order.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	prof, err := profile.Get(req.Profile)
	if err != nil {
		return Result{}, err
	}

	recipe := strings.TrimSpace(req.Recipe)
	if recipe == "" || strings.ContainsAny(recipe, `/\`) || recipe == "." || recipe == ".." {
		return Result{}, fmt.Errorf("invalid recipe folder name %q", req.Recipe)
	}

	// Load the original image.
	src, err := s.sources.Load(filepath.Dir(req.Input), filepath.Base(req.Input))
	if err != nil {
		return Result{}, fmt.Errorf("failed to load original image: %w", err)
	}
	defer src.Close()

	// Decode into an image object.
	img, err := processor.Decode(src)
	if err != nil {
		return Result{}, err
	}

	size := img.Bounds().Size()
	zlog.Logger.Info().
		Str("input", req.Input).
		Str("profile", prof.Name).
		Strs("sizes", prof.Labels()).
		Int("width", size.X).
		Int("height", size.Y).
		Msg("original image")

	baseName := strings.TrimSuffix(filepath.Base(req.Input), filepath.Ext(req.Input))

	variants, err := s.processor.Process(ctx, img, baseName, recipe, prof)
	if err != nil {
		return Result{}, fmt.Errorf("generate %s variants: %w", prof.Name, err)
	}

	for _, v := range variants {
		zlog.Logger.Info().
			Str("path", v.Path).
			Int("width", v.Width).
			Int("height", v.Height).
			Msg("created")
	}

	res := Result{
		Recipe:   recipe,
		BaseName: baseName,
		Profile:  prof,
		Source:   size,
		Variants: variants,
	}

	if s.publisher != nil {
		keys, err := s.publish(ctx, recipe, variants)
		if err != nil {
			return Result{}, err
		}
		res.Remote = keys
	}

	return res, nil
}

func (s *Service) publish(ctx context.Context, recipe string, variants []model.ImageVariant) ([]string, error) {
	keys := make([]string, 0, len(variants))
	published := make([]string, 0, len(variants))

	for _, v := range variants {
		name := filepath.Base(v.Path)

		key, err := s.publishOne(ctx, recipe, name)
		if err != nil {
			s.unpublish(recipe, published)
			return nil, fmt.Errorf("publish %s: %w", name, err)
		}

		zlog.Logger.Info().Str("key", key).Msg("published")
		keys = append(keys, key)
		published = append(published, name)
	}

	return keys, nil
}

// unpublish removes the objects of an incomplete upload. It runs on a fresh
// context so an interrupted run still cleans up.
func (s *Service) unpublish(recipe string, names []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range names {
		if err := s.publisher.Delete(ctx, recipe, name); err != nil {
			zlog.Logger.Error().Err(err).Str("file", name).Msg("failed to remove published object")
		}
	}
}

func (s *Service) publishOne(ctx context.Context, recipe, name string) (string, error) {
	r, err := s.outputs.Load(recipe, name)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return s.publisher.Save(ctx, recipe, name, r)
}
