package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wb-go/wbf/zlog"

	"github.com/yourwellnessgirly/site-tools/internal/model"
	"github.com/yourwellnessgirly/site-tools/internal/processor"
)

var ErrDirNotFound = errors.New("directory not found")

// fileStorage defines the file operations the converter needs.
type fileStorage interface {
	DirExists(subdir string) (bool, error)
	List(subdir string) ([]fs.FileInfo, error)
	Stat(subdir, filename string) (fs.FileInfo, error)
	Load(subdir, filename string) (io.ReadCloser, error)
	Save(subdir, filename string, src io.Reader) (string, error)
}

// encoder writes the target format.
type encoder interface {
	Format() model.Format
	Encode(w io.Writer, img image.Image) error
}

// Conversion is one successfully converted file.
type Conversion struct {
	Source      string
	Output      string
	SourceBytes int64
	OutputBytes int64
}

// Savings returns the size reduction in percent; negative when the output grew.
func (c Conversion) Savings() float64 {
	return savings(c.SourceBytes, c.OutputBytes)
}

// Failure is a file that could not be converted.
type Failure struct {
	Source string
	Err    error
}

// Report summarizes one converter run.
type Report struct {
	Converted []Conversion
	Skipped   []string
	Failed    []Failure
}

// SourceBytes sums the sizes of the converted sources.
func (r Report) SourceBytes() int64 {
	var n int64
	for _, c := range r.Converted {
		n += c.SourceBytes
	}
	return n
}

// OutputBytes sums the sizes of the written outputs.
func (r Report) OutputBytes() int64 {
	var n int64
	for _, c := range r.Converted {
		n += c.OutputBytes
	}
	return n
}

// Savings returns the overall size reduction of the converted files in percent.
func (r Report) Savings() float64 {
	return savings(r.SourceBytes(), r.OutputBytes())
}

func savings(src, out int64) float64 {
	if src == 0 {
		return 0
	}
	return float64(src-out) / float64(src) * 100
}

// Converter converts every matching image of a directory to the encoder's
// format. It is best-effort: a failing file is reported and skipped.
type Converter struct {
	storage    fileStorage
	encoder    encoder
	extensions []string
}

// New creates a Converter for files whose extension matches one of
// extensions, compared case-insensitively.
func New(storage fileStorage, enc encoder, extensions []string) *Converter {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}

	return &Converter{storage: storage, encoder: enc, extensions: exts}
}

// Run converts the matching files of dir in name order. An output is left
// alone when it exists and is strictly newer than its source.
func (c *Converter) Run(ctx context.Context, dir string) (Report, error) {
	var report Report

	ok, err := c.storage.DirExists(dir)
	if err != nil {
		return report, fmt.Errorf("check directory %s: %w", dir, err)
	}
	if !ok {
		return report, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	files, err := c.storage.List(dir)
	if err != nil {
		return report, err
	}

	sources := make([]fs.FileInfo, 0, len(files))
	for _, f := range files {
		if c.matches(f.Name()) {
			sources = append(sources, f)
		}
	}

	if len(sources) == 0 {
		zlog.Logger.Warn().Str("dir", dir).Strs("extensions", c.extensions).Msg("no source images found")
		return report, nil
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := src.Name()
		outName := strings.TrimSuffix(name, filepath.Ext(name)) + c.encoder.Format().Ext()

		if c.upToDate(dir, outName, src) {
			zlog.Logger.Info().Str("file", name).Str("output", outName).Msg("skipping, output is newer")
			report.Skipped = append(report.Skipped, name)
			continue
		}

		conv, err := c.convert(dir, name, outName, src.Size())
		if err != nil {
			zlog.Logger.Error().Err(err).Str("file", name).Msg("failed to convert")
			report.Failed = append(report.Failed, Failure{Source: name, Err: err})
			continue
		}

		zlog.Logger.Info().
			Str("file", name).
			Str("output", outName).
			Int64("source_kb", conv.SourceBytes/1024).
			Int64("output_kb", conv.OutputBytes/1024).
			Str("savings", fmt.Sprintf("%.1f%%", conv.Savings())).
			Msg("converted")
		report.Converted = append(report.Converted, conv)
	}

	return report, nil
}

func (c *Converter) matches(name string) bool {
	return slices.Contains(c.extensions, strings.ToLower(filepath.Ext(name)))
}

func (c *Converter) upToDate(dir, outName string, src fs.FileInfo) bool {
	out, err := c.storage.Stat(dir, outName)
	if err != nil {
		return false
	}
	return out.ModTime().After(src.ModTime())
}

func (c *Converter) convert(dir, name, outName string, srcSize int64) (Conversion, error) {
	r, err := c.storage.Load(dir, name)
	if err != nil {
		return Conversion{}, fmt.Errorf("failed to open source: %w", err)
	}
	defer r.Close()

	img, err := processor.Decode(r)
	if err != nil {
		return Conversion{}, err
	}

	buf := bytes.NewBuffer(nil)
	if err := c.encoder.Encode(buf, img); err != nil {
		return Conversion{}, err
	}
	outSize := int64(buf.Len())

	dst, err := c.storage.Save(dir, outName, buf)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{
		Source:      filepath.Join(dir, name),
		Output:      dst,
		SourceBytes: srcSize,
		OutputBytes: outSize,
	}, nil
}
