package model

import "fmt"

// Format is an output image encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// Ext returns the file extension (with leading dot) used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatWebP:
		return ".webp"
	default:
		return "." + string(f)
	}
}

// SizeBucket is one named target size within a profile.
type SizeBucket struct {
	Label  string `json:"label"` // e.g. "400", "800"
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SizeProfile is a named image category with its ordered size buckets.
// Buckets are ordered by ascending width.
type SizeProfile struct {
	Name    string       `json:"name"`
	Buckets []SizeBucket `json:"buckets"`
}

// Labels returns the bucket labels in profile order.
func (p SizeProfile) Labels() []string {
	labels := make([]string, 0, len(p.Buckets))
	for _, b := range p.Buckets {
		labels = append(labels, b.Label)
	}
	return labels
}

// Largest returns the last, and therefore largest, bucket of the profile.
func (p SizeProfile) Largest() SizeBucket {
	if len(p.Buckets) == 0 {
		return SizeBucket{}
	}
	return p.Buckets[len(p.Buckets)-1]
}

// ImageVariant is one output file derived from a source image and a size bucket.
type ImageVariant struct {
	Label   string `json:"label"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  Format `json:"format"`
	Quality int    `json:"quality"`
	Path    string `json:"path"` // where the variant was written
}

// VariantName returns the deterministic file name of a variant:
// <baseName>-<label>.<ext>.
func VariantName(baseName, label string, format Format) string {
	return fmt.Sprintf("%s-%s%s", baseName, label, format.Ext())
}
