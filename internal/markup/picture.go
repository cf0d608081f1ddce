// Package markup renders the HTML that references generated image variants.
package markup

import (
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/yourwellnessgirly/site-tools/internal/model"
	"github.com/yourwellnessgirly/site-tools/internal/profile"
)

var pictureTemplate = template.Must(template.New("picture").Funcs(template.FuncMap{
	"attr": html.EscapeString,
}).Parse(`<picture>
    <source
        srcset="{{ attr .WebPSrcset }}"
        type="image/webp">
    <img
        src="{{ attr .Src }}"
        srcset="{{ attr .JPEGSrcset }}"
        sizes="{{ attr .Sizes }}"
        width="{{ .Width }}"
        height="{{ .Height }}"
        alt="{{ attr .Alt }}"
        loading="{{ attr .Loading }}"{{ if .FetchPriority }}
        fetchpriority="{{ attr .FetchPriority }}"{{ end }} />
</picture>`))

// Picture describes a <picture> element for one image rendered in a profile.
type Picture struct {
	URLPrefix string // e.g. "../images/recipes"
	Recipe    string
	BaseName  string
	Profile   model.SizeProfile

	Alt           string
	Width         int
	Height        int
	Loading       string // "lazy" when empty
	FetchPriority string // omitted when empty
}

type pictureData struct {
	WebPSrcset    string
	JPEGSrcset    string
	Src           string
	Sizes         string
	Width         int
	Height        int
	Alt           string
	Loading       string
	FetchPriority string
}

// URL returns the public URL of one variant.
func (p Picture) URL(label string, format model.Format) string {
	prefix := strings.TrimSuffix(p.URLPrefix, "/")
	return fmt.Sprintf("%s/%s/%s", prefix, p.Recipe, model.VariantName(p.BaseName, label, format))
}

// Srcset lists "<url> <label>w" for every bucket in profile order.
func (p Picture) Srcset(format model.Format) string {
	entries := make([]string, 0, len(p.Profile.Buckets))
	for _, b := range p.Profile.Buckets {
		entries = append(entries, fmt.Sprintf("%s %sw", p.URL(b.Label, format), b.Label))
	}
	return strings.Join(entries, ", ")
}

// Render returns the <picture> fragment. The fallback src points at the
// largest bucket's JPEG.
func Render(p Picture) (string, error) {
	if len(p.Profile.Buckets) == 0 {
		return "", fmt.Errorf("profile %q has no sizes", p.Profile.Name)
	}

	loading := p.Loading
	if loading == "" {
		loading = "lazy"
	}

	data := pictureData{
		WebPSrcset:    p.Srcset(model.FormatWebP),
		JPEGSrcset:    p.Srcset(model.FormatJPEG),
		Src:           p.URL(p.Profile.Largest().Label, model.FormatJPEG),
		Sizes:         profile.SizesHint(p.Profile.Name),
		Width:         p.Width,
		Height:        p.Height,
		Alt:           p.Alt,
		Loading:       loading,
		FetchPriority: p.FetchPriority,
	}

	var b strings.Builder
	if err := pictureTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render picture: %w", err)
	}

	return b.String(), nil
}
