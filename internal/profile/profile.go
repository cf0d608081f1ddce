// Package profile holds the fixed responsive size tables of the recipe site.
package profile

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yourwellnessgirly/site-tools/internal/model"
)

var ErrUnknownProfile = errors.New("unknown image profile")

const (
	Hero    = "hero"
	Card    = "card"
	Process = "process"
	Gallery = "gallery"
)

var profiles = map[string]model.SizeProfile{
	Hero: {
		Name: Hero,
		Buckets: []model.SizeBucket{
			{Label: "400", Width: 400, Height: 500},    // mobile portrait
			{Label: "800", Width: 800, Height: 1000},   // small desktop
			{Label: "1200", Width: 1200, Height: 1500}, // large desktop
			{Label: "1600", Width: 1600, Height: 2000}, // high-res/retina
		},
	},
	Card: {
		Name: Card,
		Buckets: []model.SizeBucket{
			{Label: "300", Width: 300, Height: 225}, // 4:3
			{Label: "600", Width: 600, Height: 450},
		},
	},
	Process: {
		Name: Process,
		Buckets: []model.SizeBucket{
			{Label: "400", Width: 400, Height: 300}, // 4:3 step images
			{Label: "800", Width: 800, Height: 600},
		},
	},
	Gallery: {
		Name: Gallery,
		Buckets: []model.SizeBucket{
			{Label: "300", Width: 300, Height: 300}, // square thumbnails
			{Label: "600", Width: 600, Height: 600},
			{Label: "1200", Width: 1200, Height: 900}, // lightbox, 4:3
		},
	},
}

var sizesHints = map[string]string{
	Hero:    "(max-width: 480px) 100vw, (max-width: 768px) 100vw, (max-width: 1200px) 60vw, 735px",
	Card:    "(max-width: 768px) 50vw, 300px",
	Process: "(max-width: 768px) 100vw, 400px",
}

const defaultSizesHint = "(max-width: 768px) 50vw, 300px"

// Get returns a copy of the named profile.
func Get(name string) (model.SizeProfile, error) {
	p, ok := profiles[name]
	if !ok {
		return model.SizeProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}

	return model.SizeProfile{Name: p.Name, Buckets: slices.Clone(p.Buckets)}, nil
}

// Names returns the known profile names in a stable order.
func Names() []string {
	return []string{Hero, Card, Process, Gallery}
}

// SizesHint returns the value of the <img sizes> attribute for a profile.
func SizesHint(name string) string {
	if hint, ok := sizesHints[name]; ok {
		return hint
	}
	return defaultSizesHint
}
