// Package sitemap builds the sitemaps.org XML document of the site from the
// static page list and the recipes JSON document.
package sitemap

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/yourwellnessgirly/site-tools/internal/config"
	"github.com/yourwellnessgirly/site-tools/internal/model"
)

const (
	Namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

var (
	ErrMissingSlug     = errors.New("recipe is missing slug")
	ErrMissingRecipes  = errors.New(`document has no "recipes" array`)
	ErrInvalidPriority = errors.New("priority must be between 0.0 and 1.0")
	ErrTrailingData    = errors.New("recipes document has data after the top-level value")
)

var sitemapTemplate = template.Must(template.Must(template.New("sitemap").Funcs(template.FuncMap{
	"xml": escape,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="{{ .Namespace }}">
  <!-- Main pages -->
{{- range .Static }}
{{ template "url" . }}
{{- end }}

  <!-- Recipe pages -->
{{- range .Recipes }}
{{ template "url" . }}
{{- end }}
</urlset>
`)).New("url").Parse(`  <url>
    <loc>{{ xml .Loc }}</loc>
    <lastmod>{{ xml .LastMod }}</lastmod>
    <changefreq>{{ xml .ChangeFreq }}</changefreq>
    <priority>{{ .Priority }}</priority>
  </url>`))

type urlItem struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   string
}

type templateData struct {
	Namespace string
	Static    []urlItem
	Recipes   []urlItem
}

func escape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func firstNonzero[T comparable](values ...T) T {
	zero := *new(T)
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

// ParseRecipes decodes the recipes JSON document. Every recipe must carry a slug.
func ParseRecipes(r io.Reader) ([]model.RecipeRecord, error) {
	var doc struct {
		Recipes *[]model.RecipeRecord `json:"recipes"`
	}

	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, ErrTrailingData
	}
	if doc.Recipes == nil {
		return nil, ErrMissingRecipes
	}

	recipes := *doc.Recipes
	for i, rec := range recipes {
		if strings.TrimSpace(rec.Slug) == "" {
			return nil, fmt.Errorf("recipe %d: %w", i, ErrMissingSlug)
		}
	}

	return recipes, nil
}

// StaticEntries validates the configured static pages.
func StaticEntries(pages []config.StaticPage) ([]model.SitemapEntry, error) {
	entries := make([]model.SitemapEntry, 0, len(pages))

	for _, p := range pages {
		freq, err := model.ParseChangeFreq(p.ChangeFreq)
		if err != nil {
			return nil, fmt.Errorf("static page %s: %w", p.Path, err)
		}
		if p.Priority < 0 || p.Priority > 1 {
			return nil, fmt.Errorf("static page %s: %w", p.Path, ErrInvalidPriority)
		}

		entries = append(entries, model.SitemapEntry{
			Path:       p.Path,
			LastMod:    p.LastMod,
			ChangeFreq: freq,
			Priority:   p.Priority,
		})
	}

	return entries, nil
}

// Options configures a Builder.
type Options struct {
	BaseURL          string
	StaticPages      []model.SitemapEntry // an empty LastMod means the run date
	RecipeChangeFreq model.ChangeFreq
	RecipePriority   float64
	Now              func() time.Time
}

// Builder turns recipes into sitemap entries and renders the document.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder. A nil Now uses time.Now.
func NewBuilder(opts Options) *Builder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	return &Builder{opts: opts}
}

// RunDate is the lastmod used for entries without a date of their own.
func (b *Builder) RunDate() string {
	return b.opts.Now().Format(dateLayout)
}

// LastModified picks the effective lastmod of a recipe:
// dateModified, then datePublished, then the run date.
func LastModified(r model.RecipeRecord, runDate string) string {
	return firstNonzero(strings.TrimSpace(r.DateModified), strings.TrimSpace(r.DatePublished), runDate)
}

// Static returns the static entries with their dates resolved.
func (b *Builder) Static() []model.SitemapEntry {
	runDate := b.RunDate()

	entries := make([]model.SitemapEntry, 0, len(b.opts.StaticPages))
	for _, p := range b.opts.StaticPages {
		p.LastMod = firstNonzero(p.LastMod, runDate)
		entries = append(entries, p)
	}

	return entries
}

// Recipes returns one entry per recipe, in input order.
func (b *Builder) Recipes(recipes []model.RecipeRecord) ([]model.SitemapEntry, error) {
	runDate := b.RunDate()

	entries := make([]model.SitemapEntry, 0, len(recipes))
	for i, r := range recipes {
		slug := strings.Trim(strings.TrimSpace(r.Slug), "/")
		if slug == "" {
			return nil, fmt.Errorf("recipe %d: %w", i, ErrMissingSlug)
		}

		entries = append(entries, model.SitemapEntry{
			Path:       "/recipes/" + slug,
			LastMod:    LastModified(r, runDate),
			ChangeFreq: b.opts.RecipeChangeFreq,
			Priority:   b.opts.RecipePriority,
		})
	}

	return entries, nil
}

// Render writes the sitemap document for the given entries.
func (b *Builder) Render(w io.Writer, static, recipes []model.SitemapEntry) error {
	data := templateData{
		Namespace: Namespace,
		Static:    b.items(static),
		Recipes:   b.items(recipes),
	}

	if err := sitemapTemplate.ExecuteTemplate(w, "sitemap", data); err != nil {
		return fmt.Errorf("render sitemap: %w", err)
	}

	return nil
}

func (b *Builder) items(entries []model.SitemapEntry) []urlItem {
	items := make([]urlItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, urlItem{
			Loc:        b.opts.BaseURL + e.Path,
			LastMod:    e.LastMod,
			ChangeFreq: string(e.ChangeFreq),
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		})
	}
	return items
}
