package model

import "fmt"

// ChangeFreq is the sitemap protocol change-frequency hint.
type ChangeFreq string

const (
	ChangeAlways  ChangeFreq = "always"
	ChangeHourly  ChangeFreq = "hourly"
	ChangeDaily   ChangeFreq = "daily"
	ChangeWeekly  ChangeFreq = "weekly"
	ChangeMonthly ChangeFreq = "monthly"
	ChangeYearly  ChangeFreq = "yearly"
	ChangeNever   ChangeFreq = "never"
)

// ParseChangeFreq validates s against the sitemap protocol values.
func ParseChangeFreq(s string) (ChangeFreq, error) {
	switch f := ChangeFreq(s); f {
	case ChangeAlways, ChangeHourly, ChangeDaily, ChangeWeekly, ChangeMonthly, ChangeYearly, ChangeNever:
		return f, nil
	default:
		return "", fmt.Errorf("invalid changefreq %q", s)
	}
}

// SitemapEntry is one <url> of the sitemap: a static page or a recipe.
type SitemapEntry struct {
	Path       string     // site-relative path, e.g. "/recipes/mango-bites"
	LastMod    string     // YYYY-MM-DD
	ChangeFreq ChangeFreq
	Priority   float64
}
