package model

// RecipeRecord is one entry of the recipes JSON document.
// Only the fields the sitemap needs are decoded; everything else is ignored.
type RecipeRecord struct {
	Slug          string `json:"slug"`
	DateModified  string `json:"dateModified,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
}
