package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is where the tools look for a config file when none is given.
const DefaultPath = "./config/config.yml"

// Config holds the configuration shared by all site tools.
type Config struct {
	Converter  Converter  `mapstructure:"converter"`
	Responsive Responsive `mapstructure:"responsive"`
	Sitemap    Sitemap    `mapstructure:"sitemap"`
	Publish    Publish    `mapstructure:"publish"`
	Retry      Retry      `mapstructure:"retry"`
}

// Converter holds the JPG to WebP converter settings.
type Converter struct {
	Dir        string   `mapstructure:"dir"`        // Directory scanned for source images
	Quality    int      `mapstructure:"quality"`    // WebP quality
	Extensions []string `mapstructure:"extensions"` // Source extensions, matched case-insensitively
}

// Responsive holds the responsive image generator settings.
type Responsive struct {
	OutputRoot  string `mapstructure:"output_root"`  // Root under which <recipe>/ directories are written
	URLPrefix   string `mapstructure:"url_prefix"`   // Prefix used for srcset URLs in markup
	JPEGQuality int    `mapstructure:"jpeg_quality"` // JPEG quality of every variant
	WebPQuality int    `mapstructure:"webp_quality"` // WebP quality of every variant
}

// Sitemap holds the sitemap builder settings.
type Sitemap struct {
	BaseURL          string       `mapstructure:"base_url"`
	RecipesPath      string       `mapstructure:"recipes_path"`
	OutputPath       string       `mapstructure:"output_path"`
	RecipeChangeFreq string       `mapstructure:"recipe_changefreq"`
	RecipePriority   float64      `mapstructure:"recipe_priority"`
	StaticPages      []StaticPage `mapstructure:"static_pages"`
}

// StaticPage is a fixed, non-recipe page listed in the sitemap.
// An empty LastMod means the run date.
type StaticPage struct {
	Path       string  `mapstructure:"path"`
	ChangeFreq string  `mapstructure:"changefreq"`
	Priority   float64 `mapstructure:"priority"`
	LastMod    string  `mapstructure:"lastmod"`
}

// Publish holds the optional S3-compatible mirror for generated variants.
type Publish struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"` // Object key prefix, e.g. "images/recipes"
}

// Retry defines retry policy configuration.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("converter.dir", "images/recipes")
	v.SetDefault("converter.quality", 85)
	v.SetDefault("converter.extensions", []string{".jpg"})

	v.SetDefault("responsive.output_root", "images/recipes")
	v.SetDefault("responsive.url_prefix", "../images/recipes")
	v.SetDefault("responsive.jpeg_quality", 85)
	v.SetDefault("responsive.webp_quality", 80)

	v.SetDefault("sitemap.base_url", "https://yourwellnessgirly.com")
	v.SetDefault("sitemap.recipes_path", "data/recipes.json")
	v.SetDefault("sitemap.output_path", "sitemap.xml")
	v.SetDefault("sitemap.recipe_changefreq", "monthly")
	v.SetDefault("sitemap.recipe_priority", 0.8)
	v.SetDefault("sitemap.static_pages", []map[string]any{
		{"path": "/", "changefreq": "weekly", "priority": 1.0},
		{"path": "/recipe-index", "changefreq": "weekly", "priority": 0.9},
		{"path": "/about", "changefreq": "monthly", "priority": 0.8, "lastmod": "2025-01-10"},
		{"path": "/work-with-me", "changefreq": "monthly", "priority": 0.7, "lastmod": "2025-01-10"},
		{"path": "/contact", "changefreq": "monthly", "priority": 0.6, "lastmod": "2025-01-10"},
	})

	v.SetDefault("publish.enabled", false)
	v.SetDefault("publish.prefix", "images/recipes")

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", time.Second)
	v.SetDefault("retry.backoff", 2.0)
}

// bindEnv binds environment variables to Viper keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"sitemap.base_url":   "SITE_BASE_URL",
		"publish.endpoint":   "MINIO_ENDPOINT",
		"publish.access_key": "MINIO_ACCESS_KEY",
		"publish.secret_key": "MINIO_SECRET_KEY",
		"publish.bucket":     "MINIO_BUCKET",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	return nil
}

// Load reads the configuration from path on top of the built-in defaults.
// A missing file is not an error: the defaults alone describe the site.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
