package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Converter.Quality != 85 {
		t.Errorf("Converter.Quality = %d, want 85", cfg.Converter.Quality)
	}
	if len(cfg.Converter.Extensions) != 1 || cfg.Converter.Extensions[0] != ".jpg" {
		t.Errorf("Converter.Extensions = %v, want [.jpg]", cfg.Converter.Extensions)
	}
	if cfg.Responsive.JPEGQuality != 85 || cfg.Responsive.WebPQuality != 80 {
		t.Errorf("Responsive qualities = %d/%d, want 85/80", cfg.Responsive.JPEGQuality, cfg.Responsive.WebPQuality)
	}
	if cfg.Sitemap.RecipePriority != 0.8 {
		t.Errorf("Sitemap.RecipePriority = %v, want 0.8", cfg.Sitemap.RecipePriority)
	}
	if cfg.Retry.Delay != time.Second {
		t.Errorf("Retry.Delay = %v, want 1s", cfg.Retry.Delay)
	}

	wantPaths := []string{"/", "/recipe-index", "/about", "/work-with-me", "/contact"}
	if len(cfg.Sitemap.StaticPages) != len(wantPaths) {
		t.Fatalf("got %d static pages, want %d", len(cfg.Sitemap.StaticPages), len(wantPaths))
	}
	for i, want := range wantPaths {
		if got := cfg.Sitemap.StaticPages[i].Path; got != want {
			t.Errorf("StaticPages[%d].Path = %q, want %q", i, got, want)
		}
	}
	if cfg.Sitemap.StaticPages[0].LastMod != "" {
		t.Errorf("home page lastmod = %q, want empty (run date)", cfg.Sitemap.StaticPages[0].LastMod)
	}
	if cfg.Sitemap.StaticPages[2].LastMod != "2025-01-10" {
		t.Errorf("about page lastmod = %q, want 2025-01-10", cfg.Sitemap.StaticPages[2].LastMod)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
converter:
  dir: ./photos
  quality: 70
responsive:
  output_root: ./out
sitemap:
  base_url: https://example.com
  static_pages:
    - path: /
      changefreq: daily
      priority: 1.0
retry:
  attempts: 5
  delay: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Converter.Dir != "./photos" || cfg.Converter.Quality != 70 {
		t.Errorf("Converter = %+v", cfg.Converter)
	}
	if cfg.Responsive.OutputRoot != "./out" {
		t.Errorf("Responsive.OutputRoot = %q", cfg.Responsive.OutputRoot)
	}
	if cfg.Responsive.WebPQuality != 80 {
		t.Errorf("Responsive.WebPQuality = %d, want default 80", cfg.Responsive.WebPQuality)
	}
	if cfg.Sitemap.BaseURL != "https://example.com" {
		t.Errorf("Sitemap.BaseURL = %q", cfg.Sitemap.BaseURL)
	}
	if len(cfg.Sitemap.StaticPages) != 1 || cfg.Sitemap.StaticPages[0].ChangeFreq != "daily" {
		t.Errorf("StaticPages = %+v", cfg.Sitemap.StaticPages)
	}
	if cfg.Retry.Attempts != 5 || cfg.Retry.Delay != 250*time.Millisecond {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SITE_BASE_URL", "https://staging.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sitemap.BaseURL != "https://staging.example.com" {
		t.Errorf("Sitemap.BaseURL = %q, want env value", cfg.Sitemap.BaseURL)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("converter: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for malformed YAML")
	}
}
