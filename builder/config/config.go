// Package config loads site.yaml and merges command-line flag overrides.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthorConfig identifies the site author in templates and feeds.
type AuthorConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	URL   string `yaml:"url"`
}

// GeneratorsConfig toggles the auxiliary output generators.
type GeneratorsConfig struct {
	Sitemap bool `yaml:"sitemap"`
	RSS     bool `yaml:"rss"`
}

// Config holds all site and build settings.
type Config struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	BaseURL     string       `yaml:"baseURL"`
	Author      AuthorConfig `yaml:"author"`
	Language    string       `yaml:"language"`

	ContentDir  string `yaml:"contentDir"`
	OutputDir   string `yaml:"outputDir"`
	TemplateDir string `yaml:"templateDir"`
	StaticDir   string `yaml:"staticDir"`
	CacheDir    string `yaml:"cacheDir"`

	// BlogPrefix is the URL prefix under which missing pages fall back to
	// the rendered blog 404 document instead of the site-wide one.
	BlogPrefix string `yaml:"blogPrefix"`

	Generators GeneratorsConfig `yaml:"generators"`

	// Tunables
	Workers          int           `yaml:"workers"`
	DebounceDuration time.Duration `yaml:"debounceDuration"`
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout"`
	CacheDBTimeout   time.Duration `yaml:"cacheDBTimeout"`

	// Flag-driven, not persisted in site.yaml
	Compress      bool  `yaml:"-"`
	IncludeDrafts bool  `yaml:"-"`
	ForceRebuild  bool  `yaml:"-"`
	BuildVersion  int64 `yaml:"-"`
}

// Default returns the baseline configuration before site.yaml is applied.
func Default() *Config {
	return &Config{
		Title:       "aagat.com",
		Description: "Personal website and blog",
		Language:    "en",

		ContentDir:  "content",
		OutputDir:   "public",
		TemplateDir: "templates",
		StaticDir:   "static",
		CacheDir:    ".site-cache",

		BlogPrefix: "/blog/",

		Generators: GeneratorsConfig{
			Sitemap: true,
			RSS:     true,
		},

		Workers:          12,
		DebounceDuration: 500 * time.Millisecond,
		ShutdownTimeout:  5 * time.Second,
		CacheDBTimeout:   10 * time.Second,
	}
}

// Load reads site.yaml (if present) and applies flag overrides from args.
func Load(args []string) *Config {
	cfg := Default()

	if data, err := os.ReadFile("site.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			fmt.Printf("⚠️ Failed to parse site.yaml, using defaults: %v\n", err)
			cfg = Default()
		}
	}

	fs := flag.NewFlagSet("build", flag.ExitOnError)
	baseURL := fs.String("baseurl", cfg.BaseURL, "Base URL for absolute links")
	compress := fs.Bool("compress", false, "Enable HTML/CSS/JS minification")
	drafts := fs.Bool("drafts", false, "Include draft pages")
	force := fs.Bool("force", false, "Ignore the build cache and rebuild everything")

	// Serve flags pass through without erroring here.
	_ = fs.String("host", "", "Bind host (handled by serve)")
	_ = fs.String("port", "", "Bind port (handled by serve)")
	_ = fs.Parse(args)

	cfg.BaseURL = strings.TrimSuffix(*baseURL, "/")
	cfg.Compress = *compress
	cfg.IncludeDrafts = *drafts
	cfg.ForceRebuild = *force
	cfg.BuildVersion = time.Now().Unix()

	cfg.validate()
	return cfg
}

// validate clamps tunables to sane bounds.
func (c *Config) validate() {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Workers > 64 {
		c.Workers = 64
	}
	if c.DebounceDuration < 10*time.Millisecond {
		c.DebounceDuration = 10 * time.Millisecond
	}
	if c.DebounceDuration > 5*time.Second {
		c.DebounceDuration = 5 * time.Second
	}
	if c.ShutdownTimeout < time.Second {
		c.ShutdownTimeout = time.Second
	}
	if c.ShutdownTimeout > 60*time.Second {
		c.ShutdownTimeout = 60 * time.Second
	}
	if c.CacheDBTimeout < time.Second {
		c.CacheDBTimeout = time.Second
	}
	if !strings.HasPrefix(c.BlogPrefix, "/") {
		c.BlogPrefix = "/" + c.BlogPrefix
	}
	if !strings.HasSuffix(c.BlogPrefix, "/") {
		c.BlogPrefix += "/"
	}
}
