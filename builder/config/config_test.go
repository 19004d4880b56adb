package config

import (
	"os"
	"testing"
	"time"
)

// changeToTempDir changes to a temp directory and returns a cleanup function
func changeToTempDir(t *testing.T) func() {
	t.Helper()
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	return func() {
		if err := os.Chdir(originalDir); err != nil {
			t.Errorf("Failed to restore original directory: %v", err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Change to a temp directory to avoid loading the repo's site.yaml
	cleanup := changeToTempDir(t)
	defer cleanup()

	cfg := Load([]string{})

	if cfg.Title != "aagat.com" {
		t.Errorf("Title = %q, want %q", cfg.Title, "aagat.com")
	}
	if cfg.ContentDir == "" {
		t.Error("ContentDir should not be empty")
	}
	if cfg.OutputDir == "" {
		t.Error("OutputDir should not be empty")
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir should not be empty")
	}
	if cfg.BlogPrefix != "/blog/" {
		t.Errorf("BlogPrefix = %q, want %q", cfg.BlogPrefix, "/blog/")
	}
	if !cfg.Generators.Sitemap {
		t.Error("Sitemap generator should be enabled by default")
	}
	if !cfg.Generators.RSS {
		t.Error("RSS generator should be enabled by default")
	}
	if cfg.Compress {
		t.Error("Compress should be off by default")
	}
}

func TestLoad_SiteYAML(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	yaml := `title: "Aagat Acharya"
baseURL: "https://aagat.com/"
blogPrefix: "blog"
generators:
  sitemap: true
  rss: false
`
	if err := os.WriteFile("site.yaml", []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write site.yaml: %v", err)
	}

	cfg := Load([]string{})

	if cfg.Title != "Aagat Acharya" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Aagat Acharya")
	}
	if cfg.BaseURL != "https://aagat.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.BlogPrefix != "/blog/" {
		t.Errorf("BlogPrefix = %q, want normalized %q", cfg.BlogPrefix, "/blog/")
	}
	if cfg.Generators.RSS {
		t.Error("RSS generator should be disabled by site.yaml")
	}
}

func TestLoad_FlagOverrides(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	cfg := Load([]string{"-baseurl", "https://example.org/", "-compress", "-drafts", "-force"})

	if cfg.BaseURL != "https://example.org" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "https://example.org")
	}
	if !cfg.Compress {
		t.Error("Compress flag should be set")
	}
	if !cfg.IncludeDrafts {
		t.Error("IncludeDrafts flag should be set")
	}
	if !cfg.ForceRebuild {
		t.Error("ForceRebuild flag should be set")
	}
	if cfg.BuildVersion == 0 {
		t.Error("BuildVersion should be set")
	}
}

func TestValidate_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		check func(*Config) bool
	}{
		{
			name:  "workers clamped up",
			mod:   func(c *Config) { c.Workers = 0 },
			check: func(c *Config) bool { return c.Workers == 1 },
		},
		{
			name:  "workers clamped down",
			mod:   func(c *Config) { c.Workers = 500 },
			check: func(c *Config) bool { return c.Workers == 64 },
		},
		{
			name:  "debounce minimum",
			mod:   func(c *Config) { c.DebounceDuration = time.Millisecond },
			check: func(c *Config) bool { return c.DebounceDuration == 10*time.Millisecond },
		},
		{
			name:  "shutdown maximum",
			mod:   func(c *Config) { c.ShutdownTimeout = 5 * time.Minute },
			check: func(c *Config) bool { return c.ShutdownTimeout == 60*time.Second },
		},
		{
			name:  "blog prefix normalized",
			mod:   func(c *Config) { c.BlogPrefix = "writing" },
			check: func(c *Config) bool { return c.BlogPrefix == "/writing/" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(cfg)
			cfg.validate()
			if !tt.check(cfg) {
				t.Errorf("validate() did not clamp as expected: %+v", cfg)
			}
		})
	}
}
