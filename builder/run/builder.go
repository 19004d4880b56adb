// Package run drives the site build: content parsing, caching, rendering
// and metadata generation.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"

	"github.com/Aagat/aagat.com/builder/cache"
	"github.com/Aagat/aagat.com/builder/config"
	mdparser "github.com/Aagat/aagat.com/builder/parser"
	"github.com/Aagat/aagat.com/builder/renderer"
	"github.com/Aagat/aagat.com/builder/utils"
)

// Builder maintains the state for site builds
type Builder struct {
	cfg    *config.Config
	md     goldmark.Markdown
	rnd    *renderer.Renderer
	cache  *cache.Manager
	logger *slog.Logger

	SourceFs afero.Fs
	DestFs   afero.Fs
}

// NewBuilder wires the parser, renderer and cache for the given config.
func NewBuilder(cfg *config.Config, sourceFs, destFs afero.Fs, logger *slog.Logger) (*Builder, error) {
	utils.InitMinifier()

	rnd, err := renderer.New(sourceFs, destFs, cfg.TemplateDir, cfg.Compress, logger)
	if err != nil {
		return nil, err
	}

	mgr, err := cache.Open(cfg.CacheDir, cfg.CacheDBTimeout)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	// A changed base URL invalidates every cached link.
	cacheID := cache.HashString(cfg.BaseURL)
	stale, err := mgr.VerifyCacheID(cacheID)
	if err == nil && stale {
		logger.Info("Cache identity changed, clearing", "dir", cfg.CacheDir)
		if err = mgr.Clear(); err == nil {
			err = mgr.SetCacheID(cacheID)
		}
	}
	if err != nil {
		_ = mgr.Close()
		return nil, err
	}

	return &Builder{
		cfg:      cfg,
		md:       mdparser.New(cfg.BaseURL),
		rnd:      rnd,
		cache:    mgr,
		logger:   logger,
		SourceFs: sourceFs,
		DestFs:   destFs,
	}, nil
}

// Config returns the builder's configuration
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Close releases the cache database.
func (b *Builder) Close() error {
	return b.cache.Close()
}

// Run executes a full build from the command line.
func Run(args []string) error {
	cfg := config.Load(args)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	osFs := afero.NewOsFs()
	b, err := NewBuilder(cfg, osFs, osFs, logger)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	return b.Build(context.Background())
}
