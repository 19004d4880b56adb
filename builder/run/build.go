package run

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark/parser"

	"github.com/Aagat/aagat.com/builder/cache"
	"github.com/Aagat/aagat.com/builder/frontmatter"
	"github.com/Aagat/aagat.com/builder/generators"
	"github.com/Aagat/aagat.com/builder/metrics"
	"github.com/Aagat/aagat.com/builder/models"
	mdparser "github.com/Aagat/aagat.com/builder/parser"
	"github.com/Aagat/aagat.com/builder/utils"
)

// pageResult carries one processed content file out of the worker pool.
type pageResult struct {
	path     string
	relPath  string // output-relative html path
	meta     *cache.PageMeta
	page     models.PageMetadata
	html     []byte
	toc      []models.TOCEntry
	rawMeta  map[string]interface{}
	isIndex  bool
	is404    bool
	skipped  bool
	cacheHit bool
	err      error
}

// Build executes a single build pass over the content tree.
func (b *Builder) Build(ctx context.Context) error {
	cfg := b.cfg
	m := metrics.NewBuildMetrics()
	fmt.Printf("🔨 Building site... | Parallel Workers: %d\n", cfg.Workers)

	// Static assets first so hashed names are available to templates.
	assetStart := time.Now()
	if ok, _ := afero.DirExists(b.SourceFs, cfg.StaticDir); ok {
		staticOut := filepath.Join(cfg.OutputDir, "static")
		if err := utils.CopyStatic(b.SourceFs, b.DestFs, cfg.StaticDir, staticOut); err != nil {
			return fmt.Errorf("copying static files: %w", err)
		}
		assets, err := utils.BuildAssets(b.SourceFs, b.DestFs, cfg.StaticDir, staticOut, cfg.Compress)
		if err != nil {
			return fmt.Errorf("building assets: %w", err)
		}
		b.rnd.SetAssets(assets)
	}
	m.AssetTime = time.Since(assetStart)

	files, err := b.contentFiles()
	if err != nil {
		return fmt.Errorf("walking %s: %w", cfg.ContentDir, err)
	}
	fmt.Printf("📝 Processing %d pages...\n", len(files))

	parseStart := time.Now()
	results := make([]*pageResult, 0, len(files))
	var mu sync.Mutex

	pool := utils.NewWorkerPool(ctx, cfg.Workers, func(path string) {
		res := b.processPage(path)
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	})
	pool.Start()
	for _, f := range files {
		pool.Submit(f)
	}
	pool.Stop()
	m.ParseTime = time.Since(parseStart)

	if err := ctx.Err(); err != nil {
		return err
	}

	// Deterministic ordering regardless of worker scheduling.
	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

	renderStart := time.Now()
	var (
		blogPosts []models.PageMetadata
		sitePages []models.PageMetadata
		indexes   []*pageResult
		commit    []*cache.PageMeta
	)
	for _, res := range results {
		if res.err != nil {
			return fmt.Errorf("%s: %w", res.path, res.err)
		}
		if res.skipped {
			fmt.Printf("⏩ Skipping draft: %s\n", res.path)
			m.DraftsSkipped++
			continue
		}
		if res.cacheHit {
			m.CacheHits++
		} else {
			m.CacheMisses++
		}
		m.PagesProcessed++
		commit = append(commit, res.meta)

		if res.isIndex {
			// Rendered below, once the post list is complete.
			indexes = append(indexes, res)
			continue
		}
		if err := b.renderPage(res, nil); err != nil {
			return err
		}
		m.FilesWritten++
		if res.is404 {
			continue
		}
		sitePages = append(sitePages, res.page)
		if res.page.IsBlog {
			blogPosts = append(blogPosts, res.page)
			m.BlogPosts++
		}
	}

	utils.SortPages(blogPosts)
	utils.SortPages(sitePages)

	for _, res := range indexes {
		if err := b.renderPage(res, blogPosts); err != nil {
			return err
		}
		m.FilesWritten++
	}
	m.RenderTime = time.Since(renderStart)

	if err := b.cache.BatchCommit(commit); err != nil {
		return fmt.Errorf("committing cache: %w", err)
	}
	if _, err := b.cache.IncrementBuildCount(); err != nil {
		b.logger.Warn("Failed to bump build counter", "error", err)
	}

	if cfg.Generators.Sitemap {
		if err := generators.GenerateSitemap(b.DestFs, cfg, sitePages); err != nil {
			fmt.Printf("⚠️ Failed to write sitemap.xml: %v\n", err)
		}
	}
	if cfg.Generators.RSS {
		if err := generators.GenerateRSS(b.DestFs, cfg, blogPosts); err != nil {
			fmt.Printf("⚠️ Failed to write rss.xml: %v\n", err)
		}
	}

	m.RecordEnd()
	m.Print()
	fmt.Println("✅ Build Complete.")
	return nil
}

// contentFiles lists every markdown source under the content directory.
func (b *Builder) contentFiles() ([]string, error) {
	var files []string
	err := afero.Walk(b.SourceFs, b.cfg.ContentDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		files = append(files, filepath.ToSlash(path))
		return nil
	})
	sort.Strings(files)
	return files, err
}

func (b *Builder) processPage(path string) *pageResult {
	res := &pageResult{path: path}

	info, err := b.SourceFs.Stat(path)
	if err != nil {
		res.err = err
		return res
	}
	source, err := afero.ReadFile(b.SourceFs, path)
	if err != nil {
		res.err = err
		return res
	}

	relPath := utils.NormalizePath(path)
	htmlRel := strings.TrimSuffix(relPath, ".md") + ".html"
	res.relPath = htmlRel
	res.isIndex = htmlRel == "index.html"
	res.is404 = strings.HasSuffix(htmlRel, "/404.html") || htmlRel == "404.html"

	fm, rawMeta, body, err := frontmatter.Parse(source)
	if err != nil {
		res.err = err
		return res
	}
	if fm.Draft && !b.cfg.IncludeDrafts {
		res.skipped = true
		return res
	}

	contentHash := cache.HashContent(source)

	var html []byte
	var toc []models.TOCEntry

	if cached, err := b.cache.GetPageByPath(path); err == nil && cached != nil &&
		!b.cfg.ForceRebuild && cached.ContentHash == contentHash {
		if html, err = b.cache.GetHTMLContent(cached); err == nil && len(html) > 0 {
			res.cacheHit = true
			toc = cached.TOC
		}
	}

	if !res.cacheHit {
		pctx := parser.NewContext()
		var buf bytes.Buffer
		if err := b.md.Convert(source, &buf, parser.WithContext(pctx)); err != nil {
			res.err = fmt.Errorf("rendering markdown: %w", err)
			return res
		}
		html = buf.Bytes()
		toc = mdparser.GetTOC(pctx)
	}

	words := len(strings.Fields(string(body)))
	page := models.PageMetadata{
		Title:       fm.Title,
		Layout:      fm.Layout,
		Link:        utils.BuildURL(b.cfg.BaseURL, htmlRel),
		Description: fm.Description,
		Keywords:    fm.KeywordList(),
		ReadingTime: int(math.Ceil(float64(words) / 120.0)),
		Draft:       fm.Draft,
		IsBlog:      strings.HasPrefix("/"+htmlRel, b.cfg.BlogPrefix),
		DateObj:     fm.Date,
	}

	meta := &cache.PageMeta{
		PageID:      cache.GeneratePageID(relPath),
		Path:        path,
		ModTime:     info.ModTime().Unix(),
		ContentHash: contentHash,
		Title:       fm.Title,
		Layout:      fm.Layout,
		Description: fm.Description,
		Keywords:    page.Keywords,
		Date:        fm.Date,
		Draft:       fm.Draft,
		ReadingTime: page.ReadingTime,
		Link:        page.Link,
		Meta:        rawMeta,
		TOC:         toc,
	}
	if err := b.cache.StoreHTMLForPage(meta, html); err != nil {
		res.err = err
		return res
	}

	res.meta = meta
	res.page = page
	res.html = html
	res.toc = toc
	res.rawMeta = rawMeta
	return res
}

func (b *Builder) renderPage(res *pageResult, blogPosts []models.PageMetadata) error {
	data := models.PageData{
		Title:        res.page.Title,
		TabTitle:     res.page.Title + " | " + b.cfg.Title,
		Description:  res.page.Description,
		Keywords:     strings.Join(res.page.Keywords, ", "),
		BaseURL:      b.cfg.BaseURL,
		Content:      template.HTML(res.html),
		Meta:         res.rawMeta,
		BuildVersion: b.cfg.BuildVersion,
		Permalink:    res.page.Link,
		TOC:          res.toc,
		Config:       b.cfg,
	}
	if res.isIndex {
		data.IsIndex = true
		data.BlogPosts = blogPosts
		data.TabTitle = b.cfg.Title
	}

	dest := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(res.relPath))
	return b.rnd.RenderPage(dest, res.page.Layout, data)
}
