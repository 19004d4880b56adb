// Handles template loading and page file creation
package renderer

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Aagat/aagat.com/builder/models"
	"github.com/Aagat/aagat.com/builder/utils"
)

// DefaultLayout is used when a page's frontmatter names no layout.
const DefaultLayout = "page"

type Renderer struct {
	layouts  map[string]*template.Template
	assets   map[string]string
	destFs   afero.Fs
	logger   *slog.Logger
	compress bool
}

// New loads every template under templateDir. Each file is a standalone
// layout selected by the frontmatter layout key.
func New(srcFs, destFs afero.Fs, templateDir string, compress bool, logger *slog.Logger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"lower":     strings.ToLower,
		"hasPrefix": strings.HasPrefix,
		"now":       time.Now,
		"title":     utils.TitleCase,
		"date":      utils.FormatDate,
	}

	layouts := make(map[string]*template.Template)
	err := afero.Walk(srcFs, templateDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}
		src, err := afero.ReadFile(srcFs, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), ".html")
		tmpl, err := template.New(name + ".html").Funcs(funcMap).Parse(string(src))
		if err != nil {
			return fmt.Errorf("template %s: %w", path, err)
		}
		layouts[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, ok := layouts[DefaultLayout]; !ok {
		return nil, fmt.Errorf("missing required template %s/%s.html", templateDir, DefaultLayout)
	}

	return &Renderer{
		layouts:  layouts,
		destFs:   destFs,
		logger:   logger,
		compress: compress,
	}, nil
}

func (r *Renderer) SetAssets(assets map[string]string) {
	r.assets = assets
}

// Layout resolves a layout name, falling back to the default.
func (r *Renderer) Layout(name string) *template.Template {
	if tmpl, ok := r.layouts[name]; ok {
		return tmpl
	}
	if name != "" {
		r.logger.Warn("Unknown layout, falling back", "layout", name, "fallback", DefaultLayout)
	}
	return r.layouts[DefaultLayout]
}

// RenderPage writes one page through its layout template.
func (r *Renderer) RenderPage(path, layout string, data models.PageData) error {
	data.Assets = r.assets

	if err := r.destFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := r.destFs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var w io.Writer = f
	if r.compress {
		mw := utils.Minifier.Writer("text/html", f)
		defer func() { _ = mw.Close() }()
		w = mw
	}

	if err := r.Layout(layout).Execute(w, data); err != nil {
		return fmt.Errorf("failed to render %s with layout %s: %w", path, layout, err)
	}
	return nil
}
