package generators

import (
	"encoding/xml"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Aagat/aagat.com/builder/config"
	"github.com/Aagat/aagat.com/builder/models"
)

// GenerateSitemap writes sitemap.xml covering the site root and every
// rendered page. Blog posts carry their publish date as LastMod.
func GenerateSitemap(fs afero.Fs, cfg *config.Config, pages []models.PageMetadata) error {
	var urls []models.Url
	urls = append(urls, models.Url{Loc: cfg.BaseURL + "/", LastMod: time.Now().Format("2006-01-02")})
	for _, p := range pages {
		u := models.Url{Loc: p.Link}
		if !p.DateObj.IsZero() {
			u.LastMod = p.DateObj.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	output, err := xml.MarshalIndent(models.UrlSet{Urls: urls}, "  ", "    ")
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.OutputDir, "sitemap.xml")
	return afero.WriteFile(fs, path, []byte(xml.Header+string(output)), 0644)
}
