package generators

import (
	"encoding/xml"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Aagat/aagat.com/builder/config"
	"github.com/Aagat/aagat.com/builder/models"
)

// GenerateRSS writes an RSS 2.0 feed for the blog posts to rss.xml in the
// output directory. Posts are expected to be sorted newest first.
func GenerateRSS(fs afero.Fs, cfg *config.Config, posts []models.PageMetadata) error {
	var items []models.Item
	for _, p := range posts {
		items = append(items, models.Item{
			Title:       p.Title,
			Link:        p.Link,
			Description: p.Description,
			PubDate:     p.DateObj.Format(time.RFC1123Z),
			Guid:        p.Link,
		})
	}
	rss := models.Rss{
		Version: "2.0",
		Channel: models.Channel{
			Title:       cfg.Title,
			Link:        cfg.BaseURL,
			Description: cfg.Description,
			Items:       items,
		},
	}
	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.OutputDir, "rss.xml")
	return afero.WriteFile(fs, path, []byte(xml.Header+string(output)), 0644)
}
