package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Aagat/aagat.com/builder/models"
)

// titleCaser is cached at package level to avoid recreation per call
var titleCaser = cases.Title(language.English)

// TitleCase renders a string in English title case for navigation labels.
func TitleCase(s string) string {
	return titleCaser.String(s)
}

// SortPages orders pages newest first, breaking date ties by title.
func SortPages(pages []models.PageMetadata) {
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].DateObj.Equal(pages[j].DateObj) {
			return pages[i].Title > pages[j].Title
		}
		return pages[i].DateObj.After(pages[j].DateObj)
	})
}

func GetString(m map[string]interface{}, k string) string {
	if v, ok := m[k]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// FormatDate renders a frontmatter date value for display. The raw meta map
// carries dates as time.Time or string depending on how YAML decoded them.
func FormatDate(v interface{}) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("Jan 2, 2006")
	case string:
		return d
	default:
		return ""
	}
}

// BuildURL joins the base URL and a site-relative output path.
func BuildURL(baseURL, relPath string) string {
	relPath = strings.TrimPrefix(relPath, "/")
	if baseURL == "" {
		return "/" + relPath
	}
	return baseURL + "/" + relPath
}

// NormalizePath normalizes a file path for consistent cache keys.
// Uses forward slashes, removes the content/ prefix, and lowercases.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "content/")
	return strings.ToLower(path)
}
