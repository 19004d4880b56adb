// defines the data structures shared by the build pipeline and generators
package models

import (
	"encoding/xml"
	"html/template"
	"time"
)

// --- TOC Structure ---
type TOCEntry struct {
	ID    string
	Text  string
	Level int
}

// PageMetadata represents the frontmatter and derived data of a markdown page.
type PageMetadata struct {
	Title       string
	Layout      string
	Link        string
	Description string
	Keywords    []string
	ReadingTime int
	Draft       bool
	IsBlog      bool
	DateObj     time.Time
}

// PageData is the context passed to HTML templates.
type PageData struct {
	Title        string
	TabTitle     string
	Description  string
	Keywords     string
	BaseURL      string
	Content      template.HTML
	Meta         map[string]interface{}
	IsIndex      bool
	Pages        []PageMetadata
	BlogPosts    []PageMetadata
	BuildVersion int64
	Permalink    string
	TOC          []TOCEntry
	Assets       map[string]string

	// Config-driven fields (Author, Menu, etc.)
	Config interface{}
}

// --- Sitemap Structures ---

type UrlSet struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// --- RSS Structures ---

type Rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Items       []Item `xml:"item"`
}

type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Guid        string `xml:"guid"`
}
