// Package cache provides a BoltDB + content-addressed filesystem cache for
// incremental site builds with crash-safe, deterministic state.
package cache

import (
	"encoding/hex"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/Aagat/aagat.com/builder/models"
)

// PageMeta stores metadata about a cached page
type PageMeta struct {
	PageID      string                 `msgpack:"page_id"`
	Path        string                 `msgpack:"path"`
	ModTime     int64                  `msgpack:"mod_time"`
	ContentHash string                 `msgpack:"content_hash"`
	HTMLHash    string                 `msgpack:"html_hash,omitempty"`   // Only for large pages
	InlineHTML  []byte                 `msgpack:"inline_html,omitempty"` // < 32KB pages stored inline
	Title       string                 `msgpack:"title"`
	Layout      string                 `msgpack:"layout"`
	Description string                 `msgpack:"description"`
	Keywords    []string               `msgpack:"keywords"`
	Date        time.Time              `msgpack:"date"`
	Draft       bool                   `msgpack:"draft"`
	ReadingTime int                    `msgpack:"reading_time"`
	Link        string                 `msgpack:"link"`
	Meta        map[string]interface{} `msgpack:"meta"`
	TOC         []models.TOCEntry      `msgpack:"toc"`
}

// Stats holds build counters persisted across runs
type Stats struct {
	TotalPages    int   `msgpack:"total_pages"`
	StoreBytes    int64 `msgpack:"store_bytes"`
	BuildCount    int   `msgpack:"build_count"`
	SchemaVersion int   `msgpack:"schema_version"`
	LastBuildTime int64 `msgpack:"last_build_time"`
}

// CompressionType indicates how an artifact is stored
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionZstdFast
	CompressionZstdLevel3
)

// Storage thresholds
const (
	InlineHTMLThreshold = 32 * 1024  // pages smaller than this are stored inline in meta.db
	RawThreshold        = 8 * 1024   // < 8KB stored raw in the content store
	FastZstdMax         = 128 * 1024 // 8KB-128KB use zstd fast
	SchemaVersion       = 1
)

// HashContent computes BLAKE3 hash of content and returns hex string
func HashContent(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashString computes BLAKE3 hash of a string
func HashString(s string) string {
	return HashContent([]byte(s))
}

// GeneratePageID creates a stable PageID from a normalized path
func GeneratePageID(normalizedPath string) string {
	return HashString(normalizedPath)
}

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
