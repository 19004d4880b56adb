package cache

// BoltDB bucket names
const (
	BucketPages = "pages" // {PageID} -> PageMeta
	BucketPaths = "paths" // {filepath} -> PageID
	BucketMeta  = "meta"  // schema_version, cache_id
	BucketStats = "stats" // build_count, last_build
)

// Meta keys
const (
	KeySchemaVersion = "schema_version"
	KeyCacheID       = "cache_id"
	KeyBuildCount    = "build_count"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketPages,
		BucketPaths,
		BucketMeta,
		BucketStats,
	}
}
