package cache

import (
	"bytes"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(t.TempDir(), time.Second)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func samplePageMeta() *PageMeta {
	return &PageMeta{
		PageID:      GeneratePageID("blog/hosting-this-site.md"),
		Path:        "content/blog/hosting-this-site.md",
		ModTime:     time.Date(2014, 6, 21, 21, 27, 31, 0, time.UTC).Unix(),
		ContentHash: HashString("source"),
		Title:       "Hosting this site",
		Layout:      "post",
		Description: "Notes on hosting",
		Keywords:    []string{"golang", "hosting"},
		Date:        time.Date(2014, 6, 21, 21, 27, 31, 0, time.UTC),
		ReadingTime: 4,
		Link:        "https://aagat.com/blog/hosting-this-site.html",
		Meta:        map[string]interface{}{"layout": "post"},
	}
}

func TestBatchCommit_RoundTrip(t *testing.T) {
	m := openTestCache(t)

	meta := samplePageMeta()
	if err := m.BatchCommit([]*PageMeta{meta}); err != nil {
		t.Fatalf("BatchCommit() error: %v", err)
	}

	got, err := m.GetPageByPath("content/blog/hosting-this-site.md")
	if err != nil {
		t.Fatalf("GetPageByPath() error: %v", err)
	}
	if got == nil {
		t.Fatal("GetPageByPath() returned nil for committed page")
	}
	if got.Title != meta.Title {
		t.Errorf("Title = %q, want %q", got.Title, meta.Title)
	}
	if got.Layout != meta.Layout {
		t.Errorf("Layout = %q, want %q", got.Layout, meta.Layout)
	}
	if !got.Date.Equal(meta.Date) {
		t.Errorf("Date = %v, want %v", got.Date, meta.Date)
	}
	if len(got.Keywords) != 2 {
		t.Errorf("Keywords = %v", got.Keywords)
	}

	byID, err := m.GetPageByID(meta.PageID)
	if err != nil || byID == nil {
		t.Fatalf("GetPageByID() = %v, %v", byID, err)
	}
}

func TestGetPageByPath_Miss(t *testing.T) {
	m := openTestCache(t)

	got, err := m.GetPageByPath("content/blog/nonexistent.md")
	if err != nil {
		t.Fatalf("GetPageByPath() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for uncached path, got %+v", got)
	}
}

func TestStoreHTML_InlineAndHashed(t *testing.T) {
	m := openTestCache(t)

	small := []byte("<p>Small content</p>")
	meta := samplePageMeta()
	if err := m.StoreHTMLForPage(meta, small); err != nil {
		t.Fatalf("StoreHTMLForPage() error: %v", err)
	}
	if meta.HTMLHash != "" {
		t.Error("small page should be inlined, not content-addressed")
	}
	got, err := m.GetHTMLContent(meta)
	if err != nil {
		t.Fatalf("GetHTMLContent() error: %v", err)
	}
	if !bytes.Equal(got, small) {
		t.Errorf("inline HTML round-trip mismatch")
	}

	large := bytes.Repeat([]byte("x"), InlineHTMLThreshold+1)
	if err := m.StoreHTMLForPage(meta, large); err != nil {
		t.Fatalf("StoreHTMLForPage() error: %v", err)
	}
	if meta.HTMLHash == "" {
		t.Error("large page should be content-addressed")
	}
	if len(meta.InlineHTML) != 0 {
		t.Error("large page should not keep an inline copy")
	}
	got, err = m.GetHTMLContent(meta)
	if err != nil {
		t.Fatalf("GetHTMLContent() error: %v", err)
	}
	if !bytes.Equal(got, large) {
		t.Errorf("hashed HTML round-trip mismatch: got %d bytes, want %d", len(got), len(large))
	}
}

func TestVerifyCacheID(t *testing.T) {
	m := openTestCache(t)

	needsRebuild, err := m.VerifyCacheID("config-hash-1")
	if err != nil {
		t.Fatalf("VerifyCacheID() error: %v", err)
	}
	if !needsRebuild {
		t.Error("fresh cache should need a rebuild")
	}

	if err := m.SetCacheID("config-hash-1"); err != nil {
		t.Fatalf("SetCacheID() error: %v", err)
	}

	needsRebuild, err = m.VerifyCacheID("config-hash-1")
	if err != nil {
		t.Fatalf("VerifyCacheID() error: %v", err)
	}
	if needsRebuild {
		t.Error("matching cache ID should not force a rebuild")
	}

	needsRebuild, _ = m.VerifyCacheID("config-hash-2")
	if !needsRebuild {
		t.Error("changed cache ID should force a rebuild")
	}
}

func TestClear(t *testing.T) {
	m := openTestCache(t)

	if err := m.BatchCommit([]*PageMeta{samplePageMeta()}); err != nil {
		t.Fatalf("BatchCommit() error: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	ids, err := m.ListAllPages()
	if err != nil {
		t.Fatalf("ListAllPages() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty cache after Clear, got %v", ids)
	}
}

func TestStore_PutGet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	defer func() { _ = store.Close() }()

	tests := []struct {
		name    string
		content []byte
		wantCT  CompressionType
	}{
		{"small raw", []byte("tiny"), CompressionNone},
		{"medium fast zstd", bytes.Repeat([]byte("a"), RawThreshold+1), CompressionZstdFast},
		{"large level3 zstd", bytes.Repeat([]byte("b"), FastZstdMax+1), CompressionZstdLevel3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, ct, err := store.Put("html", tt.content)
			if err != nil {
				t.Fatalf("Put() error: %v", err)
			}
			if ct != tt.wantCT {
				t.Errorf("compression = %d, want %d", ct, tt.wantCT)
			}
			if !store.Exists("html", hash) {
				t.Error("Exists() = false after Put")
			}

			got, err := store.Get("html", hash, ct != CompressionNone)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if !bytes.Equal(got, tt.content) {
				t.Errorf("round-trip mismatch: got %d bytes, want %d", len(got), len(tt.content))
			}
		})
	}
}

func TestGeneratePageID_Stable(t *testing.T) {
	a := GeneratePageID("blog/post.md")
	b := GeneratePageID("blog/post.md")
	if a != b {
		t.Error("PageID should be deterministic")
	}
	if a == GeneratePageID("blog/other.md") {
		t.Error("distinct paths should produce distinct PageIDs")
	}
}
