package cache

import (
	bolt "go.etcd.io/bbolt"

	"github.com/Aagat/aagat.com/builder/utils"
)

// GetPageByPath looks up a page by its source file path in a single transaction
func (m *Manager) GetPageByPath(path string) (*PageMeta, error) {
	normalizedPath := utils.NormalizePath(path)

	var result *PageMeta
	err := m.db.View(func(tx *bolt.Tx) error {
		paths := tx.Bucket([]byte(BucketPaths))
		if paths == nil {
			return nil
		}
		pageID := paths.Get([]byte(normalizedPath))
		if pageID == nil {
			return nil
		}

		pages := tx.Bucket([]byte(BucketPages))
		if pages == nil {
			return nil
		}
		data := pages.Get(pageID)
		if data == nil {
			return nil
		}

		var meta PageMeta
		if err := Decode(data, &meta); err != nil {
			return err
		}
		result = &meta
		return nil
	})

	return result, err
}

// GetPageByID retrieves a page by its PageID
func (m *Manager) GetPageByID(pageID string) (*PageMeta, error) {
	var result *PageMeta
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketPages))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(pageID))
		if data == nil {
			return nil
		}

		var meta PageMeta
		if err := Decode(data, &meta); err != nil {
			return err
		}
		result = &meta
		return nil
	})
	return result, err
}

// ListAllPages returns every cached PageID
func (m *Manager) ListAllPages() ([]string, error) {
	var ids []string
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketPages))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// GetHTMLContent returns the rendered HTML for a page, resolving either the
// inline copy or the content-addressed store.
func (m *Manager) GetHTMLContent(meta *PageMeta) ([]byte, error) {
	if len(meta.InlineHTML) > 0 {
		return meta.InlineHTML, nil
	}
	if meta.HTMLHash == "" {
		return nil, nil
	}
	return m.store.Get(categoryHTML, meta.HTMLHash, true)
}

// StoreHTMLForPage attaches rendered HTML to a PageMeta, inlining small
// pages and content-addressing large ones.
func (m *Manager) StoreHTMLForPage(meta *PageMeta, html []byte) error {
	if len(html) < InlineHTMLThreshold {
		meta.InlineHTML = html
		meta.HTMLHash = ""
		return nil
	}

	hash, _, err := m.store.Put(categoryHTML, html)
	if err != nil {
		return err
	}
	meta.InlineHTML = nil
	meta.HTMLHash = hash
	return nil
}

// BatchCommit writes a set of page records in a single transaction
func (m *Manager) BatchCommit(pages []*PageMeta) error {
	if len(pages) == 0 {
		return nil
	}

	type encodedPage struct {
		id   []byte
		data []byte
		path []byte
	}

	encoded := make([]encodedPage, 0, len(pages))
	for _, page := range pages {
		data, err := Encode(page)
		if err != nil {
			return err
		}
		encoded = append(encoded, encodedPage{
			id:   []byte(page.PageID),
			data: data,
			path: []byte(utils.NormalizePath(page.Path)),
		})
	}

	return m.db.Update(func(tx *bolt.Tx) error {
		pagesBucket := tx.Bucket([]byte(BucketPages))
		pathsBucket := tx.Bucket([]byte(BucketPaths))
		for _, ep := range encoded {
			if err := pagesBucket.Put(ep.id, ep.data); err != nil {
				return err
			}
			if err := pathsBucket.Put(ep.path, ep.id); err != nil {
				return err
			}
		}
		return nil
	})
}
