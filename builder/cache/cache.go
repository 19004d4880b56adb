package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// categoryHTML is the content store category for rendered page HTML.
const categoryHTML = "html"

// Manager provides the main cache interface
type Manager struct {
	db        *bolt.DB
	store     *Store
	basePath  string
	cacheID   string
	closeOnce sync.Once
}

// Open opens or creates a cache at the given path
func Open(basePath string, timeout time.Duration) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:         timeout,
		FreelistType:    bolt.FreelistArrayType,
		InitialMmapSize: 10 * 1024 * 1024,
	}

	dbPath := filepath.Join(basePath, "meta.db")
	db, err := bolt.Open(dbPath, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	store, err := NewStore(filepath.Join(basePath, "store"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	m := &Manager{
		db:       db,
		store:    store,
		basePath: basePath,
	}

	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return m, nil
}

// Close closes the cache. Safe to call more than once.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.store != nil {
			_ = m.store.Close()
		}
		if m.db != nil {
			err = m.db.Close()
		}
	})
	return err
}

// initSchema creates all buckets and clears cached pages when the
// stored schema version doesn't match this binary's.
func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		stored := meta.Get([]byte(KeySchemaVersion))
		if stored != nil && binary.BigEndian.Uint32(stored) == SchemaVersion {
			return nil
		}

		if stored != nil {
			for _, name := range []string{BucketPages, BucketPaths} {
				if err := tx.DeleteBucket([]byte(name)); err != nil {
					return err
				}
				if _, err := tx.CreateBucket([]byte(name)); err != nil {
					return err
				}
			}
		}

		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, SchemaVersion)
		return meta.Put([]byte(KeySchemaVersion), v)
	})
}

// VerifyCacheID checks whether the cache was built with the same identity
// (config hash). A mismatch means the cache contents cannot be trusted.
func (m *Manager) VerifyCacheID(expectedID string) (needsRebuild bool, err error) {
	var storedID []byte
	err = m.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(BucketMeta))
		storedID = meta.Get([]byte(KeyCacheID))
		return nil
	})
	if err != nil {
		return false, err
	}

	m.cacheID = expectedID
	if storedID == nil || string(storedID) != expectedID {
		return true, nil
	}
	return false, nil
}

// SetCacheID updates the cache ID
func (m *Manager) SetCacheID(id string) error {
	m.cacheID = id
	return m.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(BucketMeta))
		return meta.Put([]byte(KeyCacheID), []byte(id))
	})
}

// IncrementBuildCount bumps the persisted build counter and returns it.
func (m *Manager) IncrementBuildCount() (int, error) {
	count := 0
	err := m.db.Update(func(tx *bolt.Tx) error {
		stats := tx.Bucket([]byte(BucketStats))
		if data := stats.Get([]byte(KeyBuildCount)); data != nil {
			count = int(binary.BigEndian.Uint32(data))
		}
		count++
		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, uint32(count))
		return stats.Put([]byte(KeyBuildCount), v)
	})
	return count, err
}

// Clear drops all cached pages and the content store. Used by the clean
// command and on schema/config mismatch.
func (m *Manager) Clear() error {
	err := m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketPages, BucketPaths} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(m.basePath, "store"))
}
