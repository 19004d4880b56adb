package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Store is a content-addressed file store under the cache directory.
// Artifacts are sharded two levels deep by hash prefix so a large
// site never piles thousands of files into one directory.
type Store struct {
	basePath string
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

func NewStore(basePath string) (*Store, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Store{basePath: basePath, encoder: encoder, decoder: decoder}, nil
}

func (s *Store) Close() error {
	_ = s.encoder.Close()
	s.decoder.Close()
	return nil
}

// shardPath computes hash[0:2]/hash[2:4]/hash under the category dir.
func (s *Store) shardPath(category, hash string) string {
	if len(hash) < 4 {
		return filepath.Join(s.basePath, category, hash)
	}
	return filepath.Join(s.basePath, category, hash[0:2], hash[2:4], hash)
}

func extension(ct CompressionType) string {
	if ct == CompressionNone {
		return ".raw"
	}
	return ".zst"
}

// determineCompression picks a tier by size: small artifacts aren't
// worth compressing, mid-size ones get the fast level, large ones
// the default level.
func determineCompression(size int) CompressionType {
	switch {
	case size < RawThreshold:
		return CompressionNone
	case size < FastZstdMax:
		return CompressionZstdFast
	default:
		return CompressionZstdLevel3
	}
}

func (s *Store) compress(content []byte, ct CompressionType) ([]byte, error) {
	switch ct {
	case CompressionNone:
		return content, nil
	case CompressionZstdLevel3:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(content, nil), nil
	default:
		return s.encoder.EncodeAll(content, nil), nil
	}
}

// Put stores content and returns its hash and compression tier.
// Storing the same content twice is a no-op.
func (s *Store) Put(category string, content []byte) (hash string, ct CompressionType, err error) {
	hash = HashContent(content)
	ct = determineCompression(len(content))

	path := s.shardPath(category, hash) + extension(ct)
	if _, err := os.Stat(path); err == nil {
		return hash, ct, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := s.compress(content, ct)
	if err != nil {
		return "", 0, err
	}

	if err := atomicWrite(path, data); err != nil {
		return "", 0, err
	}
	return hash, ct, nil
}

// atomicWrite lands data via .tmp -> fsync -> rename so a crash
// mid-write never leaves a truncated artifact at the final path.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	_, werr := f.Write(data)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpPath, path)
	}
	if werr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write artifact: %w", werr)
	}
	return nil
}

// Get retrieves content by hash. The compressed hint says which
// extension to try first; the other is tried on a miss since the
// tier is derived from size at Put time.
func (s *Store) Get(category, hash string, compressed bool) ([]byte, error) {
	exts := []string{".zst", ".raw"}
	if !compressed {
		exts[0], exts[1] = exts[1], exts[0]
	}

	for _, ext := range exts {
		data, err := os.ReadFile(s.shardPath(category, hash) + ext)
		if err != nil {
			continue
		}
		if ext == ".zst" {
			return s.decoder.DecodeAll(data, nil)
		}
		return data, nil
	}
	return nil, fmt.Errorf("artifact not found: %s", hash)
}

// Exists reports whether a hash is present under either tier.
func (s *Store) Exists(category, hash string) bool {
	for _, ext := range []string{".raw", ".zst"} {
		if _, err := os.Stat(s.shardPath(category, hash) + ext); err == nil {
			return true
		}
	}
	return false
}
