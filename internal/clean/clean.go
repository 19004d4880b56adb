// Package clean removes build outputs and the incremental cache.
package clean

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Aagat/aagat.com/builder/config"
)

// Run deletes the output directory and, when cleanCache is set, the cache
// directory as well.
func Run(cfg *config.Config, cleanCache bool) error {
	start := time.Now()

	if err := removeDir(cfg.OutputDir); err != nil {
		return err
	}
	if cleanCache {
		if err := removeDir(cfg.CacheDir); err != nil {
			return err
		}
	}

	fmt.Printf("🧹 Cleaned in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// removeDir renames the directory aside first so a new build can start
// immediately, then deletes in the background.
func removeDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	tempName := fmt.Sprintf("%s_deleting_%d", filepath.Base(dir), time.Now().UnixNano())
	tempPath := filepath.Join(filepath.Dir(dir), tempName)

	fmt.Printf("🧹 Removing '%s'...\n", dir)
	if err := os.Rename(dir, tempPath); err != nil {
		return os.RemoveAll(dir)
	}

	go func() {
		_ = os.RemoveAll(tempPath)
	}()
	return nil
}
