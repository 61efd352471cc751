// Package cache provides a filesystem-backed store for transient, re-derivable data such as parsed cue lists.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/log"
)

// Cache is a directory of JSON entries that expire after a fixed TTL.
type Cache struct {
	dir string
	ttl time.Duration
}

// New returns a cache rooted at dir. The directory is created lazily on the first write.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// Key generates a deterministic SHA-256 identifier from the given parts.
func Key(parts ...string) string {
	sanitized := strings.ToLower(strings.Join(parts, "\x00"))
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Read decodes a cached entry into target if it exists and has not exceeded its TTL.
func (c *Cache) Read(key string, target any) bool {
	path := c.path(key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return false
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(target); err != nil {
		log.Warnf("cache entry %s is corrupt: %v", key, err)
		return false
	}
	return true
}

// Write persists data using a temp file and rename so readers never see a partial entry.
func (c *Cache) Write(key string, data any) error {
	if err := filesystem.API().MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	path := c.path(key)
	tmpPath := path + ".tmp"

	f, err := filesystem.API().Create(tmpPath)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return filesystem.API().Rename(tmpPath, path)
}

// Prune removes expired entries and returns how many were deleted.
func (c *Cache) Prune() int {
	var removed int
	_ = filesystem.API().Walk(c.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > c.ttl {
			if filesystem.API().Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed
}

// CollectGarbage prunes expired entries in the background.
func (c *Cache) CollectGarbage() {
	go func() {
		if n := c.Prune(); n > 0 {
			log.Infof("pruned %d expired cache entries from %s", n, c.dir)
		}
	}()
}
