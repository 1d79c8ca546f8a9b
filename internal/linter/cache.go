package linter

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/minio/highwayhash"
	"github.com/vmihailenco/msgpack/v5"

	"rblint/internal/diag"
	"rblint/internal/version"
)

// Bump when cachePayload changes shape.
const cacheSchemaVersion uint16 = 1

var hashKey = []byte("rblint-result-cache-key-00000000")

// contentHash is the 64-bit HighwayHash of data.
func contentHash(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// the key has the required 32 bytes
		panic(err)
	}
	_, _ = h.Write(data)
	return h.Sum64()
}

// CacheKey identifies one lint result: the file's path and content, the
// resolved configuration and the tool version.
type CacheKey [8]byte

// NewCacheKey hashes the inputs that determine a file's diagnostics.
func NewCacheKey(path string, content []byte, configHash uint64) CacheKey {
	buf := make([]byte, 0, len(path)+len(content)+64)
	buf = append(buf, version.Version...)
	buf = append(buf, 0)
	buf = binary.LittleEndian.AppendUint64(buf, configHash)
	buf = append(buf, path...)
	buf = append(buf, 0)
	buf = append(buf, content...)
	var k CacheKey
	binary.LittleEndian.PutUint64(k[:], contentHash(buf))
	return k
}

// ConfigHash fingerprints anything serialisable that shapes cop behaviour.
func ConfigHash(parts ...any) (uint64, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(parts); err != nil {
		return 0, fmt.Errorf("hash config: %w", err)
	}
	return contentHash(buf.Bytes()), nil
}

type cachePayload struct {
	Schema      uint16
	Diagnostics []diag.Diagnostic
	Internal    bool
}

// Cache stores lint results on disk, one msgpack file per key. Safe for
// concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultCacheDir is $XDG_CACHE_HOME/rblint or ~/.cache/rblint.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "rblint"), nil
}

// OpenCache creates dir if needed.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) pathFor(key CacheKey) string {
	name := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "results", name[:2], name+".mp")
}

// Put writes the result atomically (temp file plus rename).
func (c *Cache) Put(key CacheKey, res *FileResult) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	payload := cachePayload{Schema: cacheSchemaVersion, Diagnostics: res.Diagnostics, Internal: res.Internal}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads a stored result into res. A missing entry or one written by
// another schema is a miss, not an error.
func (c *Cache) Get(key CacheKey, res *FileResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if payload.Schema != cacheSchemaVersion {
		return false, nil
	}
	res.Diagnostics = payload.Diagnostics
	res.Internal = payload.Internal
	res.Cached = true
	return true, nil
}

// Clear removes every entry. The directory is renamed first so a
// concurrent run never reads a half-deleted tree.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
