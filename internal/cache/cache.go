// Package cache provides local file-based caching of article responses so
// repeated games do not fetch the same article twice across runs.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidAddress is returned for an address without a host.
var ErrInvalidAddress = errors.New("invalid cache address")

// Status values recorded for a cached article.
const (
	StatusOK       = "ok"
	StatusNotFound = "not-found"
)

// Cache stores article responses on the local filesystem.
type Cache struct {
	Dir string
}

// Entry is a cached response with metadata about when it was stored.
type Entry struct {
	URL      string
	Status   string
	Body     []byte
	CachedAt time.Time
}

// meta is the TOML-serializable cache metadata.
type meta struct {
	URL      string    `toml:"url"`
	Status   string    `toml:"status"`
	CachedAt time.Time `toml:"cached_at"`
}

// New creates a cache rooted at the given directory.
func New(dir string) *Cache {
	return &Cache{Dir: dir}
}

// Put writes a response for the article address to the cache. Not-found
// answers are stored with an empty body.
func (c *Cache) Put(address, status string, body []byte) error {
	filePath, err := c.filePath(address)
	if err != nil {
		return err
	}
	metaPath := filePath + ".meta"

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filePath, body, 0o644); err != nil {
		return err
	}

	m := meta{
		URL:      address,
		Status:   status,
		CachedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return err
	}
	return os.WriteFile(metaPath, buf.Bytes(), 0o644)
}

// Get reads a cached response. Returns nil if not cached.
func (c *Cache) Get(address string) (*Entry, error) {
	filePath, err := c.filePath(address)
	if err != nil {
		return nil, err
	}
	metaPath := filePath + ".meta"

	body, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m meta
	if _, err := toml.DecodeFile(metaPath, &m); err != nil {
		// A body without readable metadata is treated as a miss.
		return nil, nil
	}

	return &Entry{
		URL:      m.URL,
		Status:   m.Status,
		Body:     body,
		CachedAt: m.CachedAt,
	}, nil
}

// filePath returns <dir>/<host>/<escaped rest> for an article address. The
// address is a canonical key holding a decoded title, so it is split by hand
// rather than parsed as a URL: titles may contain '%', '?' or '#'.
func (c *Cache) filePath(address string) (string, error) {
	rest := address
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+len("://"):]
	}

	host, path, _ := strings.Cut(rest, "/")
	if host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	safeHost := strings.ReplaceAll(host, "..", "_")
	safeHost = strings.ReplaceAll(safeHost, ":", "_")

	// One flat file per article; escaping keeps '/' in titles out of the tree.
	name := url.PathEscape(path)
	if name == "" || name == "." || name == ".." {
		name = ".index"
	}

	return filepath.Join(c.Dir, safeHost, name), nil
}
