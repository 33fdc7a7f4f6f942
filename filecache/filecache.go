package filecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/apex/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	// DefaultDir is the storage root used when Config.Dir is empty,
	// resolved relative to the current working directory.
	DefaultDir = ".ff-cache"

	// DefaultNamespace is the on-disk partition used when Config.Namespace
	// is empty.
	DefaultNamespace = "default"

	entryExt = ".json"

	dirMode  = 0o755
	fileMode = 0o600
)

// ErrStorageUnavailable is returned when the effective storage directory
// cannot be created or accessed at construction time.
var ErrStorageUnavailable = errors.New("filecache: storage unavailable")

// namespacePattern restricts namespaces to characters that are safe as a
// single directory component on every platform we care about.
var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Config holds the persistent backend options.
type Config struct {
	// Dir overrides the storage root. Defaults to DefaultDir under the
	// current working directory.
	Dir string

	// Namespace partitions the on-disk key space so multiple logically
	// distinct wrapped objects can share one storage root without
	// colliding. Defaults to DefaultNamespace.
	Namespace string
}

// withDefaults returns a copy of c with zero values replaced.
func (c Config) withDefaults() Config {
	if c.Dir == "" {
		c.Dir = DefaultDir
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	return c
}

// Validate checks whether the configuration values are valid. Namespaces
// must be a single safe path component; "." and ".." would escape the
// storage root.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Namespace,
			validation.Required,
			validation.Match(namespacePattern),
			validation.NotIn(".", ".."),
		),
	)
}

// Cache is the durable on-disk backend: one JSON file per entry under
// <Dir>/<Namespace>. Entries survive process restarts, and multiple
// instances (including instances in separate processes) may share a
// directory; the only write discipline is the atomicity of the final rename,
// so concurrent writers to the same key resolve as last-write-wins.
type Cache struct {
	dir       string
	namespace string
	root      string
}

// New creates the effective storage directory if absent (including missing
// parents) and returns a Cache over it. Creation failure for any reason
// other than "already exists" wraps ErrStorageUnavailable.
func New(cfg Config) (*Cache, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("filecache: invalid config: %w", err)
	}

	root := filepath.Join(cfg.Dir, cfg.Namespace)
	if err := os.MkdirAll(root, dirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &Cache{
		dir:       cfg.Dir,
		namespace: cfg.Namespace,
		root:      root,
	}, nil
}

// Namespace returns the partition this cache writes into.
func (c *Cache) Namespace() string {
	return c.namespace
}

// Has reports whether an entry file exists for key, without deserializing it.
func (c *Cache) Has(_ context.Context, key string) bool {
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Get reads and deserializes the entry for key. A missing file is a plain
// miss; a corrupt or unreadable file is logged and treated as a miss rather
// than surfacing to the caller.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("filecache: failed to read entry %s", key)
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		log.WithError(err).Warnf("filecache: corrupt entry %s, treating as miss", key)
		return nil, false
	}

	return value, true
}

// Set serializes value to indented JSON and writes it atomically to the
// entry file for key, replacing any prior entry. The write goes to a
// uniquely named temp file in the same directory first and is renamed into
// place, so a failure never leaves a partial entry behind.
func (c *Cache) Set(_ context.Context, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("filecache: serialize entry %s: %w", key, err)
	}

	target := c.path(key)
	tmp := target + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("filecache: write entry %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filecache: commit entry %s: %w", key, err)
	}

	return nil
}

// Purge removes entries in this namespace older than maxAge. Entry removal
// is outside the Store contract; this is a maintenance helper for callers
// that let a cache directory accumulate across many runs.
func (c *Cache) Purge(maxAge time.Duration) error {
	if maxAge <= 0 {
		log.Debug("filecache: purge disabled")
		return nil
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("filecache: purge: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != entryExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= maxAge {
			continue
		}
		p := filepath.Join(c.root, entry.Name())
		if err := os.Remove(p); err == nil {
			log.Debugf("filecache: removed entry %s", p)
		} else {
			log.WithError(err).Warnf("filecache: failed to remove entry %s", p)
		}
	}

	return nil
}

// path maps a key to its entry file. The name is a pure function of the key
// (already a fixed-length hash), so repeated runs with the same inputs reuse
// the same file.
func (c *Cache) path(key string) string {
	return filepath.Join(c.root, key+entryExt)
}
