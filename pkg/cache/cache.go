// Package cache provides a caller-owned store for rendered images, keyed by
// a fingerprint of every input that affects the output. It is explicitly
// constructed and passed by reference; there is no package-level instance.
package cache

import (
	"fmt"
	"hash/fnv"
	"image"
	"strconv"
	"sync"
	"time"

	"github.com/framelab/framelab/pkg/geometry"
	"github.com/framelab/framelab/pkg/grading"
)

// Key combines the inputs that determine a render: source image identity,
// frame geometry, adjustment parameters, and film profile name.
type Key struct {
	Source  string
	Frame   geometry.FrameSpec
	Params  grading.Parameters
	Profile string
}

// Fingerprint derives a stable cache key string. Renders are pure, so equal
// fingerprints mean repeatable output.
func (k Key) Fingerprint() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%v|%d|%s|%+v|%s",
		k.Source, k.Frame.Border, k.Frame.Thickness, k.Frame.Ratio.Name, k.Params, k.Profile)
	return strconv.FormatUint(h.Sum64(), 16)
}

type entry struct {
	img     image.Image
	addedAt time.Time
}

// Cache is a size-capped store with TTL expiry. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry
}

// New creates a cache holding up to maxEntries images for at most ttl each.
// A ttl of zero disables expiry; maxEntries must be positive.
func New(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
	}
}

// Get returns the cached image for a fingerprint, dropping it if expired.
func (c *Cache) Get(fingerprint string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.addedAt) > c.ttl {
		delete(c.entries, fingerprint)
		return nil, false
	}
	return e.img, true
}

// Put stores an image under a fingerprint, evicting the oldest entry when
// the cache is full.
func (c *Cache) Put(fingerprint string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[fingerprint]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[fingerprint] = entry{img: img, addedAt: time.Now()}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.addedAt.Before(oldest) {
			oldestKey, oldest = k, e.addedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
