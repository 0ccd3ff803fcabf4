package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/voxpipe/voxpipe/internal/audio"
	"github.com/voxpipe/voxpipe/internal/logger"
)

// ClipCache is a thread-safe in-memory cache of decoded clips. The key is
// sha256(voice + ":" + text), so a voice change causes misses until the
// voice is switched back. Audio is never written to disk.
type ClipCache struct {
	mu      sync.RWMutex
	entries map[string]*audio.Clip
	voice   string
	log     *logger.Logger
	hits    int64
	misses  int64
}

// NewClipCache creates a cache scoped to the given voice.
func NewClipCache(voice string, log *logger.Logger) *ClipCache {
	return &ClipCache{
		entries: make(map[string]*audio.Clip),
		voice:   voice,
		log:     log,
	}
}

// Get returns the cached clip for text and true, or nil and false.
func (c *ClipCache) Get(text string) (*audio.Clip, bool) {
	key := c.hashKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	clip, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.log.Debug("cache hit: %s (%s)", truncate(text, 40), clip.Duration())
	return clip, true
}

// Put stores a clip for the given text.
func (c *ClipCache) Put(text string, clip *audio.Clip) {
	key := c.hashKey(text)

	c.mu.Lock()
	c.entries[key] = clip
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("cache store: %s (%d entries)", truncate(text, 40), size)
}

// Len returns the number of cached clips.
func (c *ClipCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *ClipCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Clear empties the cache.
func (c *ClipCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*audio.Clip)
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
}

func (c *ClipCache) hashKey(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}
