package memo

import (
	"context"
	"strings"
	"sync"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var (
	memoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_lookups_total",
			Help: "Memo lookups by cache and result",
		},
		[]string{"cache", "result"},
	)
)

// Key is the cleaned, lower-cased word. The sentence a word is first looked
// up with decides the cached reading for the rest of the session.
func Key(word string) string {
	return strings.ToLower(validator.CleanWord(word))
}

type Stats struct {
	Entries  int   `json:"entries"`
	InFlight int   `json:"inFlight"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// Cache holds completed results for the lifetime of its owner. Only
// successful fetches are stored; nothing is evicted. Concurrent misses on the
// same key share one fetch.
type Cache[V any] struct {
	name string

	mu      sync.Mutex
	entries map[string]V
	pending map[string]struct{}
	hits    int64
	misses  int64

	group singleflight.Group
}

func New[V any](name string) *Cache[V] {
	return &Cache[V]{
		name:    name,
		entries: make(map[string]V),
		pending: make(map[string]struct{}),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Do returns the cached value for key, or runs fetch once for all concurrent
// callers and stores its result when it succeeds. A hit never calls fetch.
func (c *Cache[V]) Do(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		memoLookups.WithLabelValues(c.name, "hit").Inc()
		return v, nil
	}
	c.misses++
	c.mu.Unlock()
	memoLookups.WithLabelValues(c.name, "miss").Inc()

	res, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		if v, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return v, nil
		}
		c.pending[key] = struct{}{}
		c.mu.Unlock()

		v, err := fetch(ctx)

		c.mu.Lock()
		delete(c.pending, key)
		if err == nil {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, err
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Put stores a value obtained elsewhere, such as a saved row.
func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

// Pending reports whether a fetch for key is in flight.
func (c *Cache[V]) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:  len(c.entries),
		InFlight: len(c.pending),
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
