package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"

	"finsentinel-server/src/models"
)

// summaryTTL bounds how long a summary can outlive a write made on another
// instance whose invalidation never reached this one.
const summaryTTL = 5 * time.Minute

// SummaryVersion identifies the state of a user's summary entry. A summary
// computed from data read under one version is only stored if no invalidation
// happened in between.
type SummaryVersion struct {
	epoch uint64
	gen   uint64
}

// Cache holds derived per-user views. Keys are tracked by kind so that every
// entry of a kind can be dropped at once, which ristretto cannot do by itself.
type Cache struct {
	store *ristretto.Cache

	summaries struct {
		sync.Mutex
		keys  map[string]struct{}
		gens  map[int64]uint64
		epoch uint64
	}
}

func NewCache() (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	c := &Cache{store: store}
	c.summaries.keys = make(map[string]struct{})
	c.summaries.gens = make(map[int64]uint64)
	return c, nil
}

func summaryKey(userID int64) string {
	return fmt.Sprintf("summary:%d", userID)
}

// Summary Cache Functions
func (c *Cache) GetSummary(userID int64) (models.Summary, bool) {
	v, ok := c.store.Get(summaryKey(userID))
	if !ok {
		return models.Summary{}, false
	}
	s, ok := v.(models.Summary)
	return s, ok
}

// SummaryVersion must be taken before reading the data the summary is built
// from.
func (c *Cache) SummaryVersion(userID int64) SummaryVersion {
	c.summaries.Lock()
	defer c.summaries.Unlock()
	return SummaryVersion{epoch: c.summaries.epoch, gen: c.summaries.gens[userID]}
}

// SetSummary stores the summary unless the user's entry was invalidated after
// v was taken. It waits for the write to be applied so a following Get
// observes it, and reports whether the summary was stored.
func (c *Cache) SetSummary(userID int64, v SummaryVersion, s models.Summary) bool {
	c.summaries.Lock()
	defer c.summaries.Unlock()
	if v.epoch != c.summaries.epoch || v.gen != c.summaries.gens[userID] {
		return false
	}
	key := summaryKey(userID)
	c.summaries.keys[key] = struct{}{}
	c.store.SetWithTTL(key, s, 1, summaryTTL)
	c.store.Wait()
	return true
}

func (c *Cache) DelSummary(userID int64) {
	key := summaryKey(userID)
	c.summaries.Lock()
	defer c.summaries.Unlock()
	c.summaries.gens[userID]++
	delete(c.summaries.keys, key)
	c.store.Del(key)
}

func (c *Cache) ClearAllSummaries() {
	c.summaries.Lock()
	defer c.summaries.Unlock()
	c.summaries.epoch++
	for key := range c.summaries.keys {
		c.store.Del(key)
	}
	c.summaries.keys = make(map[string]struct{})
	c.summaries.gens = make(map[int64]uint64)
}

func (c *Cache) Close() {
	c.store.Close()
}
