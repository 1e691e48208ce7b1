package session

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ResultCache is a byte-prefix-keyed cache of recent suggest() results,
// sitting in front of the fuzzy engine so repeated keystrokes on the same
// growing prefix don't re-walk the trie. Eviction is strict LRU over a
// fixed capacity.
type ResultCache struct {
	mu          sync.RWMutex
	trie        *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	maxEntries  int
}

// NewResultCache returns an empty cache holding at most maxEntries queries.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		trie:       patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached candidates for query, if present.
func (c *ResultCache) Get(query string) ([]SuggestionCandidate, bool) {
	c.mu.RLock()
	var found []SuggestionCandidate
	hit := false
	c.trie.VisitSubtree(patricia.Prefix(query), func(p patricia.Prefix, item patricia.Item) error {
		if string(p) == query {
			found = item.([]SuggestionCandidate)
			hit = true
		}
		return nil
	})
	c.mu.RUnlock()
	if !hit {
		return nil, false
	}
	c.mu.Lock()
	c.markAccessed(query)
	c.mu.Unlock()
	return found, true
}

// Put stores candidates for query, evicting the least recently used entry
// first if the cache is at capacity.
func (c *ResultCache) Put(query string, candidates []SuggestionCandidate) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.accessTime[query]
	if !exists && len(c.accessTime) >= c.maxEntries {
		c.evictLRU()
	}
	if exists {
		c.rebuildWithout(query)
	}

	c.trie.Insert(patricia.Prefix(query), candidates)
	c.markAccessed(query)
}

// Invalidate drops every cached result whose query starts with prefix. Call
// this after a dictionary mutation (new word inserted, shortcut changed)
// that could affect completions under prefix.
func (c *ResultCache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []string
	c.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if len(stale) == 0 {
		return
	}
	for _, query := range stale {
		delete(c.accessTime, query)
	}
	c.rebuildWithoutAll(stale)
}

func (c *ResultCache) markAccessed(query string) {
	c.accessCount++
	c.accessTime[query] = c.accessCount
}

// evictLRU drops the least recently accessed entry. Must be called with mu
// held.
func (c *ResultCache) evictLRU() {
	var oldestQuery string
	var oldestTime int64 = 1<<63 - 1

	for query, t := range c.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldestQuery = query
		}
	}

	if oldestQuery != "" {
		delete(c.accessTime, oldestQuery)
		c.rebuildWithout(oldestQuery)
		log.Debugf("evicted %q from result cache", oldestQuery)
	}
}

// rebuildWithout rewrites the trie without the given query. go-patricia
// exposes no in-place delete, so dropping an entry means rebuilding around
// it; cache sizes are small enough for this to be cheap relative to a
// fuzzy search.
func (c *ResultCache) rebuildWithout(query string) {
	c.rebuildWithoutAll([]string{query})
}

func (c *ResultCache) rebuildWithoutAll(queries []string) {
	drop := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		drop[q] = struct{}{}
	}

	fresh := patricia.NewTrie()
	c.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		if _, skip := drop[string(p)]; skip {
			return nil
		}
		// p is the walk's reusable buffer; the trie keeps the slice it is
		// given, so insert a copy.
		fresh.Insert(append(patricia.Prefix(nil), p...), item)
		return nil
	})
	c.trie = fresh
}
