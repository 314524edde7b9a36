package server

import (
	"math"
	"slices"
	"sync"

	"github.com/bastiangx/spellserve/pkg/trie"
	"github.com/tchap/go-patricia/v2/patricia"
)

// SuggestionCache remembers complete suggestion lists keyed by the input word.
// The least recently used entry is evicted when full.
type SuggestionCache struct {
	entries    *patricia.Trie
	accessTime map[string]int64
	clock      int64
	hits       int
	misses     int
	maxWords   int
	mu         sync.Mutex
}

// NewSuggestionCache creates a cache for up to maxWords inputs. A non-positive
// size returns nil, which is a valid always-missing cache.
func NewSuggestionCache(maxWords int) *SuggestionCache {
	if maxWords <= 0 {
		return nil
	}
	return &SuggestionCache{
		entries:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxWords),
		maxWords:   maxWords,
	}
}

// Get returns the cached suggestions for word.
func (c *SuggestionCache) Get(word string) ([]trie.Suggestion, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.entries.Get(patricia.Prefix(word))
	if item == nil {
		c.misses++
		return nil, false
	}
	c.hits++
	c.accessTime[word] = c.tick()
	return slices.Clone(item.([]trie.Suggestion)), true
}

// Put stores the suggestions for word, evicting the least recently used entry if needed.
func (c *SuggestionCache) Put(word string, suggestions []trie.Suggestion) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.accessTime[word]; !ok && len(c.accessTime) >= c.maxWords {
		c.evictLRU()
	}
	c.entries.Set(patricia.Prefix(word), slices.Clone(suggestions))
	c.accessTime[word] = c.tick()
}

// Drop removes every cached input starting with prefix and returns how many were
// removed. An empty prefix empties the cache.
func (c *SuggestionCache) Drop(prefix string) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		n := len(c.accessTime)
		c.entries = patricia.NewTrie()
		clear(c.accessTime)
		return n
	}

	var words []string
	err := c.entries.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error walking suggestion cache: %v", err)
	}

	for _, word := range words {
		c.entries.Delete(patricia.Prefix(word))
		delete(c.accessTime, word)
	}
	return len(words)
}

// Len returns the number of cached inputs.
func (c *SuggestionCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.accessTime)
}

// Stats reports cache usage.
func (c *SuggestionCache) Stats() map[string]int {
	if c == nil {
		return map[string]int{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cacheWords":  len(c.accessTime),
		"maxWords":    c.maxWords,
		"cacheHits":   c.hits,
		"cacheMisses": c.misses,
	}
}

func (c *SuggestionCache) tick() int64 {
	c.clock++
	return c.clock
}

func (c *SuggestionCache) evictLRU() {
	var oldestWord string
	var oldestTime int64 = math.MaxInt64

	for word, accessTime := range c.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestWord = word
		}
	}

	if oldestWord != "" {
		c.entries.Delete(patricia.Prefix(oldestWord))
		delete(c.accessTime, oldestWord)
		log.Debugf("Evicted '%s' from suggestion cache", oldestWord)
	}
}
