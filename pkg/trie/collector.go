package trie

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// MaxSuggestions is the most suggestions Suggest ever returns.
const MaxSuggestions = 20

const baseCollectorCapacity = 4

// Suggestion is a candidate correction. Lower scores are closer to the input.
type Suggestion struct {
	Word  string
	Score int
}

// compareSuggestions orders by score, then lexicographically by word.
func compareSuggestions(a, b Suggestion) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return strings.Compare(a.Word, b.Word)
}

// CollectorCapacity returns how many suggestions are kept for an input of n runes.
func CollectorCapacity(n int) int {
	return min(MaxSuggestions, baseCollectorCapacity+n)
}

// Collector keeps the best scoring suggestions seen so far, up to a fixed capacity.
// Each word is held at most once, with its lowest score.
type Collector struct {
	capacity int
	// items stays sorted by compareSuggestions; the last entry is the worst.
	items []Suggestion
}

// NewCollector returns an empty collector holding at most capacity suggestions.
func NewCollector(capacity int) *Collector {
	capacity = max(capacity, 1)
	return &Collector{
		capacity: capacity,
		items:    make([]Suggestion, 0, capacity),
	}
}

// Add offers s to the collector and reports whether it was kept.
func (c *Collector) Add(s Suggestion) bool {
	if i := slices.IndexFunc(c.items, func(it Suggestion) bool { return it.Word == s.Word }); i >= 0 {
		if c.items[i].Score <= s.Score {
			return false
		}
		c.items = slices.Delete(c.items, i, i+1)
	} else if len(c.items) >= c.capacity {
		worst := c.items[len(c.items)-1]
		if compareSuggestions(s, worst) >= 0 {
			return false
		}
		c.items = c.items[:len(c.items)-1]
	}

	pos, _ := slices.BinarySearchFunc(c.items, s, compareSuggestions)
	c.items = slices.Insert(c.items, pos, s)
	return true
}

// Threshold is the pruning bound for the search: unbounded until the collector is
// full, then the score of the worst suggestion kept.
func (c *Collector) Threshold() int {
	if len(c.items) < c.capacity {
		return math.MaxInt
	}
	return c.items[len(c.items)-1].Score
}

// Len returns the number of suggestions held.
func (c *Collector) Len() int {
	return len(c.items)
}

// Capacity returns the maximum number of suggestions held.
func (c *Collector) Capacity() int {
	return c.capacity
}

// Suggestions returns the kept suggestions ordered by score, ties by word.
func (c *Collector) Suggestions() []Suggestion {
	return slices.Clone(c.items)
}
