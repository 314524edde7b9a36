package server

import (
	"testing"

	"github.com/bastiangx/spellserve/pkg/trie"
)

func TestSuggestionCache(t *testing.T) {
	c := NewSuggestionCache(2)
	cta := []trie.Suggestion{{Word: "cat", Score: 3}}

	if _, ok := c.Get("cta"); ok {
		t.Error("Expected a miss on an empty cache")
	}
	c.Put("cta", cta)
	got, ok := c.Get("cta")
	if !ok || len(got) != 1 || got[0] != cta[0] {
		t.Errorf("Expected %v, got %v (%v)", cta, got, ok)
	}

	// Callers may modify what they get back.
	got[0].Word = "xxx"
	if again, _ := c.Get("cta"); again[0].Word != "cat" {
		t.Error("Expected cached entries to be isolated from callers")
	}

	stats := c.Stats()
	if stats["cacheHits"] != 2 || stats["cacheMisses"] != 1 || stats["cacheWords"] != 1 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestSuggestionCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewSuggestionCache(2)
	c.Put("aa", nil)
	c.Put("bb", nil)
	c.Get("aa")
	c.Put("cc", nil)

	if c.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("bb"); ok {
		t.Error("Expected 'bb' to be evicted")
	}
	for _, w := range []string{"aa", "cc"} {
		if _, ok := c.Get(w); !ok {
			t.Errorf("Expected %q to stay cached", w)
		}
	}

	// Replacing an existing key does not evict.
	c.Put("aa", []trie.Suggestion{{Word: "ab", Score: 5}})
	if c.Len() != 2 {
		t.Errorf("Expected 2 entries after an update, got %d", c.Len())
	}
}

func TestSuggestionCacheDisabled(t *testing.T) {
	c := NewSuggestionCache(0)
	c.Put("cta", []trie.Suggestion{{Word: "cat", Score: 3}})

	if _, ok := c.Get("cta"); ok {
		t.Error("Expected a disabled cache to never hit")
	}
	if c.Len() != 0 || len(c.Stats()) != 0 {
		t.Error("Expected a disabled cache to be empty")
	}
}

func TestServerUsesCache(t *testing.T) {
	cfg := testConfig()
	cfg.CacheSize = 8

	dec := run(t, cfg,
		Request{ID: "1", Word: "cta"},
		Request{ID: "2", Word: "cta", Limit: 1},
		Request{ID: "3", Action: ActionInfo},
	)

	var first, second SuggestResponse
	if err := dec.Decode(&first); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatal(err)
	}
	if second.Count != 1 || second.Suggestions[0] != first.Suggestions[0] {
		t.Errorf("Expected the cached answer cut to the limit, got %+v", second)
	}

	var info InfoResponse
	if err := dec.Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Cache["cacheHits"] != 1 || info.Cache["cacheWords"] != 1 {
		t.Errorf("Unexpected cache stats: %v", info.Cache)
	}
}

func TestSuggestionCacheDrop(t *testing.T) {
	c := NewSuggestionCache(8)
	for _, w := range []string{"recieve", "reciept", "recal", "teh"} {
		c.Put(w, nil)
	}

	if n := c.Drop("reci"); n != 2 {
		t.Errorf("Expected 2 inputs dropped, got %d", n)
	}
	for w, cached := range map[string]bool{"recieve": false, "reciept": false, "recal": true, "teh": true} {
		if _, ok := c.Get(w); ok != cached {
			t.Errorf("Expected %q cached=%v", w, cached)
		}
	}
	if n := c.Drop("xyz"); n != 0 {
		t.Errorf("Expected nothing dropped for an unknown prefix, got %d", n)
	}

	// Dropped slots are free again.
	for _, w := range []string{"aa", "bb", "cc", "dd", "ee", "ff"} {
		c.Put(w, nil)
	}
	if c.Len() != 8 {
		t.Errorf("Expected 8 entries, got %d", c.Len())
	}

	if n := c.Drop(""); n != 8 {
		t.Errorf("Expected the whole cache dropped, got %d", n)
	}
	if c.Len() != 0 {
		t.Errorf("Expected an empty cache, got %d entries", c.Len())
	}
	if NewSuggestionCache(0).Drop("") != 0 {
		t.Error("Expected a disabled cache to drop nothing")
	}
}

func TestServerClear(t *testing.T) {
	cfg := testConfig()
	cfg.CacheSize = 8

	dec := run(t, cfg,
		Request{ID: "1", Word: "cta"},
		Request{ID: "2", Word: "dgo"},
		Request{ID: "3", Action: ActionClear, Word: "ct"},
		Request{ID: "4", Action: ActionInfo},
	)

	for i := 0; i < 2; i++ {
		var resp SuggestResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatal(err)
		}
	}

	var cleared ClearResponse
	if err := dec.Decode(&cleared); err != nil {
		t.Fatal(err)
	}
	if cleared.ID != "3" || cleared.Dropped != 1 {
		t.Errorf("Expected one input dropped, got %+v", cleared)
	}

	var info InfoResponse
	if err := dec.Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Cache["cacheWords"] != 1 {
		t.Errorf("Expected 'dgo' to stay cached, got %v", info.Cache)
	}
}
