package trie

import (
	"math/rand"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

func TestExists(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog")

	testCases := []struct {
		word     string
		expected bool
	}{
		{"cat", true},
		{"car", true},
		{"cats", true},
		{"dog", true},
		{"ca", false},
		{"c", false},
		{"catss", false},
		{"do", false},
		{"dogs", false},
		{"cab", false},
		{"Cat", false},
		{"", false},
		{"zebra", false},
	}

	for _, tc := range testCases {
		if got := d.Exists(tc.word); got != tc.expected {
			t.Errorf("Exists(%q): expected %v, got %v", tc.word, tc.expected, got)
		}
	}
}

func TestExistsUnicode(t *testing.T) {
	d := compileWords(t, "über", "naïve", "日本語", "😀😃")

	for _, w := range []string{"über", "naïve", "日本語", "😀😃"} {
		if !d.Exists(w) {
			t.Errorf("Expected %q to exist", w)
		}
	}
	for _, w := range []string{"uber", "naive", "日本", "😀"} {
		if d.Exists(w) {
			t.Errorf("Expected %q to be absent", w)
		}
	}
}

// randomWords returns words over a small alphabet so that prefixes are shared often.
func randomWords(r *rand.Rand, n int) []string {
	alphabet := []rune("abcdeéz")
	words := make([]string, n)
	for i := range words {
		w := make([]rune, 1+r.Intn(7))
		for j := range w {
			w[j] = alphabet[r.Intn(len(alphabet))]
		}
		words[i] = string(w)
	}
	return words
}

// TestExistsMatchesPatricia checks membership against an independent trie.
func TestExistsMatchesPatricia(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	inserted := randomWords(r, 2000)

	oracle := patricia.NewTrie()
	b := NewBuilder()
	for _, w := range inserted {
		b.Insert(w)
		if utf8.RuneCountInString(w) >= minWordLen {
			oracle.Set(patricia.Prefix(w), true)
		}
	}
	d, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	probes := append(randomWords(r, 2000), inserted...)
	for _, w := range probes {
		expected := oracle.Match(patricia.Prefix(w))
		if got := d.Exists(w); got != expected {
			t.Errorf("Exists(%q): expected %v, got %v", w, expected, got)
		}
	}

	count := 0
	oracle.Visit(func(patricia.Prefix, patricia.Item) error {
		count++
		return nil
	})
	if d.Len() != count {
		t.Errorf("Expected %d words, got %d", count, d.Len())
	}
}

func TestConcurrentReaders(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog", "doge", "dot", "cart", "care")
	inputs := []string{"cta", "cars", "dgo", "crat", "caer", "dogs", "xyz"}

	expected := make(map[string][]Suggestion, len(inputs))
	for _, in := range inputs {
		expected[in] = d.Suggest(in)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				in := inputs[i%len(inputs)]
				got := d.Suggest(in)
				if !equalSuggestions(got, expected[in]) {
					errs <- in
					return
				}
				if !d.Exists("cats") || d.Exists(in) {
					errs <- "exists:" + in
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for in := range errs {
		t.Errorf("Concurrent reader saw a different result for %q", in)
	}
}

func equalSuggestions(a, b []Suggestion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func BenchmarkExists(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	words := randomWords(r, 20000)
	builder := NewBuilder()
	for _, w := range words {
		builder.Insert(w)
	}
	d, err := builder.Compile()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Exists(words[i%len(words)])
	}
}
