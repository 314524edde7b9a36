package trie

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"unicode/utf8"
)

func scoreOf(suggestions []Suggestion, word string) (int, bool) {
	for _, s := range suggestions {
		if s.Word == word {
			return s.Score, true
		}
	}
	return 0, false
}

func TestSuggestNothingForKnownOrEmpty(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog")

	for _, w := range []string{"", "cat", "cats", "dog"} {
		if got := d.Suggest(w); len(got) != 0 {
			t.Errorf("Suggest(%q): expected no suggestions, got %v", w, got)
		}
	}
}

func TestSuggestTransposition(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog")
	got := d.Suggest("cta")

	if len(got) == 0 {
		t.Fatal("Expected suggestions for 'cta'")
	}
	if got[0].Word != "cat" || got[0].Score != transposeCost {
		t.Errorf("Expected 'cat' with score %d first, got %v", transposeCost, got[0])
	}
	for _, s := range got[1:] {
		if s.Score <= got[0].Score {
			t.Errorf("Expected %v to rank behind the transposition, got %v", s, got)
		}
	}
	if score, ok := scoreOf(got, "car"); !ok || score < editCost {
		t.Errorf("Expected 'car' by substitution with score >= %d, got %v", editCost, got)
	}
}

func TestSuggestExtraCharacter(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog")
	got := d.Suggest("cars")

	// "car" drops the trailing s. "cats" substitutes r with t, a same-category letter,
	// so it ties with "car" and sorts after it.
	want := []Suggestion{
		{Word: "car", Score: editCost},
		{Word: "cats", Score: editCost},
		{Word: "cat", Score: 2 * editCost},
		{Word: "dog", Score: 4 * editCost},
	}
	if !equalSuggestions(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSuggestContinuesAfterLongerScan(t *testing.T) {
	d := compileWords(t, "abc", "ad")
	got := d.Suggest("ab")

	// The longer scan finds "abc"; substitution at the same level still runs and finds "ad".
	want := []Suggestion{
		{Word: "abc", Score: editCost},
		{Word: "ad", Score: editCost},
	}
	if !equalSuggestions(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSuggestMissingCharacter(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog")
	got := d.Suggest("ca")

	for _, w := range []string{"cat", "car"} {
		score, ok := scoreOf(got, w)
		if !ok {
			t.Errorf("Expected %q for 'ca', got %v", w, got)
			continue
		}
		if score != editCost {
			t.Errorf("Expected %q with score %d, got %d", w, editCost, score)
		}
	}
	// Completions more than one character longer are not explored.
	if _, ok := scoreOf(got, "cats"); ok {
		t.Errorf("Did not expect 'cats' for 'ca', got %v", got)
	}
}

func TestSuggestEqualSubstitutions(t *testing.T) {
	d := compileWords(t, "bad", "bat")
	got := d.Suggest("bam")

	expected := []Suggestion{{"bad", editCost}, {"bat", editCost}}
	if !equalSuggestions(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSuggestCategoryCrossingCostsMore(t *testing.T) {
	d := compileWords(t, "b1d", "bxd")
	got := d.Suggest("bmd")

	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %v", got)
	}
	if got[0] != (Suggestion{"bxd", sameCatCost}) {
		t.Errorf("Expected letter substitution first, got %v", got)
	}
	if got[1] != (Suggestion{"b1d", crossCatCost}) {
		t.Errorf("Expected digit substitution second, got %v", got)
	}
}

func TestSuggestCaseOnlyDifference(t *testing.T) {
	d := compileWords(t, "Paris", "parse")
	got := d.Suggest("paris")

	if len(got) == 0 || got[0] != (Suggestion{"Paris", caseCost}) {
		t.Errorf("Expected 'Paris' with score %d first, got %v", caseCost, got)
	}
}

func TestSuggestShorterWord(t *testing.T) {
	d := compileWords(t, "in", "into")
	got := d.Suggest("inxx")

	score, ok := scoreOf(got, "in")
	if !ok || score != 2*editCost {
		t.Errorf("Expected 'in' with score %d, got %v", 2*editCost, got)
	}
}

// TestSuggestProperties checks the output contract over random dictionaries and inputs.
func TestSuggestProperties(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	b := NewBuilder()
	for _, w := range randomWords(r, 3000) {
		b.Insert(w)
	}
	d, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	for _, in := range randomWords(r, 300) {
		got := d.Suggest(in)

		if d.Exists(in) && len(got) != 0 {
			t.Errorf("Suggest(%q): known word got suggestions %v", in, got)
		}
		if limit := CollectorCapacity(utf8.RuneCountInString(in)); len(got) > limit {
			t.Errorf("Suggest(%q): %d suggestions exceed capacity %d", in, len(got), limit)
		}
		for i, s := range got {
			if !d.Exists(s.Word) {
				t.Errorf("Suggest(%q): %q is not a dictionary word", in, s.Word)
			}
			if s.Score < 0 {
				t.Errorf("Suggest(%q): negative score %v", in, s)
			}
			if i > 0 && compareSuggestions(got[i-1], s) >= 0 {
				t.Errorf("Suggest(%q): %v and %v out of order", in, got[i-1], s)
			}
		}
	}
}

func TestSuggestContextCancelled(t *testing.T) {
	d := compileWords(t, "cat", "car", "cats", "dog")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := d.SuggestContext(ctx, "cta")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no suggestions from a cancelled search, got %v", got)
	}

	got, err = d.SuggestContext(context.Background(), "cta")
	if err != nil || len(got) == 0 {
		t.Errorf("Expected suggestions without error, got %v, %v", got, err)
	}
}

func BenchmarkSuggest(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	builder := NewBuilder()
	for _, w := range randomWords(r, 20000) {
		builder.Insert(w)
	}
	d, err := builder.Compile()
	if err != nil {
		b.Fatal(err)
	}
	inputs := randomWords(r, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Suggest(inputs[i%len(inputs)])
	}
}
