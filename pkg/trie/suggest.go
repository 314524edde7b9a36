package trie

import (
	"context"
	"slices"
)

const (
	// transposeCost is charged for two swapped neighbouring characters.
	transposeCost = 3
	// editCost is charged per spurious, missing or unmatched character.
	editCost = 5

	// cancelCheckEvery is how many search steps run between context checks.
	cancelCheckEvery = 256
)

// Suggest returns corrections for word, best first. It returns nothing when word is
// empty or already in the dictionary. At most CollectorCapacity(len(word)) suggestions
// are returned.
func (d *Dictionary) Suggest(word string) []Suggestion {
	s, _ := d.SuggestContext(context.Background(), word)
	return s
}

// SuggestContext is Suggest with cooperative cancellation. When ctx is done the search
// stops and the suggestions found so far are returned with ctx.Err().
func (d *Dictionary) SuggestContext(ctx context.Context, word string) ([]Suggestion, error) {
	if word == "" || d.Exists(word) {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chars := []rune(word)
	s := &searcher{
		d:   d,
		out: NewCollector(CollectorCapacity(len(chars))),
		ctx: ctx,
	}
	s.search(chars, 0, 0, 0)
	return s.out.Suggestions(), s.err
}

// searcher carries the per-call state of one suggestion search. Positions, offsets and
// scores travel as parameters so the Dictionary itself is never written to.
type searcher struct {
	d     *Dictionary
	out   *Collector
	ctx   context.Context
	steps int
	err   error
}

func (s *searcher) stopped() bool {
	if s.err != nil {
		return true
	}
	s.steps++
	if s.steps%cancelCheckEvery == 0 {
		s.err = s.ctx.Err()
	}
	return s.err != nil
}

func (s *searcher) add(word []rune, score int) {
	s.out.Add(Suggestion{Word: string(word), Score: score})
}

// search explores the edit hypotheses for chars[pos] against the sibling run at offset
// at. chars[:pos] already spells a path in the trie. diff is the cost so far.
func (s *searcher) search(chars []rune, pos, at, diff int) {
	if s.stopped() || diff > s.out.Threshold() {
		return
	}
	units := s.d.units
	c := chars[pos]
	remaining := len(chars) - pos - 1

	// The input character is right. The other hypotheses are tried as well,
	// even when this edge is a leaf or the input is used up.
	if idx, ok := s.d.find(at, c); ok {
		if linkWord(units, idx) {
			if remaining == 0 {
				s.add(chars, diff)
			} else {
				s.add(chars[:pos+1], diff+remaining*editCost)
			}
		}
		if next := linkOffset(units, idx); next > 0 {
			if remaining == 0 {
				s.longer(chars, next, diff+editCost)
			} else {
				s.search(chars, pos+1, next, diff)
			}
		}
	}

	// The next input character fits here: either two characters were swapped
	// or the current one is spurious.
	if remaining > 0 {
		if idx, ok := s.d.find(at, chars[pos+1]); ok {
			if next := linkOffset(units, idx); next > 0 {
				swapped := slices.Clone(chars)
				swapped[pos], swapped[pos+1] = chars[pos+1], chars[pos]
				s.search(swapped, pos+1, next, diff+transposeCost)
			}

			shorter := make([]rune, 0, len(chars)-1)
			shorter = append(shorter, chars[:pos]...)
			shorter = append(shorter, chars[pos+1:]...)
			s.search(shorter, pos, at, diff+editCost)
		}
	}

	// The input character is wrong: try every other character of this run.
	for idx := at; s.d.char(idx) != sentinel; idx += recordSize {
		ch := rune(units[idx])
		if ch == c {
			continue
		}
		if linkWord(units, idx) {
			replaced := slices.Clone(chars[:pos+1])
			replaced[pos] = ch
			s.add(replaced, diff+editCost+remaining*editCost)
		}
		if remaining > 0 {
			if next := linkOffset(units, idx); next > 0 {
				replaced := slices.Clone(chars)
				replaced[pos] = ch
				s.search(replaced, pos+1, next, diff+similarity(c, ch))
			}
		}
	}
}

// longer records the words one character longer than the fully matched input,
// found in the sibling run at offset at. It does not look any deeper.
func (s *searcher) longer(chars []rune, at, score int) {
	if score > s.out.Threshold() {
		return
	}
	units := s.d.units
	for idx := at; s.d.char(idx) != sentinel; idx += recordSize {
		if linkWord(units, idx) {
			word := make([]rune, len(chars), len(chars)+1)
			copy(word, chars)
			s.add(append(word, rune(units[idx])), score)
		}
	}
}
