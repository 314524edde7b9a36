package trie

import (
	"unicode/utf8"
)

// Dictionary is a compiled, read-only trie. All methods are safe for concurrent use.
type Dictionary struct {
	units []uint32
	words int
}

// FromUnits wraps an encoded trie, for example one read back from disk.
// The slice is validated and owned by the Dictionary afterwards; callers must not modify it.
func FromUnits(units []uint32) (*Dictionary, error) {
	words, err := validate(units)
	if err != nil {
		return nil, err
	}
	return &Dictionary{units: units, words: words}, nil
}

// Units returns the encoded trie. The slice is shared and must be treated as read-only.
func (d *Dictionary) Units() []uint32 {
	return d.units
}

// Len returns the number of words in the dictionary.
func (d *Dictionary) Len() int {
	return d.words
}

// Exists reports whether word is stored in the dictionary.
func (d *Dictionary) Exists(word string) bool {
	idx := 0
	for i := 0; i < len(word); {
		c, size := utf8.DecodeRuneInString(word[i:])
		i += size

		at, ok := d.find(idx, c)
		if !ok {
			return false
		}
		if i == len(word) {
			return linkWord(d.units, at)
		}
		idx = linkOffset(d.units, at)
		if idx <= 0 {
			return false
		}
	}
	return false
}

// find scans the sibling run starting at idx for c. It returns the offset of the
// matching record, or the offset where the scan stopped and false.
func (d *Dictionary) find(idx int, c rune) (int, bool) {
	want := uint32(c)
	for {
		got := d.char(idx)
		if got >= want {
			return idx, got == want
		}
		idx += recordSize
	}
}

// char reads unit 0 of the record at idx. Running off the end of the slice means a
// sibling run lost its sentinel, which is not recoverable.
func (d *Dictionary) char(idx int) uint32 {
	if idx < 0 || idx >= len(d.units) {
		panic(&CorruptError{Offset: idx, Reason: "scan ran past the end of the trie"})
	}
	return d.units[idx]
}
