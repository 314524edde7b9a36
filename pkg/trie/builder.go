package trie

import (
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// initialUnits is the first buffer size used by Compile before it starts doubling.
const initialUnits = 1 << 13

// minWordLen is the shortest word the builder accepts, counted in runes.
const minWordLen = 2

// Builder collects words in a mutable trie and compiles them into a Dictionary.
// A Builder is not safe for concurrent use.
type Builder struct {
	root  *node
	words int
	limit int
}

type node struct {
	edges []edge
}

type edge struct {
	char rune
	word bool
	next *node
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		root:  &node{},
		limit: maxOffset,
	}
}

// Insert adds word to the trie. Words shorter than two runes are ignored,
// and inserting a word twice has no effect.
func (b *Builder) Insert(word string) {
	if utf8.RuneCountInString(word) < minWordLen {
		return
	}

	n := b.root
	for i := 0; i < len(word); {
		c, size := utf8.DecodeRuneInString(word[i:])
		i += size
		e := n.edgeFor(c)
		if i == len(word) {
			if !e.word {
				e.word = true
				b.words++
			}
			return
		}
		if e.next == nil {
			e.next = &node{}
		}
		n = e.next
	}
}

// Len returns the number of distinct words inserted since the last Compile.
func (b *Builder) Len() int {
	return b.words
}

// edgeFor returns the edge for c, inserting it in sorted position when missing.
// The pointer is only valid until the next insertion into n.
func (n *node) edgeFor(c rune) *edge {
	i, found := slices.BinarySearchFunc(n.edges, c, func(e edge, c rune) int {
		return int(e.char) - int(c)
	})
	if !found {
		n.edges = slices.Insert(n.edges, i, edge{char: c})
	}
	return &n.edges[i]
}

// Compile serializes the trie into its encoded form and returns a Dictionary
// bound to it. The builder is reset afterwards and can be reused for a new word set.
func (b *Builder) Compile() (*Dictionary, error) {
	enc := &encoder{
		units: make([]uint32, initialUnits),
		limit: b.limit,
	}
	if _, err := enc.writeNode(b.root); err != nil {
		return nil, err
	}

	units := make([]uint32, enc.size)
	copy(units, enc.units)
	log.Debugf("Compiled trie: %d words, %d units", b.words, len(units))

	d := &Dictionary{units: units, words: b.words}
	b.root = &node{}
	b.words = 0
	return d, nil
}

// encoder holds the growing destination buffer while a trie is serialized.
type encoder struct {
	units []uint32
	size  int
	limit int
}

// reserve claims n units at the end of the buffer and returns their start offset.
func (e *encoder) reserve(n int) (int, error) {
	start := e.size
	need := e.size + n
	if start > e.limit {
		return 0, ErrTrieTooLarge
	}
	if need > len(e.units) {
		grown := make([]uint32, max(need, 2*len(e.units)))
		copy(grown, e.units[:e.size])
		e.units = grown
	}
	e.size = need
	return start, nil
}

// writeNode reserves the whole sibling run of n before any child is written, so the
// run always precedes everything its children allocate.
func (e *encoder) writeNode(n *node) (int, error) {
	start, err := e.reserve(len(n.edges)*recordSize + 1)
	if err != nil {
		return 0, err
	}

	idx := start
	for _, ed := range n.edges {
		e.units[idx] = uint32(ed.char)
		offset := 0
		if ed.next != nil {
			if offset, err = e.writeNode(ed.next); err != nil {
				return 0, err
			}
		}
		putLink(e.units, idx, offset, ed.word)
		idx += recordSize
	}
	e.units[idx] = sentinel
	return start, nil
}
