/*
Package trie implements the compiled spelling dictionary: a builder that turns a word
stream into a flat, fixed-stride encoding and a read-only Dictionary that answers exact
membership and fuzzy suggestion queries against it.

# Encoding

The compiled trie is one []uint32. Every edge of the trie is a record of three units:

	unit 0   the character of the edge
	unit 1   bit 15 = a word ends on this edge, bits 0-14 = high 15 bits of the child offset
	unit 2   low 16 bits of the child offset

The records of one node (its sibling run) are stored next to each other, sorted by
character, and closed by a single sentinel unit with all bits set. The root run starts at
offset 0, so a child offset of 0 means the edge has no child.

Offsets are indexes into the same slice and are only meaningful inside one compiled
Dictionary.
*/
package trie

import (
	"errors"
	"fmt"
	"math"
)

const (
	recordSize = 3

	// sentinel closes a sibling run.
	sentinel uint32 = math.MaxUint32

	wordFlag uint32 = 0x8000
	highMask uint32 = 0x7fff
	lowMask  uint32 = 0xffff

	// maxOffset is the largest child offset the 15+16 bit link can hold.
	maxOffset = 1<<31 - 1
)

var (
	// ErrTrieTooLarge is returned by Compile when an offset no longer fits in 31 bits.
	ErrTrieTooLarge = errors.New("trie too large: offset exceeds 31 bits")
	// ErrCorrupt marks a unit slice that does not follow the encoding.
	ErrCorrupt = errors.New("corrupt encoded trie")
)

// CorruptError describes where an encoded trie breaks the format.
type CorruptError struct {
	Offset int
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt encoded trie at offset %d: %s", e.Offset, e.Reason)
}

// Is lets errors.Is match CorruptError against ErrCorrupt.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// putLink packs a child offset and the word flag into units 1 and 2 of the record at idx.
func putLink(units []uint32, idx, offset int, word bool) {
	hi := uint32(offset>>16) & highMask
	if word {
		hi |= wordFlag
	}
	units[idx+1] = hi
	units[idx+2] = uint32(offset) & lowMask
}

func linkWord(units []uint32, idx int) bool {
	return units[idx+1]&wordFlag != 0
}

func linkOffset(units []uint32, idx int) int {
	return int(units[idx+1]&highMask)<<16 | int(units[idx+2]&lowMask)
}

// validate checks that units hold exactly the layout Compile emits: every sibling run is
// followed by the runs of its children in edge order, so each child offset must equal the
// next unclaimed offset and no run is shared. It returns the number of words stored.
func validate(units []uint32) (int, error) {
	if len(units) == 0 {
		return 0, &CorruptError{Offset: 0, Reason: "empty unit slice"}
	}

	end, words, err := checkRun(units, 0)
	if err != nil {
		return 0, err
	}

	// cursors holds the next record to visit in each open run, innermost last.
	cursors := []int{0}
	for len(cursors) > 0 {
		top := len(cursors) - 1
		idx := cursors[top]
		if units[idx] == sentinel {
			cursors = cursors[:top]
			continue
		}
		cursors[top] = idx + recordSize

		child := linkOffset(units, idx)
		if child == 0 {
			continue
		}
		if child != end {
			return 0, &CorruptError{Offset: idx, Reason: fmt.Sprintf("child offset %d, expected %d", child, end)}
		}
		runEnd, runWords, err := checkRun(units, child)
		if err != nil {
			return 0, err
		}
		end = runEnd
		words += runWords
		cursors = append(cursors, child)
	}

	if end != len(units) {
		return 0, &CorruptError{Offset: end, Reason: fmt.Sprintf("%d trailing units", len(units)-end)}
	}
	return words, nil
}

// checkRun validates the records of the sibling run at idx. It returns the offset just
// past the run's sentinel and the number of words ending in the run.
func checkRun(units []uint32, idx int) (int, int, error) {
	words := 0
	var prev uint32
	for first := true; ; first = false {
		if idx >= len(units) {
			return 0, 0, &CorruptError{Offset: idx, Reason: "sibling run has no sentinel"}
		}
		c := units[idx]
		if c == sentinel {
			return idx + 1, words, nil
		}
		if idx+recordSize > len(units) {
			return 0, 0, &CorruptError{Offset: idx, Reason: "truncated record"}
		}
		if !first && c <= prev {
			return 0, 0, &CorruptError{Offset: idx, Reason: "sibling run not strictly ascending"}
		}
		if units[idx+1] > lowMask || units[idx+2] > lowMask {
			return 0, 0, &CorruptError{Offset: idx, Reason: "link unit out of 16-bit range"}
		}

		word := linkWord(units, idx)
		if !word && linkOffset(units, idx) == 0 {
			return 0, 0, &CorruptError{Offset: idx, Reason: "edge neither ends a word nor has a child"}
		}
		if word {
			words++
		}
		prev = c
		idx += recordSize
	}
}
