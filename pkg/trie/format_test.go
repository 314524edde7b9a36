package trie

import (
	"errors"
	"testing"
)

func TestLinkPacking(t *testing.T) {
	testCases := []struct {
		offset int
		word   bool
		unit1  uint32
		unit2  uint32
	}{
		{0, true, 0x8000, 0},
		{4, false, 0, 4},
		{0x12345678, false, 0x1234, 0x5678},
		{0x12345678, true, 0x9234, 0x5678},
		{maxOffset, true, 0xffff, 0xffff},
	}

	for _, tc := range testCases {
		units := make([]uint32, recordSize)
		putLink(units, 0, tc.offset, tc.word)

		if units[1] != tc.unit1 || units[2] != tc.unit2 {
			t.Errorf("offset %#x word %v: expected units %#x %#x, got %#x %#x",
				tc.offset, tc.word, tc.unit1, tc.unit2, units[1], units[2])
		}
		if got := linkOffset(units, 0); got != tc.offset {
			t.Errorf("Expected offset %#x, got %#x", tc.offset, got)
		}
		if got := linkWord(units, 0); got != tc.word {
			t.Errorf("Expected word flag %v, got %v", tc.word, got)
		}
	}
}

func TestFromUnitsRejectsCorruptTries(t *testing.T) {
	testCases := []struct {
		name  string
		units []uint32
	}{
		{"empty", []uint32{}},
		{"missing sentinel", []uint32{'a', wordFlag, 0}},
		{"truncated record", []uint32{'a', wordFlag}},
		{"unsorted run", []uint32{'b', wordFlag, 0, 'a', wordFlag, 0, sentinel}},
		{"duplicate character", []uint32{'a', wordFlag, 0, 'a', wordFlag, 0, sentinel}},
		{"dead edge", []uint32{'a', 0, 0, sentinel}},
		{"child past end", []uint32{'a', 0, 99, sentinel}},
		{"child loops back", []uint32{'a', 0, 4, sentinel, 'b', 0, 4, sentinel}},
		{"link overflow", []uint32{'a', 0x18000, 0, sentinel}},
		{"shared child", []uint32{'a', 0, 7, 'b', 0, 7, sentinel, 'c', wordFlag, 0, sentinel}},
		{"child skips units", []uint32{'a', 0, 5, sentinel, 0, 'b', wordFlag, 0, sentinel}},
		{"trailing units", []uint32{'a', wordFlag, 0, sentinel, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromUnits(tc.units)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Expected ErrCorrupt, got %v", err)
			}
			var ce *CorruptError
			if !errors.As(err, &ce) {
				t.Fatalf("Expected *CorruptError, got %T", err)
			}
		})
	}
}

func TestFromUnitsRejectsDeepSharedRuns(t *testing.T) {
	// Every level points both of its edges at the next level, so a walk that
	// followed each edge would take 2^levels steps.
	const levels = 40
	var units []uint32
	for i := 0; i < levels; i++ {
		next := uint32(len(units) + 7)
		units = append(units, 'a', 0, next, 'b', 0, next, sentinel)
	}
	units = append(units, 'a', wordFlag, 0, sentinel)

	if _, err := FromUnits(units); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Expected ErrCorrupt for shared runs, got %v", err)
	}
}

func TestFromUnitsCountsWords(t *testing.T) {
	compiled := compileWords(t, "cat", "car", "cats", "dog")

	d, err := FromUnits(compiled.Units())
	if err != nil {
		t.Fatalf("FromUnits failed: %v", err)
	}
	if d.Len() != 4 {
		t.Errorf("Expected 4 words, got %d", d.Len())
	}
}

func TestScanPastEndPanics(t *testing.T) {
	// Built by hand to skip validation: the root run has no sentinel.
	d := &Dictionary{units: []uint32{'a', wordFlag, 0}}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected a panic on a run without sentinel")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrCorrupt) {
			t.Errorf("Expected a corrupt trie panic, got %v", r)
		}
	}()
	d.Exists("b")
}
