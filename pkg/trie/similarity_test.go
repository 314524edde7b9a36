package trie

import (
	"fmt"
	"testing"
	"unicode"
)

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		a, b     rune
		expected int
	}{
		{'a', 'A', caseCost},
		{'É', 'é', caseCost},
		{'a', 'b', sameCatCost},
		{'A', 'b', sameCatCost},
		{'é', 'e', sameCatCost},
		{'1', '7', sameCatCost},
		{'-', '_', crossCatCost}, // Pd vs Pc
		{'a', '1', crossCatCost},
		{'a', '-', crossCatCost},
		{'a', 'ä', sameCatCost},
		{'a', '日', crossCatCost}, // Ll vs Lo
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%c→%c", tc.a, tc.b), func(t *testing.T) {
			if got := similarity(tc.a, tc.b); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
			if got := similarity(tc.b, tc.a); got != tc.expected {
				t.Errorf("Expected symmetric cost %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestCategoryFastPath(t *testing.T) {
	for _, r := range "azAZ09" {
		fast := category(r)
		for i, tbl := range generalCategories {
			if unicode.Is(tbl, r) && i != fast {
				t.Errorf("category(%q) = %d, table lookup says %d", r, fast, i)
			}
		}
	}
}
