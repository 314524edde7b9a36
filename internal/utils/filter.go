package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports whether r may appear inside a word without making it special
func IsSeparator(r rune) bool {
	return r == '-' || r == '\'' || r == '.' || r == '’'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks for characters that are neither letters, digits, marks nor separators
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks for one character repeated three or more times, e.g. "aaa"
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput checks if input is worth spell checking.
// Numbers, strings with special characters and repetitive strings are rejected.
func IsValidInput(s string) bool {
	if len(s) == 0 || !utf8.ValidString(s) {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}
