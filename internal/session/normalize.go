package session

import (
	"strings"
	"unicode"
)

// NormalizeWord strips punctuation and whitespace from a tapped token.
// Elision marks directly after a letter are part of the word (δι’, ἀλλʼ).
func NormalizeWord(word string) string {
	var b strings.Builder
	afterLetter := false
	for _, r := range word {
		switch {
		case isElision(r):
			// U+02BC is a letter to unicode; only keep it as an elision
			if afterLetter {
				b.WriteRune(r)
			}
			afterLetter = false
		case unicode.IsLetter(r) || unicode.IsMark(r):
			b.WriteRune(r)
			afterLetter = true
		case unicode.IsDigit(r):
			b.WriteRune(r)
			afterLetter = false
		default:
			afterLetter = false
		}
	}
	return b.String()
}

func isElision(r rune) bool {
	switch r {
	case '’', 'ʼ', '\'':
		return true
	}
	return false
}
