// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"unicode"

	"github.com/verte-zerg/typedesk/internal/model"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang model.Language) FilterFunc {
	switch lang {
	case model.English:
		return filterEnglishASCII
	case model.Marathi, model.Hindi:
		return filterDevanagari
	default:
		return func(string) bool { return true }
	}
}

// Filter returns the words accepted by keep.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// Devanagari words may carry joiners (ZWJ/ZWNJ) inside conjuncts.
func filterDevanagari(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if r == '\u200c' || r == '\u200d' {
			continue
		}
		if !unicode.Is(unicode.Devanagari, r) {
			return false
		}
		// Danda and double danda are sentence terminators, not letters.
		if r == '।' || r == '॥' {
			return false
		}
	}
	return true
}
