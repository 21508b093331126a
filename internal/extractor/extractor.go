// Package extractor finds known cuisines and dishes mentioned in free text.
package extractor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// minWordLength drops short words that fuzzy-match almost anything
const minWordLength = 3

// minCoverage is the share of a vocabulary entry a word has to match
const minCoverage = 0.75

// Extractor matches words of a message against a fixed vocabulary
type Extractor struct {
	vocabulary []string
	lowered    []string
}

// New creates an extractor over the given vocabulary. Duplicates and
// blank entries are ignored.
func New(vocabulary []string) *Extractor {
	seen := make(map[string]bool, len(vocabulary))
	e := &Extractor{}
	for _, v := range vocabulary {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		e.vocabulary = append(e.vocabulary, v)
		e.lowered = append(e.lowered, key)
	}
	return e
}

// Extract returns the vocabulary entries mentioned in text, in vocabulary
// order
func (e *Extractor) Extract(text string) []string {
	if len(e.vocabulary) == 0 {
		return nil
	}

	found := make(map[int]bool)
	for _, word := range patterns(text) {
		for _, m := range fuzzy.Find(word, e.lowered) {
			if coverage(word, e.lowered[m.Index]) >= minCoverage {
				found[m.Index] = true
			}
		}
	}

	indexes := make([]int, 0, len(found))
	for i := range found {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, e.vocabulary[i])
	}
	return out
}

// coverage is the share of the entry's letters covered by the word, so
// that "food" does not claim "fast food" on its own
func coverage(word, entry string) float64 {
	letters := utf8.RuneCountInString(strings.ReplaceAll(entry, " ", ""))
	if letters == 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(strings.ReplaceAll(word, " ", ""))) / float64(letters)
}

// patterns returns the words of text plus every pair of adjacent words,
// so that two-word entries can be matched in full
func patterns(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var out []string
	for i, f := range fields {
		if utf8.RuneCountInString(f) < minWordLength {
			continue
		}
		out = append(out, f)
		if i+1 < len(fields) {
			out = append(out, f+" "+fields[i+1])
		}
	}
	return out
}
