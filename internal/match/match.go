// Package match scores free-text queries against the flat agency
// catalog using word overlap. It is fast, offline and deterministic;
// the caller combines its result with remote prediction scores.
package match

import (
	"log"
	"strings"
	"unicode"

	"recordwizard/internal/catalog"
)

// Result carries the best catalog match plus the counters the caller
// needs to judge match quality independent of any numeric score.
type Result struct {
	Item         *catalog.FlatItem
	WordsMatched int
	QueryWords   int
}

// Search finds the catalog entity sharing the most words with the
// query. Ties keep the first entity in catalog order. A nil logger
// disables decision logging.
func Search(query string, list []catalog.FlatItem, logger *log.Logger) Result {
	words := Tokenize(query)
	res := Result{QueryWords: len(words)}
	if len(words) == 0 || len(list) == 0 {
		return res
	}

	for i := range list {
		overlap := countOverlap(words, Tokenize(list[i].SearchText()))
		if overlap > res.WordsMatched {
			res.WordsMatched = overlap
			res.Item = &list[i]
			if logger != nil {
				logger.Printf("match: %q overlaps %d/%d words with %q", query, overlap, len(words), list[i].Title)
			}
		}
	}
	return res
}

// Tokenize lowercases and splits text into letter/digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countOverlap(queryWords, entityWords []string) int {
	set := make(map[string]struct{}, len(entityWords))
	for _, w := range entityWords {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range queryWords {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}
