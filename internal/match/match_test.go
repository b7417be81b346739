package match

import (
	"testing"

	"recordwizard/internal/catalog"
)

var flatList = []catalog.FlatItem{
	{ID: "1", Title: "Passport Services", AgencyName: "Department of State"},
	{ID: "2", Title: "Forest Service", AgencyName: "Department of Agriculture"},
	{ID: "3", Title: "Internal Revenue Service", Abbreviation: "IRS"},
}

func TestSearchSingleWordExactOverlap(t *testing.T) {
	res := Search("passport", flatList, nil)
	if res.Item == nil || res.Item.ID != "1" {
		t.Fatalf("expected Passport Services, got %+v", res.Item)
	}
	if res.QueryWords != 1 || res.WordsMatched != 1 {
		t.Fatalf("counters = %d/%d, want 1/1", res.WordsMatched, res.QueryWords)
	}
}

func TestSearchAbbreviationCounts(t *testing.T) {
	res := Search("irs transcript", flatList, nil)
	if res.Item == nil || res.Item.ID != "3" {
		t.Fatalf("abbreviation must be searchable, got %+v", res.Item)
	}
	if res.WordsMatched != 1 || res.QueryWords != 2 {
		t.Fatalf("counters = %d/%d, want 1/2", res.WordsMatched, res.QueryWords)
	}
}

func TestSearchTieBreakKeepsCatalogOrder(t *testing.T) {
	// "department" overlaps items 1 and 2 equally.
	res := Search("department", flatList, nil)
	if res.Item == nil || res.Item.ID != "1" {
		t.Fatalf("ties must keep the first catalog entry, got %+v", res.Item)
	}
}

func TestSearchNoOverlap(t *testing.T) {
	res := Search("zoning permits", flatList, nil)
	if res.Item != nil {
		t.Fatalf("expected no match, got %+v", res.Item)
	}
	if res.WordsMatched != 0 {
		t.Fatalf("wordsMatched = %d, want 0", res.WordsMatched)
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	res := Search("passport", nil, nil)
	if res.Item != nil {
		t.Fatalf("expected nil item on empty catalog, got %+v", res.Item)
	}
	if res.QueryWords != 1 {
		t.Fatalf("queryWords = %d, want 1", res.QueryWords)
	}
}

func TestSearchCountersNeverExceedQueryWords(t *testing.T) {
	queries := []string{"", "passport", "internal revenue service records", "a b c d e f"}
	for _, q := range queries {
		res := Search(q, flatList, nil)
		if res.WordsMatched > res.QueryWords {
			t.Fatalf("query %q: wordsMatched %d > queryWords %d", q, res.WordsMatched, res.QueryWords)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The IRS, form 1040-EZ!")
	want := []string{"the", "irs", "form", "1040", "ez"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
