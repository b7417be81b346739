package wizard

import (
	"testing"

	"recordwizard/internal/catalog"
	"recordwizard/internal/predict"
)

func identity() Normalizer { return ScaleNormalizer(1) }

func TestRankInjectsLocalMatchFirst(t *testing.T) {
	local := &catalog.FlatItem{ID: "42", Title: "Passport Services"}
	model := predict.ModelOutput{
		AgencyMissionMatch: []predict.Candidate{
			{ID: "7", Title: "Dept of State", ConfidenceScore: 0.99},
		},
	}

	res := Rank(RankInput{LocalMatch: local, Model: model}, 0.5, 0.5, identity())

	if len(res.Agencies) != 2 {
		t.Fatalf("expected 2 agencies, got %d", len(res.Agencies))
	}
	if res.Agencies[0].ID != "42" {
		t.Fatalf("local match must rank first, got %s", res.Agencies[0].ID)
	}
	if res.Agencies[0].ConfidenceScore != localMatchScore {
		t.Fatalf("local match must carry the fixed maximal score, got %v", res.Agencies[0].ConfidenceScore)
	}
	if !res.AgenciesFirst {
		t.Fatal("a local match must force AgenciesFirst")
	}
}

func TestRankNameMatchJustBelowLocal(t *testing.T) {
	local := &catalog.FlatItem{ID: "1", Title: "IRS"}
	model := predict.ModelOutput{
		AgencyNameMatch: []predict.Candidate{{ID: "2", Title: "Internal Revenue Service", ConfidenceScore: 0.1}},
	}

	res := Rank(RankInput{LocalMatch: local, Model: model}, 0.5, 0.5, identity())
	if res.Agencies[0].ID != "1" || res.Agencies[1].ID != "2" {
		t.Fatalf("expected local then name match, got %+v", res.Agencies)
	}
	if res.Agencies[1].ConfidenceScore != nameMatchScore {
		t.Fatalf("name match score = %v, want %v", res.Agencies[1].ConfidenceScore, float64(nameMatchScore))
	}
}

func TestRankThresholdFiltersRemoteCandidates(t *testing.T) {
	model := predict.ModelOutput{
		AgencyMissionMatch: []predict.Candidate{
			{ID: "a", ConfidenceScore: 0.5},
			{ID: "b", ConfidenceScore: 0.49},
		},
		AgencyFinderPredictions: [][]predict.Candidate{{
			{ID: "c", ConfidenceScore: 0.7},
			{ID: "d", ConfidenceScore: 0.1},
		}},
	}

	res := Rank(RankInput{Model: model}, 0.5, 0.5, identity())
	if len(res.Agencies) != 2 {
		t.Fatalf("expected threshold to keep a and c only, got %+v", res.Agencies)
	}
	for _, agency := range res.Agencies {
		if agency.ConfidenceScore < 0.5 {
			t.Fatalf("agency %s below threshold with %v", agency.ID, agency.ConfidenceScore)
		}
	}
	if res.AgenciesFirst {
		t.Fatal("no local/name match: AgenciesFirst must stay false")
	}
}

func TestRankNormalizesBeforeThresholding(t *testing.T) {
	// Raw scores on a 0..100 scale; the normalizer maps them to 0..1.
	model := predict.ModelOutput{
		AgencyMissionMatch: []predict.Candidate{
			{ID: "hi", ConfidenceScore: 80},
			{ID: "lo", ConfidenceScore: 20},
		},
	}

	res := Rank(RankInput{Model: model}, 0.5, 0.5, ScaleNormalizer(0.01))
	if len(res.Agencies) != 1 || res.Agencies[0].ID != "hi" {
		t.Fatalf("expected only the normalized 0.8 candidate, got %+v", res.Agencies)
	}
	if res.Agencies[0].ConfidenceScore != 0.8 {
		t.Fatalf("score must be normalized, got %v", res.Agencies[0].ConfidenceScore)
	}
}

func TestRankSortDescendingStable(t *testing.T) {
	model := predict.ModelOutput{
		AgencyMissionMatch: []predict.Candidate{
			{ID: "m1", ConfidenceScore: 0.7},
			{ID: "m2", ConfidenceScore: 0.9},
			{ID: "m3", ConfidenceScore: 0.7},
		},
	}

	res := Rank(RankInput{Model: model}, 0.5, 0.5, identity())
	want := []string{"m2", "m1", "m3"}
	for i, id := range want {
		if res.Agencies[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (stable desc order)", i, res.Agencies[i].ID, id)
		}
	}
	for i := 1; i < len(res.Agencies); i++ {
		if res.Agencies[i].ConfidenceScore > res.Agencies[i-1].ConfidenceScore {
			t.Fatal("agency list must be non-increasing in score")
		}
	}
}

func TestRankDedupKeepsHighestRanked(t *testing.T) {
	local := &catalog.FlatItem{ID: "dup", Title: "Passport Services"}
	model := predict.ModelOutput{
		AgencyMissionMatch: []predict.Candidate{
			{ID: "dup", Title: "Passport Services", ConfidenceScore: 0.9},
			{ID: "other", ConfidenceScore: 0.8},
		},
	}

	res := Rank(RankInput{LocalMatch: local, Model: model}, 0.5, 0.5, identity())
	seen := map[string]int{}
	for _, agency := range res.Agencies {
		seen[agency.ID]++
	}
	if seen["dup"] != 1 {
		t.Fatalf("expected exactly one entry for duplicated id, got %d", seen["dup"])
	}
	if res.Agencies[0].ID != "dup" || res.Agencies[0].ConfidenceScore != localMatchScore {
		t.Fatalf("the injected local match must survive the dedup, got %+v", res.Agencies[0])
	}
}

func TestRankLinksThresholdNoDedup(t *testing.T) {
	model := predict.ModelOutput{
		FreqdocPredictions: []predict.Candidate{
			{ID: "l1", ConfidenceScore: 0.6},
			{ID: "l1", ConfidenceScore: 0.8},
			{ID: "l2", ConfidenceScore: 0.2},
		},
	}

	res := Rank(RankInput{Model: model}, 0.5, 0.5, identity())
	if len(res.Links) != 2 {
		t.Fatalf("links get thresholded but never de-duplicated, got %+v", res.Links)
	}
	// Source order preserved, no re-sort.
	if res.Links[0].ConfidenceScore != 0.6 || res.Links[1].ConfidenceScore != 0.8 {
		t.Fatalf("link order must follow the source result, got %+v", res.Links)
	}
	for _, link := range res.Links {
		if link.ConfidenceScore < 0.5 {
			t.Fatalf("link %s below link threshold", link.ID)
		}
	}
}

func TestRankIndependentLinkThreshold(t *testing.T) {
	model := predict.ModelOutput{
		FreqdocPredictions: []predict.Candidate{{ID: "l1", ConfidenceScore: 0.3}},
	}
	res := Rank(RankInput{Model: model}, 0.9, 0.25, identity())
	if len(res.Links) != 1 {
		t.Fatalf("link threshold is independently configurable, got %+v", res.Links)
	}
}

func TestTrustLocalMatch(t *testing.T) {
	item := &catalog.FlatItem{ID: "1"}
	cases := []struct {
		name                     string
		item                     *catalog.FlatItem
		wordsMatched, queryWords int
		want                     bool
	}{
		{"exact", item, 1, 1, true},
		{"one unmatched word", item, 2, 3, true},
		{"two unmatched words", item, 1, 3, false},
		{"no item", nil, 1, 1, false},
	}
	for _, tc := range cases {
		if got := TrustLocalMatch(tc.item, tc.wordsMatched, tc.queryWords); got != tc.want {
			t.Fatalf("%s: TrustLocalMatch = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestScaleNormalizerClamps(t *testing.T) {
	n := ScaleNormalizer(0.5)
	if got := n(4); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := n(-2); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	if got := n(1); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
