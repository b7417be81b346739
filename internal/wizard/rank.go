package wizard

import (
	"sort"

	"recordwizard/internal/catalog"
	"recordwizard/internal/predict"
)

// Scores injected for matches that must outrank every remote
// prediction: a local catalog match sorts above everything, an exact
// agency-name match just below it. Both bypass normalization.
const (
	localMatchScore = 10000
	nameMatchScore  = 9999
)

// Normalizer maps a raw remote confidence score onto the 0..1 scale the
// thresholds are expressed in. It must be applied to every remote
// candidate before thresholding, sorting or any cross-source
// comparison.
type Normalizer func(raw float64) float64

// ScaleNormalizer multiplies raw scores by scale and clamps to [0,1].
func ScaleNormalizer(scale float64) Normalizer {
	return func(raw float64) float64 {
		v := raw * scale
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
}

// TrustLocalMatch reports whether a local catalog match accounts for
// all but at most one query word. A trusted match overrides the intent
// model's predefined-flow hint.
func TrustLocalMatch(item *catalog.FlatItem, wordsMatched, queryWords int) bool {
	return item != nil && queryWords-wordsMatched <= 1
}

// RankInput gathers the candidate sources to be merged.
type RankInput struct {
	// LocalMatch, if set, is injected at the top of the agency list.
	LocalMatch *catalog.FlatItem
	// Model is the successful predictions output. Rank is not called at
	// all when the call failed.
	Model predict.ModelOutput
}

// RankResult is the merged, thresholded, de-duplicated recommendation
// set.
type RankResult struct {
	Agencies      []predict.Candidate
	Links         []predict.Candidate
	AgenciesFirst bool
}

// Rank merges the local match and the four remote candidate sets into
// one ranked agency list plus a separately thresholded link list.
// Agencies are sorted by descending normalized score (stable, so ties
// keep encounter order) and de-duplicated by id, first occurrence wins;
// sorting first guarantees the fixed-score injected matches survive the
// dedup over lower-ranked duplicates.
func Rank(in RankInput, agencyThreshold, linkThreshold float64, normalize Normalizer) RankResult {
	res := RankResult{
		Agencies: []predict.Candidate{},
		Links:    []predict.Candidate{},
	}

	if in.LocalMatch != nil {
		res.Agencies = append(res.Agencies, predict.Candidate{
			ID:              in.LocalMatch.ID,
			Title:           in.LocalMatch.Title,
			URL:             catalog.ItemURL(*in.LocalMatch),
			Abbreviation:    in.LocalMatch.Abbreviation,
			ConfidenceScore: localMatchScore,
		})
		res.AgenciesFirst = true
	}

	// Exact name matches are always included, near the top.
	for _, agency := range in.Model.AgencyNameMatch {
		agency.ConfidenceScore = nameMatchScore
		res.Agencies = append(res.Agencies, agency)
		res.AgenciesFirst = true
	}

	for _, agency := range in.Model.AgencyMissionMatch {
		agency.ConfidenceScore = normalize(agency.ConfidenceScore)
		if agency.ConfidenceScore >= agencyThreshold {
			res.Agencies = append(res.Agencies, agency)
		}
	}

	for _, agency := range in.Model.FinderCandidates() {
		agency.ConfidenceScore = normalize(agency.ConfidenceScore)
		if agency.ConfidenceScore >= agencyThreshold {
			res.Agencies = append(res.Agencies, agency)
		}
	}

	sort.SliceStable(res.Agencies, func(i, j int) bool {
		return res.Agencies[i].ConfidenceScore > res.Agencies[j].ConfidenceScore
	})

	seen := make(map[string]struct{}, len(res.Agencies))
	deduped := res.Agencies[:0]
	for _, agency := range res.Agencies {
		if _, ok := seen[agency.ID]; ok {
			continue
		}
		seen[agency.ID] = struct{}{}
		deduped = append(deduped, agency)
	}
	res.Agencies = deduped

	// Links: threshold and normalize only, source order preserved.
	for _, link := range in.Model.FreqdocPredictions {
		link.ConfidenceScore = normalize(link.ConfidenceScore)
		if link.ConfidenceScore >= linkThreshold {
			res.Links = append(res.Links, link)
		}
	}

	return res
}
