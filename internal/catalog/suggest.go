package catalog

import (
	"sync"

	"github.com/blevesearch/bleve"
)

// Suggestion is a typeahead hit against the flat catalog.
type Suggestion struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Abbreviation string  `json:"abbreviation,omitempty"`
	URL          string  `json:"url"`
	Score        float64 `json:"score"`
}

// Index is an in-memory full-text index over the flat catalog, used for
// the suggestion endpoint. The wizard's own matching does not use it.
type Index struct {
	bleve bleve.Index
	items map[string]FlatItem
	mu    sync.RWMutex
}

// NewIndex builds the suggestion index from the loaded catalog.
func NewIndex(items []FlatItem) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]FlatItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
		if err := idx.Index(item.ID, item); err != nil {
			return nil, err
		}
	}
	return &Index{bleve: idx, items: byID}, nil
}

// Suggest returns up to k catalog entries matching the query text.
func (ix *Index) Suggest(q string, k int) ([]Suggestion, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if k <= 0 {
		k = 10
	}
	query := bleve.NewMatchQuery(q)
	req := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := ix.bleve.Search(req)
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	for _, hit := range res.Hits {
		item, ok := ix.items[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Suggestion{
			ID:           item.ID,
			Title:        item.Title,
			Abbreviation: item.Abbreviation,
			URL:          ItemURL(item),
			Score:        hit.Score,
		})
	}
	return out, nil
}
