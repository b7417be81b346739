package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `[
	{"id": "42", "title": "Passport Services", "agency_name": "Department of State", "abbreviation": "PPT"},
	{"id": "7", "title": "Forest Service", "agency_name": "Department of Agriculture", "url": "https://example.gov/fs"}
]`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 || items[0].ID != "42" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	items, err := Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(context.Background(), ""); err == nil {
		t.Fatal("empty source must fail")
	}
	if _, err := Load(context.Background(), "/does/not/exist.json"); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestItemURLFallback(t *testing.T) {
	withURL := FlatItem{ID: "7", URL: "https://example.gov/fs"}
	if got := ItemURL(withURL); got != "https://example.gov/fs" {
		t.Fatalf("got %q", got)
	}
	without := FlatItem{ID: "42"}
	if got := ItemURL(without); got != "/agency-component/42/" {
		t.Fatalf("got %q", got)
	}
}

func TestSuggest(t *testing.T) {
	items := []FlatItem{
		{ID: "42", Title: "Passport Services", AgencyName: "Department of State"},
		{ID: "7", Title: "Forest Service", AgencyName: "Department of Agriculture"},
	}
	ix, err := NewIndex(items)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	hits, err := ix.Suggest("passport", 5)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "42" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if hits[0].URL != "/agency-component/42/" {
		t.Fatalf("suggestion URL = %q", hits[0].URL)
	}

	none, err := ix.Suggest("zoning", 5)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no hits, got %+v", none)
	}
}
