package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FlatItem is one locally searchable entry of the flat agency catalog.
type FlatItem struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Abbreviation       string `json:"abbreviation,omitempty"`
	AgencyName         string `json:"agency_name,omitempty"`
	AgencyAbbreviation string `json:"agency_abbreviation,omitempty"`
	URL                string `json:"url,omitempty"`
}

// SearchText is the text the local matcher scores query words against.
func (f FlatItem) SearchText() string {
	parts := []string{f.Title, f.Abbreviation, f.AgencyName, f.AgencyAbbreviation}
	return strings.Join(parts, " ")
}

// ItemURL resolves the public link for an item, falling back to the
// canonical component path when the catalog carries no explicit URL.
func ItemURL(f FlatItem) string {
	if f.URL != "" {
		return f.URL
	}
	return fmt.Sprintf("/agency-component/%s/", f.ID)
}

// Load reads the flat list from a local path or an http(s) URL.
func Load(ctx context.Context, source string) ([]FlatItem, error) {
	if source == "" {
		return nil, fmt.Errorf("catalog source not configured")
	}

	var raw []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch catalog: %s", resp.Status)
		}
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		raw, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	var items []FlatItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return items, nil
}
