package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammad-safakhou/gradpath/tools/web_search/models"
)

const searchURL = "https://api.search.brave.com/res/v1/web/search"

type Search struct {
	apiKey string
	client *http.Client
}

func NewSearch(apiKey string, timeout time.Duration) *Search {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Search{apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

// Discover runs one web search through the Brave Search API and returns up to
// k hits in provider order.
func (s *Search) Discover(ctx context.Context, q string, k int, locale string, country string) ([]models.Result, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("count", fmt.Sprintf("%d", k))
	if locale != "" {
		params.Set("search_lang", locale)
	}
	if country != "" {
		params.Set("country", country)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("brave status %d: %s", resp.StatusCode, string(b))
	}

	var raw struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var out []models.Result
	for i, item := range raw.Web.Results {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: item.Title, URL: item.URL, Snippet: item.Description})
	}
	return out, nil
}
