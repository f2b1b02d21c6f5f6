package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/gradpath/tools/web_search/models"
)

const searchURL = "https://google.serper.dev/search"

type Search struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSearch(apiKey string, timeout time.Duration) *Search {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Search{apiKey: apiKey, baseURL: searchURL, client: &http.Client{Timeout: timeout}}
}

// Discover runs one Google search through serper.dev and returns up to k
// organic hits in provider order.
func (s *Search) Discover(ctx context.Context, q string, k int, locale string, country string) ([]models.Result, error) {
	// https://serper.dev/ docs
	payload := map[string]any{"q": q, "num": k}
	if locale != "" {
		payload["hl"] = locale
	}
	if country != "" {
		payload["gl"] = country
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("serper status %d: %s", resp.StatusCode, string(b))
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var out []models.Result
	for i, item := range raw.Organic {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return out, nil
}
