package web_search

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/gradpath/tools/web_search/brave"
	"github.com/mohammad-safakhou/gradpath/tools/web_search/models"
	"github.com/mohammad-safakhou/gradpath/tools/web_search/serper"
)

// WebSearcher is the contract the pipeline depends on: one query in, an
// ordered list of hits out. A non-success transport response is an error;
// callers decide whether that aborts anything.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int, locale string, country string) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported web search provider")

func NewWebSearcher(provider Provider, apiKey string, timeout time.Duration) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.NewSearch(apiKey, timeout), nil
	case BraveProvider:
		return brave.NewSearch(apiKey, timeout), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
