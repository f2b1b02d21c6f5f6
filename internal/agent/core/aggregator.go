package core

import (
	"context"
	"log"
	"net/url"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/tools/web_search"
)

// Aggregator issues a batch of search queries and flattens the hits into
// candidates. Ordering is discovery order: query order, hit order within each
// query. No dedup, no ranking - downstream consumers prioritize.
type Aggregator struct {
	searcher  web_search.WebSearcher
	cfg       config.WebSearchConfig
	perQuery  int
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewAggregator creates a new aggregator instance.
func NewAggregator(searcher web_search.WebSearcher, cfg config.SourcesConfig, perQuery int, tele *telemetry.Telemetry) *Aggregator {
	if perQuery <= 0 {
		perQuery = 5
	}
	return &Aggregator{
		searcher:  searcher,
		cfg:       cfg.WebSearch,
		perQuery:  perQuery,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
	}
}

// Run executes up to maxQueries queries and returns the concatenation of all
// successful extractions. A failure on one query is logged and skipped; it
// never aborts the remaining queries. Total results are bounded by
// (queries attempted) x (per-query cap).
func (a *Aggregator) Run(ctx context.Context, queries []string, maxQueries int) []SearchCandidate {
	if maxQueries > 0 && len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}

	var all []SearchCandidate
	for _, q := range queries {
		hits, err := a.searcher.Discover(ctx, q, a.perQuery, a.cfg.Locale, a.cfg.Country)
		a.telemetry.RecordSearchQuery(err)
		if err != nil {
			a.logger.Printf("search error for query %q, skipping: %v", q, err)
			continue
		}
		a.telemetry.RecordCandidates(len(hits))
		for _, hit := range hits {
			all = append(all, SearchCandidate{
				Title:   hit.Title,
				URL:     hit.URL,
				Snippet: hit.Snippet,
				Source:  sourceDomain(hit.URL),
			})
		}
	}
	return all
}

// sourceDomain extracts the host of a candidate URL; best effort only.
func sourceDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
