package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/tools/web_search/models"
)

// scriptedLLM replays canned responses in call order and records every prompt
// it sees.
type scriptedLLM struct {
	responses []string
	errs      []error
	prompts   []string
	models    []string
	calls     int
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string, model string, _ map[string]any) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.models = append(s.models, model)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", fmt.Errorf("scriptedLLM: unexpected call %d", i)
}

// fakeSearcher returns a fixed number of hits per query and records the
// queries it received. Queries listed in failOn return an error instead.
type fakeSearcher struct {
	hitsPerQuery int
	failOn       map[string]bool
	failSubstr   string
	queries      []string
}

func (f *fakeSearcher) Discover(_ context.Context, q string, k int, _ string, _ string) ([]models.Result, error) {
	f.queries = append(f.queries, q)
	if f.failOn[q] {
		return nil, fmt.Errorf("search backend unavailable")
	}
	if f.failSubstr != "" && strings.Contains(q, f.failSubstr) {
		return nil, fmt.Errorf("search backend unavailable")
	}
	n := f.hitsPerQuery
	if n > k {
		n = k
	}
	hits := make([]models.Result, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, models.Result{
			Title:   fmt.Sprintf("Result %d for %s", i+1, q),
			URL:     fmt.Sprintf("https://example%d.edu/programs", i+1),
			Snippet: "A graduate program listing.",
		})
	}
	return hits, nil
}

// newTestConfig returns a config with the stage routing and pipeline caps the
// core tests rely on. Model names are arbitrary because the scripted provider
// ignores them.
func newTestConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Routing: config.LLMRoutingConfig{
				Classify:   "mini",
				Coordinate: "main",
				Plan:       "main",
				Write:      "main",
				FollowUp:   "mini",
			},
		},
		Pipeline: config.PipelineConfig{
			MaxSearchQueries:    7,
			ResultsPerQuery:     5,
			MaxWriterCandidates: 30,
			DeepDiveMaxQueries:  10,
			DeepDiveCandidates:  30,
			CompareMaxQueries:   6,
			CompareCandidates:   15,
			MaxFollowUps:        3,
		},
	}
}
