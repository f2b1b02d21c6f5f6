package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/profile"
)

const noResultsGuidance = "No specific results found. Provide general guidance."

// Handlers serve the deep-dive and comparison branches. Both skip the
// coordinator and planner entirely: queries are built procedurally from the
// classified entities plus the profile's field and degree level.
type Handlers struct {
	config     *config.Config
	llm        LLMProvider
	store      profile.Store
	aggregator *Aggregator
	telemetry  *telemetry.Telemetry
	logger     *log.Logger
}

// NewHandlers creates the deep-dive/comparison handler pair.
func NewHandlers(cfg *config.Config, llm LLMProvider, store profile.Store, aggregator *Aggregator, tele *telemetry.Telemetry) *Handlers {
	return &Handlers{
		config:     cfg,
		llm:        llm,
		store:      store,
		aggregator: aggregator,
		telemetry:  tele,
		logger:     log.New(log.Writer(), "[HANDLERS] ", log.LstdFlags),
	}
}

// studyContext returns the field and degree used to scope handler queries,
// with defaults when the profile has neither.
func (h *Handlers) studyContext(sessionID string) (string, string) {
	p := h.store.Get(sessionID)
	field := p.FieldOfStudy
	if field == "" {
		field = "graduate programs"
	}
	degree := p.DegreeLevel
	if degree == "" {
		degree = "MS"
	}
	return field, degree
}

// deepDiveFacets are the query angles explored per university. The university
// name is the only quoted phrase, keeping each query natural enough to recall
// results.
var deepDiveFacets = []string{
	`"%s" %s %s program overview`,
	`"%s" %s %s admissions requirements`,
	`"%s" %s graduate program funding scholarships`,
	`"%s" %s %s application process deadlines`,
	`"%s" %s faculty research areas`,
	`"%s" %s graduate outcomes careers`,
}

// DeepDive provides an extensive report about specific university programs.
// Search failures degrade the candidate pool; the synthesis call always runs,
// and a synthesis failure is the turn's failure.
func (h *Handlers) DeepDive(ctx context.Context, sessionID, userInput string, universities []string) (string, error) {
	field, degree := h.studyContext(sessionID)

	if len(universities) > 2 {
		universities = universities[:2]
	}
	var queries []string
	for _, uni := range universities {
		for _, facet := range deepDiveFacets {
			n := strings.Count(facet, "%s")
			if n == 3 {
				queries = append(queries, fmt.Sprintf(facet, uni, field, degree))
			} else {
				queries = append(queries, fmt.Sprintf(facet, uni, field))
			}
		}
	}

	candidates := h.aggregator.Run(ctx, queries, h.config.Pipeline.DeepDiveMaxQueries)
	if len(candidates) > h.config.Pipeline.DeepDiveCandidates {
		candidates = candidates[:h.config.Pipeline.DeepDiveCandidates]
	}

	prompt := fmt.Sprintf(deepDivePrompt, userInput, formatCandidates(candidates))

	response, err := h.llm.Generate(ctx, prompt, h.config.LLM.Routing.Write, map[string]any{
		"temperature": 0.5,
	})
	h.telemetry.RecordLLMRequest("deep_dive", err)
	if err != nil {
		return "", fmt.Errorf("deep dive synthesis: %w", err)
	}
	return response, nil
}

// Compare contrasts universities on the requested aspects. Query fan-out is
// one general query per university plus up to two aspect queries each, capped
// by configuration.
func (h *Handlers) Compare(ctx context.Context, sessionID string, universities, aspects []string) (string, error) {
	field, degree := h.studyContext(sessionID)

	if len(universities) > 3 {
		universities = universities[:3]
	}
	aspectQueries := aspects
	if len(aspectQueries) > 2 {
		aspectQueries = aspectQueries[:2]
	}
	var queries []string
	for _, uni := range universities {
		queries = append(queries, fmt.Sprintf(`"%s" %s %s program funding requirements`, uni, field, degree))
		for _, aspect := range aspectQueries {
			queries = append(queries, fmt.Sprintf(`"%s" %s %s`, uni, field, aspect))
		}
	}

	candidates := h.aggregator.Run(ctx, queries, h.config.Pipeline.CompareMaxQueries)
	if len(candidates) > h.config.Pipeline.CompareCandidates {
		candidates = candidates[:h.config.Pipeline.CompareCandidates]
	}

	aspectList := strings.Join(aspects, ", ")
	if aspectList == "" {
		aspectList = "all aspects"
	}
	prompt := fmt.Sprintf(comparisonPrompt, strings.Join(universities, ", "), aspectList, formatCandidates(candidates))

	response, err := h.llm.Generate(ctx, prompt, h.config.LLM.Routing.Write, map[string]any{
		"temperature": 0.5,
	})
	h.telemetry.RecordLLMRequest("comparison", err)
	if err != nil {
		return "", fmt.Errorf("comparison synthesis: %w", err)
	}
	return response, nil
}

// formatCandidates renders candidates for a synthesis prompt. Zero candidates
// become an instruction to provide general guidance - synthesis is never
// skipped for empty results.
func formatCandidates(candidates []SearchCandidate) string {
	if len(candidates) == 0 {
		return noResultsGuidance
	}
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, fmt.Sprintf("Title: %s\nURL: %s\nSnippet: %s", c.Title, c.URL, c.Snippet))
	}
	return strings.Join(parts, "\n\n")
}

// deepDiveFollowUps are the hand-templated next questions for the deep-dive
// branch.
func deepDiveFollowUps(university string) []string {
	return []string{
		fmt.Sprintf("Would you like to compare %s with other similar universities?", university),
		"Should I search for more programs in the same field at other universities?",
		fmt.Sprintf("Are you interested in learning about application strategies for %s?", university),
	}
}

// comparisonFollowUps are the hand-templated next questions for the
// comparison branch.
func comparisonFollowUps() []string {
	return []string{
		"Would you like a detailed breakdown of the application process for these programs?",
		"Should I find more universities similar to your top choice?",
		"Are you interested in learning about student experiences at these universities?",
	}
}
