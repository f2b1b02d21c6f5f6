package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/profile"
	"github.com/mohammad-safakhou/gradpath/tools/web_search"
)

const defaultClarifyingQuestion = "Could you share more about what you're looking for?"

// Orchestrator runs the conversational loop: classify the turn, route it to
// the matching branch, and assemble the reply. It owns no state beyond its
// wiring; all session state lives in the profile store.
type Orchestrator struct {
	config     *config.Config
	store      profile.Store
	telemetry  *telemetry.Telemetry
	logger     *log.Logger
	classifier *Classifier
	coord      *Coordinator
	planner    *Planner
	aggregator *Aggregator
	writer     *Writer
	handlers   *Handlers
	followUps  *FollowUpGenerator
}

// NewOrchestrator wires the full pipeline from configuration: the configured
// LLM provider, the configured web-search backend, and one stage per branch.
func NewOrchestrator(cfg *config.Config, store profile.Store, tele *telemetry.Telemetry) (*Orchestrator, error) {
	llm, err := NewLLMProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	ws := cfg.Sources.WebSearch
	apiKey := ws.SerperAPIKey
	if ws.Provider == "brave" {
		apiKey = ws.BraveAPIKey
	}
	searcher, err := web_search.NewWebSearcher(web_search.Provider(ws.Provider), apiKey, ws.Timeout)
	if err != nil {
		return nil, fmt.Errorf("web searcher: %w", err)
	}

	return newOrchestratorWith(cfg, store, tele, llm, searcher), nil
}

// newOrchestratorWith assembles the pipeline around explicit provider and
// searcher implementations.
func newOrchestratorWith(cfg *config.Config, store profile.Store, tele *telemetry.Telemetry, llm LLMProvider, searcher web_search.WebSearcher) *Orchestrator {
	aggregator := NewAggregator(searcher, cfg.Sources, cfg.Pipeline.ResultsPerQuery, tele)
	return &Orchestrator{
		config:     cfg,
		store:      store,
		telemetry:  tele,
		logger:     log.New(log.Writer(), "[ORCHESTRATOR] ", log.LstdFlags),
		classifier: NewClassifier(cfg, llm, tele),
		coord:      NewCoordinator(cfg, llm, store, tele),
		planner:    NewPlanner(cfg, llm, store, tele),
		aggregator: aggregator,
		writer:     NewWriter(cfg, llm, store, tele),
		handlers:   NewHandlers(cfg, llm, store, aggregator, tele),
		followUps:  NewFollowUpGenerator(cfg, llm, store, tele),
	}
}

// RunTurn processes one user message for a session and returns the assistant
// reply. Deep-dive and comparison turns bypass the coordinator and planner
// entirely; new-search turns gate on profile readiness first. An error means
// the turn produced no usable reply and the caller should surface the failure.
func (o *Orchestrator) RunTurn(ctx context.Context, sessionID, userText string) (string, error) {
	classification := o.classifier.Classify(ctx, userText)
	o.logger.Printf("session %s classified as %s", sessionID, classification.QueryType)

	switch {
	case classification.QueryType == QueryTypeDeepDive && len(classification.Universities) >= 1:
		o.telemetry.RecordTurn("deep_dive")
		report, err := o.handlers.DeepDive(ctx, sessionID, userText, classification.Universities)
		if err != nil {
			return "", err
		}
		return report + followUpSection(deepDiveFollowUps(classification.Universities[0])), nil

	case classification.QueryType == QueryTypeCompare && len(classification.Universities) >= 2:
		o.telemetry.RecordTurn("compare")
		report, err := o.handlers.Compare(ctx, sessionID, classification.Universities, classification.ComparisonAspects)
		if err != nil {
			return "", err
		}
		return report + followUpSection(comparisonFollowUps()), nil
	}

	// new_search, plus deep-dive/compare turns missing enough universities.
	o.telemetry.RecordTurn("new_search")

	decision := o.coord.Decide(ctx, sessionID, userText)
	if decision.NeedsMoreInfo && !decision.ReadyToSearch {
		question := strings.TrimSpace(decision.QuestionsToAsk)
		if question == "" {
			question = defaultClarifyingQuestion
		}
		return question, nil
	}

	plan := o.planner.Plan(ctx, sessionID, userText)
	candidates := o.aggregator.Run(ctx, plan.SearchQueries, o.config.Pipeline.MaxSearchQueries)
	o.logger.Printf("session %s: %d candidates from %d queries", sessionID, len(candidates), len(plan.SearchQueries))

	report, err := o.writer.Write(ctx, sessionID, plan, candidates)
	if err != nil {
		return "", fmt.Errorf("turn failed: %w", err)
	}

	questions := o.followUps.Generate(ctx, sessionID, QueryTypeNewSearch, candidates)
	return report + followUpSection(questions), nil
}

// followUpSection renders follow-up questions as a numbered markdown block
// appended after the report body.
func followUpSection(questions []string) string {
	if len(questions) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n---\n\n### What would you like to explore next?\n\n")
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
	}
	return sb.String()
}
