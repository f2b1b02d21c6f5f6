package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/internal/helpers"
	"github.com/mohammad-safakhou/gradpath/profile"
)

// Planner converts a ready turn plus the current profile into a search plan,
// and folds any new structured facts from the plan back into the profile.
type Planner struct {
	config    *config.Config
	llm       LLMProvider
	store     profile.Store
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewPlanner creates a new planner instance.
func NewPlanner(cfg *config.Config, llm LLMProvider, store profile.Store, tele *telemetry.Telemetry) *Planner {
	return &Planner{
		config:    cfg,
		llm:       llm,
		store:     store,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[PLANNER] ", log.LstdFlags),
	}
}

// Plan creates a search plan for the turn. Planning degrades, never fails:
// when the model's output cannot be parsed even after repair, a minimal
// degenerate plan keeps the pipeline alive with one best-effort query.
// profile_updates from the plan are merged leniently into the store.
func (p *Planner) Plan(ctx context.Context, sessionID, userInput string) SearchPlan {
	snapshot, err := json.MarshalIndent(p.store.Get(sessionID), "", "  ")
	if err != nil {
		snapshot = []byte("{}")
	}

	prompt := fmt.Sprintf(`%s
CURRENT PROFILE (JSON):
%s

USER REQUEST:
%s
`, plannerPrompt, snapshot, userInput)

	response, err := p.llm.Generate(ctx, prompt, p.config.LLM.Routing.Plan, map[string]any{
		"temperature": 0.3,
	})
	p.telemetry.RecordLLMRequest("planner", err)

	var plan SearchPlan
	switch {
	case err != nil:
		p.logger.Printf("completion failed, using fallback plan: %v", err)
		plan = fallbackPlan(userInput)
	default:
		if derr := helpers.DecodeJSON(response, &plan); derr != nil {
			p.telemetry.RecordParseFailure("planner")
			p.logger.Printf("unparsable plan, using fallback: %v", derr)
			plan = fallbackPlan(response)
		}
	}

	p.mergeProfileUpdates(sessionID, plan.ProfileUpdates)

	return plan
}

// fallbackPlan builds the degenerate plan used when planning output is
// unusable: generic filters and a single query seeded with the first 50
// characters of whatever text is available.
func fallbackPlan(raw string) SearchPlan {
	seed := strings.TrimSpace(helpers.CleanModelOutput(raw))
	if len(seed) > 50 {
		seed = seed[:50]
	}
	return SearchPlan{
		HighLevelGoal:  "Search for graduate programs",
		ProfileUpdates: map[string]any{},
		Filters: PlanFilters{
			FieldOfStudy:       "unknown",
			DegreeType:         []string{"MS", "PhD"},
			CountriesOrRegions: []string{"United States", "Canada"},
		},
		SearchQueries:  []string{strings.TrimSpace("graduate programs " + seed)},
		NotesForSearch: "fallback plan: planner output could not be parsed",
	}
}

// mergeProfileUpdates applies the plan's profile_updates to the store. The
// merge is lenient: null values and placeholder strings are skipped, nothing
// is ever cleared.
func (p *Planner) mergeProfileUpdates(sessionID string, updates map[string]any) {
	if len(updates) == 0 {
		return
	}
	filtered := map[string]any{}
	for field, value := range updates {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && isPlaceholder(s) {
			continue
		}
		filtered[field] = value
	}
	if len(filtered) == 0 {
		return
	}
	p.logger.Printf("applying profile updates for session %s: %v", sessionID, filtered)
	p.store.Update(sessionID, filtered)
}
