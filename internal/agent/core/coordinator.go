package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/internal/helpers"
	"github.com/mohammad-safakhou/gradpath/profile"
)

const genericClarifyingQuestion = "I'd love to help you find the perfect graduate programs! Could you tell me a bit more about what you're looking for? Specifically, what field are you interested in, what degree level, and do you have a location preference?"

// Coordinator is the readiness gate for the new-search branch. Each turn it
// extracts any facts stated in the message, merges them into the profile, and
// decides whether enough is known to search or a clarifying question is due.
type Coordinator struct {
	config    *config.Config
	llm       LLMProvider
	store     profile.Store
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewCoordinator creates a new coordinator instance.
func NewCoordinator(cfg *config.Config, llm LLMProvider, store profile.Store, tele *telemetry.Telemetry) *Coordinator {
	return &Coordinator{
		config:    cfg,
		llm:       llm,
		store:     store,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[COORDINATOR] ", log.LstdFlags),
	}
}

// Decide runs one readiness transition for the session. Extracted facts are
// merged into the profile even when the decision is needs-info, so partial
// information survives across turns. A completion or parse failure degrades
// to a needs-info decision with a generic clarifying question; no extraction
// happens in that case.
func (c *Coordinator) Decide(ctx context.Context, sessionID, userInput string) CoordinatorDecision {
	fallback := CoordinatorDecision{
		NeedsMoreInfo:  true,
		MissingInfo:    []string{"basic requirements"},
		QuestionsToAsk: genericClarifyingQuestion,
		ReadyToSearch:  false,
	}

	snapshot, err := json.MarshalIndent(c.store.Get(sessionID), "", "  ")
	if err != nil {
		snapshot = []byte("{}")
	}

	prompt := fmt.Sprintf(`%s
CURRENT STUDENT PROFILE (JSON):
%s

USER'S LATEST MESSAGE:
%s

Now decide: do we have enough information to search for programs?
`, coordinatorPrompt, snapshot, userInput)

	response, err := c.llm.Generate(ctx, prompt, c.config.LLM.Routing.Coordinate, map[string]any{
		"temperature": 0.2,
	})
	c.telemetry.RecordLLMRequest("coordinator", err)
	if err != nil {
		c.logger.Printf("completion failed, asking for more info: %v", err)
		return fallback
	}

	var decision CoordinatorDecision
	if err := helpers.DecodeJSON(response, &decision); err != nil {
		c.telemetry.RecordParseFailure("coordinator")
		c.logger.Printf("unparsable decision, asking for more info: %v", err)
		return fallback
	}

	c.mergeExtracted(sessionID, decision.Extracted)

	// Readiness is monotone: once the profile holds the three required
	// fields, no turn may regress to needs-info, whatever the model said.
	p := c.store.Get(sessionID)
	if p.FieldOfStudy != "" && p.DegreeLevel != "" && (p.PreferredCountries != "" || p.PreferredCities != "") {
		decision.ReadyToSearch = true
		decision.NeedsMoreInfo = false
	}

	return decision
}

// mergeExtracted saves any non-placeholder facts from the current turn into
// the profile store. Location maps onto preferred_countries and funding onto
// funding_needs; gpa and field/degree map onto their profile fields.
func (c *Coordinator) mergeExtracted(sessionID string, extracted ExtractedInfo) {
	updates := map[string]any{}

	save := func(field string, value OptionalText) {
		if value.Present && !isPlaceholder(value.Text) {
			updates[field] = value.Text
		}
	}
	save("field_of_study", extracted.Field)
	save("degree_level", extracted.DegreeLevel)
	save("preferred_countries", extracted.Location)
	save("gpa", extracted.GPA)
	save("funding_needs", extracted.FundingPreference)

	if len(updates) == 0 {
		return
	}
	c.logger.Printf("merging extracted info for session %s: %v", sessionID, updates)
	c.store.Update(sessionID, updates)
}
