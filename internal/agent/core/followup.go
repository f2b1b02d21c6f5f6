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

// genericFollowUps is the fixed fallback list used whenever follow-up
// generation degrades.
var genericFollowUps = []string{
	"Would you like me to dive deeper into any specific program?",
	"Should I search for programs with different requirements?",
	"Are you interested in comparing specific universities?",
}

// followUpResult is the model's structured follow-up output.
type followUpResult struct {
	FollowUpQuestions []string `json:"follow_up_questions"`
	Reasoning         string   `json:"reasoning"`
}

// FollowUpGenerator proposes the next conversational moves after a search
// turn. Purely additive to the report; it can only degrade to the generic
// list, never fail the turn.
type FollowUpGenerator struct {
	config    *config.Config
	llm       LLMProvider
	store     profile.Store
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewFollowUpGenerator creates a new follow-up generator instance.
func NewFollowUpGenerator(cfg *config.Config, llm LLMProvider, store profile.Store, tele *telemetry.Telemetry) *FollowUpGenerator {
	return &FollowUpGenerator{
		config:    cfg,
		llm:       llm,
		store:     store,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[FOLLOWUP] ", log.LstdFlags),
	}
}

// Generate returns up to the configured maximum of contextual follow-up
// questions for the candidates just presented.
func (f *FollowUpGenerator) Generate(ctx context.Context, sessionID string, queryType QueryType, candidates []SearchCandidate) []string {
	snapshot, err := json.Marshal(f.store.Snapshot(sessionID))
	if err != nil {
		snapshot = []byte("{}")
	}

	prompt := fmt.Sprintf(followUpPrompt, snapshot, queryType, summarizeCandidates(candidates))

	response, err := f.llm.Generate(ctx, prompt, f.config.LLM.Routing.FollowUp, map[string]any{
		"temperature": 0.6,
	})
	f.telemetry.RecordLLMRequest("followup", err)
	if err != nil {
		f.logger.Printf("completion failed, using generic follow-ups: %v", err)
		return f.cap(genericFollowUps)
	}

	var result followUpResult
	if err := helpers.DecodeJSON(response, &result); err != nil {
		f.telemetry.RecordParseFailure("followup")
		f.logger.Printf("unparsable follow-ups, using generic list: %v", err)
		return f.cap(genericFollowUps)
	}
	if len(result.FollowUpQuestions) == 0 {
		return f.cap(genericFollowUps)
	}
	return f.cap(result.FollowUpQuestions)
}

func (f *FollowUpGenerator) cap(questions []string) []string {
	if max := f.config.Pipeline.MaxFollowUps; max > 0 && len(questions) > max {
		return questions[:max]
	}
	return questions
}

// summarizeCandidates compresses the result set into a one-line summary for
// the follow-up prompt: a count plus up to five distinct source domains.
func summarizeCandidates(candidates []SearchCandidate) string {
	if len(candidates) == 0 {
		return "No programs found"
	}
	seen := map[string]struct{}{}
	var domains []string
	for _, c := range candidates {
		if c.Source == "" {
			continue
		}
		if _, ok := seen[c.Source]; ok {
			continue
		}
		seen[c.Source] = struct{}{}
		domains = append(domains, c.Source)
		if len(domains) == 5 {
			break
		}
	}
	return fmt.Sprintf("Found %d results from sources including: %s", len(candidates), strings.Join(domains, ", "))
}
