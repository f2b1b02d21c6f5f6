package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/profile"
)

// Writer synthesizes the final markdown report for a new-search turn. It is
// the one stage with no fallback: a report the pipeline cannot produce is a
// failed turn, surfaced to the caller as an error.
type Writer struct {
	config    *config.Config
	llm       LLMProvider
	store     profile.Store
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewWriter creates a new writer instance.
func NewWriter(cfg *config.Config, llm LLMProvider, store profile.Store, tele *telemetry.Telemetry) *Writer {
	return &Writer{
		config:    cfg,
		llm:       llm,
		store:     store,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[WRITER] ", log.LstdFlags),
	}
}

// Write produces the markdown report from the profile, the plan, and the
// search candidates. Candidates beyond the configured cap are dropped from
// the prompt in discovery order.
func (w *Writer) Write(ctx context.Context, sessionID string, plan SearchPlan, candidates []SearchCandidate) (string, error) {
	if max := w.config.Pipeline.MaxWriterCandidates; max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}

	profileJSON, err := json.MarshalIndent(w.store.Get(sessionID), "", "  ")
	if err != nil {
		profileJSON = []byte("{}")
	}
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		planJSON = []byte("{}")
	}
	candidatesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		candidatesJSON = []byte("[]")
	}

	prompt := fmt.Sprintf(`%s
STUDENT PROFILE (JSON):
%s

SEARCH PLAN (JSON):
%s

PROGRAM CANDIDATES (JSON):
%s
`, writerPrompt, profileJSON, planJSON, candidatesJSON)

	response, err := w.llm.Generate(ctx, prompt, w.config.LLM.Routing.Write, map[string]any{
		"temperature": 0.5,
	})
	w.telemetry.RecordLLMRequest("writer", err)
	if err != nil {
		return "", fmt.Errorf("report synthesis: %w", err)
	}
	return response, nil
}
