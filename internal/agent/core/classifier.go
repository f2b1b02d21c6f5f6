package core

import (
	"context"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/gradpath/config"
	"github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/internal/helpers"
)

// Classifier labels a user turn with the pipeline branch it should receive.
// It is stateless: it consults no profile and writes no state.
type Classifier struct {
	config    *config.Config
	llm       LLMProvider
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewClassifier creates a new classifier instance.
func NewClassifier(cfg *config.Config, llm LLMProvider, tele *telemetry.Telemetry) *Classifier {
	return &Classifier{
		config:    cfg,
		llm:       llm,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[CLASSIFIER] ", log.LstdFlags),
	}
}

// Classify determines whether the turn is a new search, deep dive, or
// comparison. Classification can only degrade, never fail: any completion or
// parse problem falls back to new_search, which is the safe default branch.
func (c *Classifier) Classify(ctx context.Context, userInput string) ClassificationResult {
	fallback := ClassificationResult{
		QueryType:         QueryTypeNewSearch,
		Universities:      []string{},
		ComparisonAspects: []string{},
	}

	prompt := fmt.Sprintf("%s\nUSER MESSAGE:\n%s\n", classifierPrompt, userInput)

	response, err := c.llm.Generate(ctx, prompt, c.config.LLM.Routing.Classify, map[string]any{
		"temperature": 0.1,
	})
	c.telemetry.RecordLLMRequest("classifier", err)
	if err != nil {
		c.logger.Printf("completion failed, defaulting to new_search: %v", err)
		return fallback
	}

	var result ClassificationResult
	if err := helpers.DecodeJSON(response, &result); err != nil {
		c.telemetry.RecordParseFailure("classifier")
		c.logger.Printf("unparsable classification, defaulting to new_search: %v", err)
		return fallback
	}

	switch result.QueryType {
	case QueryTypeDeepDive, QueryTypeCompare, QueryTypeNewSearch:
	default:
		result.QueryType = QueryTypeNewSearch
	}
	return result
}
