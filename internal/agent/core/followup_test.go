package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/gradpath/profile/inmemory"
)

func newTestFollowUps(llm LLMProvider) *FollowUpGenerator {
	return NewFollowUpGenerator(newTestConfig(), llm, inmemory.NewInMemoryProfileStore(), nil)
}

func TestGenerate_ReturnsModelQuestionsCapped(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{
		"follow_up_questions": ["Q1?", "Q2?", "Q3?", "Q4?", "Q5?"],
		"reasoning": "covers funding, deadlines and scope"
	}`}}
	g := newTestFollowUps(llm)

	questions := g.Generate(context.Background(), "s1", QueryTypeNewSearch, nil)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?"}, questions)
}

func TestGenerate_CompletionFailureUsesGenericList(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("down")}}
	g := newTestFollowUps(llm)

	questions := g.Generate(context.Background(), "s1", QueryTypeNewSearch, nil)
	assert.Equal(t, genericFollowUps, questions)
}

func TestGenerate_UnparsableOutputUsesGenericList(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"here are some questions: what about funding?"}}
	g := newTestFollowUps(llm)

	questions := g.Generate(context.Background(), "s1", QueryTypeNewSearch, nil)
	assert.Equal(t, genericFollowUps, questions)
}

func TestGenerate_SummaryListsDistinctDomains(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"follow_up_questions": ["Q?"], "reasoning": ""}`}}
	g := newTestFollowUps(llm)

	candidates := []SearchCandidate{
		{Source: "mit.edu"},
		{Source: "mit.edu"},
		{Source: "stanford.edu"},
	}
	g.Generate(context.Background(), "s1", QueryTypeNewSearch, candidates)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Found 3 results from sources including: mit.edu, stanford.edu")
}

func TestGenerate_EmptyResultsSummary(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"follow_up_questions": ["Q?"], "reasoning": ""}`}}
	g := newTestFollowUps(llm)

	g.Generate(context.Background(), "s1", QueryTypeNewSearch, nil)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "No programs found")
}
