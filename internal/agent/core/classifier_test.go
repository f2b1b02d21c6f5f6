package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_DeepDive(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"query_type": "deep_dive", "universities": ["Stanford University"], "comparison_aspects": [], "notes": ""}`,
	}}
	c := NewClassifier(newTestConfig(), llm, nil)

	result := c.Classify(context.Background(), "Tell me more about Stanford")
	assert.Equal(t, QueryTypeDeepDive, result.QueryType)
	assert.Equal(t, []string{"Stanford University"}, result.Universities)
}

func TestClassify_FencedOutputStillParses(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"```json\n{\"query_type\": \"compare\", \"universities\": [\"MIT\", \"Stanford\"], \"comparison_aspects\": [\"funding\"]}\n```",
	}}
	c := NewClassifier(newTestConfig(), llm, nil)

	result := c.Classify(context.Background(), "Compare MIT and Stanford funding")
	assert.Equal(t, QueryTypeCompare, result.QueryType)
	assert.Len(t, result.Universities, 2)
}

func TestClassify_CompletionFailureFallsBackToNewSearch(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("quota exceeded")}}
	c := NewClassifier(newTestConfig(), llm, nil)

	result := c.Classify(context.Background(), "anything")
	assert.Equal(t, QueryTypeNewSearch, result.QueryType)
	assert.Empty(t, result.Universities)
}

func TestClassify_GarbageOutputFallsBackToNewSearch(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"I'm not sure what you mean."}}
	c := NewClassifier(newTestConfig(), llm, nil)

	result := c.Classify(context.Background(), "anything")
	assert.Equal(t, QueryTypeNewSearch, result.QueryType)
}

func TestClassify_UnknownTypeCoercedToNewSearch(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"query_type": "chitchat"}`}}
	c := NewClassifier(newTestConfig(), llm, nil)

	result := c.Classify(context.Background(), "hello there")
	assert.Equal(t, QueryTypeNewSearch, result.QueryType)
}
