package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_PlainObject(t *testing.T) {
	var out map[string]string
	err := DecodeJSON(`{"a": "b"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}

func TestDecodeJSON_StripsCodeFence(t *testing.T) {
	raw := "```json\n{\"query_type\": \"deep_dive\"}\n```"
	var out map[string]string
	err := DecodeJSON(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, "deep_dive", out["query_type"])
}

func TestDecodeJSON_RepairsTrailingComma(t *testing.T) {
	raw := `{"queries": ["a", "b",], "notes": "x",}`
	var out struct {
		Queries []string `json:"queries"`
		Notes   string   `json:"notes"`
	}
	err := DecodeJSON(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Queries)
	assert.Equal(t, "x", out.Notes)
}

func TestDecodeJSON_ExtractsFromProse(t *testing.T) {
	raw := "Sure! Here is the plan you asked for:\n{\"goal\": \"find programs\"}\nLet me know if you need anything else."
	var out map[string]string
	err := DecodeJSON(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, "find programs", out["goal"])
}

func TestDecodeJSON_NestedBracesInsideStrings(t *testing.T) {
	raw := `Result: {"note": "use {curly} and \"quoted\" text", "n": 2} done`
	var out struct {
		Note string `json:"note"`
		N    int    `json:"n"`
	}
	err := DecodeJSON(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, `use {curly} and "quoted" text`, out.Note)
	assert.Equal(t, 2, out.N)
}

func TestDecodeJSON_NoJSONAnywhere(t *testing.T) {
	var out map[string]string
	err := DecodeJSON("I could not produce a plan, sorry.", &out)
	assert.Error(t, err)
}

func TestCleanModelOutput_TrimsFenceAndBOM(t *testing.T) {
	raw := "\uFEFF```\nhello\n```"
	assert.Equal(t, "hello", CleanModelOutput(raw))
}

func TestExtractJSON_PrefersFirstBalancedValue(t *testing.T) {
	raw := `noise [1, 2, 3] trailing {"x": 1}`
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", got)
}
