package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalText_Decoding(t *testing.T) {
	var info ExtractedInfo
	raw := `{"field": "Data Science", "degree_level": null, "gpa": 3.4, "location": ["USA"], "funding_preference": "funded"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.True(t, info.Field.Present)
	assert.Equal(t, "Data Science", info.Field.Text)
	assert.False(t, info.DegreeLevel.Present)
	// Numbers are kept as text.
	assert.True(t, info.GPA.Present)
	assert.Equal(t, "3.4", info.GPA.Text)
	// Unexpected shapes decode as absent, not as a decode failure.
	assert.False(t, info.Location.Present)
	assert.True(t, info.FundingPreference.Present)
}

func TestOptionalText_MissingKeyIsAbsent(t *testing.T) {
	var info ExtractedInfo
	require.NoError(t, json.Unmarshal([]byte(`{}`), &info))
	assert.False(t, info.Field.Present)
}

func TestIsPlaceholder_ExactMatchOnly(t *testing.T) {
	assert.True(t, isPlaceholder("unknown"))
	assert.True(t, isPlaceholder(" N/A "))
	assert.True(t, isPlaceholder("Already In Profile"))
	assert.True(t, isPlaceholder(""))

	// Substrings of real values must survive.
	assert.False(t, isPlaceholder("Nanotechnology"))
	assert.False(t, isPlaceholder("University of None Such"))
	assert.False(t, isPlaceholder("no GRE required"))
}
