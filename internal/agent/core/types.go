package core

import (
	"encoding/json"
	"strings"
)

// QueryType labels a user turn with the pipeline branch it should receive.
type QueryType string

const (
	QueryTypeNewSearch QueryType = "new_search"
	QueryTypeDeepDive  QueryType = "deep_dive"
	QueryTypeCompare   QueryType = "compare"
)

// ClassificationResult is the classifier's dispatch decision for one turn.
type ClassificationResult struct {
	QueryType         QueryType `json:"query_type"`
	Universities      []string  `json:"universities"`
	ComparisonAspects []string  `json:"comparison_aspects"`
	Notes             string    `json:"notes"`
}

// OptionalText decodes a value-or-null field from model output. JSON null and
// absence both decode to "not present" - an explicit sentinel instead of
// matching placeholder phrases after the fact. Numbers are accepted and kept
// as text because models emit gpa and test scores both ways.
type OptionalText struct {
	Text    string
	Present bool
}

func (o *OptionalText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptionalText{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = OptionalText{Text: s, Present: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*o = OptionalText{Text: n.String(), Present: true}
		return nil
	}
	// Tolerate unexpected shapes (bool, array) as absent rather than failing
	// the whole decode.
	*o = OptionalText{}
	return nil
}

func (o OptionalText) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.Text)
}

// ExtractedInfo carries profile facts stated literally in the current turn.
type ExtractedInfo struct {
	Field             OptionalText `json:"field"`
	DegreeLevel       OptionalText `json:"degree_level"`
	Location          OptionalText `json:"location"`
	GPA               OptionalText `json:"gpa"`
	FundingPreference OptionalText `json:"funding_preference"`
	OtherNotes        string       `json:"other_notes"`
}

// CoordinatorDecision is the outcome of the readiness gate for one turn.
type CoordinatorDecision struct {
	NeedsMoreInfo  bool          `json:"needs_more_info"`
	MissingInfo    []string      `json:"missing_info"`
	QuestionsToAsk string        `json:"questions_to_ask"`
	ReadyToSearch  bool          `json:"ready_to_search"`
	Extracted      ExtractedInfo `json:"extracted_info"`
}

// PlanFilters are the structured constraints a search plan carries.
type PlanFilters struct {
	FieldOfStudy        string         `json:"field_of_study"`
	DegreeType          []string       `json:"degree_type"`
	CountriesOrRegions  []string       `json:"countries_or_regions"`
	CitiesOrStates      []string       `json:"cities_or_states"`
	FundingPriority     []string       `json:"funding_priority"`
	BudgetNotes         string         `json:"budget_notes"`
	TargetIntakeTerms   []string       `json:"target_intake_terms"`
	MinimumRequirements map[string]any `json:"minimum_requirements"`
	OtherConstraints    []string       `json:"other_constraints"`
}

// SearchPlan bridges a user turn and the concrete queries executed for it.
// Produced once per new-search turn and discarded after the response.
type SearchPlan struct {
	HighLevelGoal  string         `json:"high_level_goal"`
	ProfileUpdates map[string]any `json:"profile_updates"`
	Filters        PlanFilters    `json:"filters"`
	SearchQueries  []string       `json:"search_queries"`
	NotesForSearch string         `json:"notes_for_search"`
}

// SearchCandidate is one unit of external search output, not yet validated as
// relevant. Immutable once created; duplicates across queries are kept - the
// writer decides relevance and dedup.
type SearchCandidate struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"` // host of URL
}

// placeholderValues are the strings models emit to mean "absent" despite
// being told to use null. Matched exactly (case-insensitive, trimmed), not by
// substring, so a legitimate value containing "none" is never discarded.
var placeholderValues = map[string]struct{}{
	"":                   {},
	"unknown":            {},
	"none":               {},
	"n/a":                {},
	"na":                 {},
	"null":               {},
	"not provided":       {},
	"already in profile": {},
}

func isPlaceholder(v string) bool {
	_, ok := placeholderValues[strings.ToLower(strings.TrimSpace(v))]
	return ok
}
