package inmemory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_NewSessionReturnsEmptyProfile(t *testing.T) {
	s := NewInMemoryProfileStore()
	p := s.Get("s1")
	assert.Empty(t, p.FieldOfStudy)
	assert.Empty(t, p.GPA)
}

func TestUpdate_MergesRecognizedFields(t *testing.T) {
	s := NewInMemoryProfileStore()
	p := s.Update("s1", map[string]any{
		"field_of_study": "Data Science",
		"degree_level":   "MS",
	})
	assert.Equal(t, "Data Science", p.FieldOfStudy)
	assert.Equal(t, "MS", p.DegreeLevel)

	// Second merge keeps earlier fields and adds new ones.
	p = s.Update("s1", map[string]any{"preferred_countries": "Canada"})
	assert.Equal(t, "Data Science", p.FieldOfStudy)
	assert.Equal(t, "Canada", p.PreferredCountries)
}

func TestUpdate_SkipsNilEmptyAndUnknown(t *testing.T) {
	s := NewInMemoryProfileStore()
	s.Update("s1", map[string]any{"gpa": "3.7"})
	p := s.Update("s1", map[string]any{
		"gpa":            nil,
		"field_of_study": "",
		"not_a_field":    "whatever",
	})
	assert.Equal(t, "3.7", p.GPA)
	assert.Empty(t, p.FieldOfStudy)
}

func TestUpdate_CoercesNonStringValues(t *testing.T) {
	s := NewInMemoryProfileStore()
	p := s.Update("s1", map[string]any{"gpa": 3.4})
	assert.Equal(t, "3.4", p.GPA)
}

func TestUpdate_IsIdempotent(t *testing.T) {
	s := NewInMemoryProfileStore()
	updates := map[string]any{"field_of_study": "Robotics", "degree_level": "PhD"}
	first := s.Update("s1", updates)
	second := s.Update("s1", updates)
	assert.Equal(t, first, second)
}

func TestGet_ReturnsCopyNotReference(t *testing.T) {
	s := NewInMemoryProfileStore()
	s.Update("s1", map[string]any{"gpa": "3.9"})
	p := s.Get("s1")
	p.GPA = "mutated"
	assert.Equal(t, "3.9", s.Get("s1").GPA)
}

func TestSessions_AreIsolated(t *testing.T) {
	s := NewInMemoryProfileStore()
	s.Update("s1", map[string]any{"field_of_study": "Physics"})
	assert.Empty(t, s.Get("s2").FieldOfStudy)
	assert.Equal(t, "Physics", s.Get("s1").FieldOfStudy)
}

func TestSnapshot_ContainsAllFields(t *testing.T) {
	s := NewInMemoryProfileStore()
	s.Update("s1", map[string]any{"intake_term": "Fall 2026"})
	snap := s.Snapshot("s1")
	assert.Len(t, snap, 12)
	assert.Equal(t, "Fall 2026", snap["intake_term"])
	assert.Empty(t, snap["gre"])
}
