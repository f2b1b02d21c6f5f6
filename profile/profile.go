package profile

// StudentProfile represents what GradPath knows about the student so far.
// All fields are free-form text; an empty string means "not known yet".
type StudentProfile struct {
	GPA                string `json:"gpa"`
	GRE                string `json:"gre"`
	IELTS              string `json:"ielts"`
	TOEFL              string `json:"toefl"`
	FieldOfStudy       string `json:"field_of_study"`
	DegreeLevel        string `json:"degree_level"` // "MS", "MSc", "PhD", etc.
	PreferredCountries string `json:"preferred_countries"`
	PreferredCities    string `json:"preferred_cities"`
	FundingNeeds       string `json:"funding_needs"` // e.g. "RA/TA required"
	IntakeTerm         string `json:"intake_term"`   // e.g. "Fall 2026"
	BudgetNotes        string `json:"budget_notes"`
	ExtraNotes         string `json:"extra_notes"`
}

// Store keeps one evolving profile per conversation session. Implementations
// own every profile instance; callers only ever see copies.
type Store interface {
	// Get returns the profile for a session, creating a default one if absent.
	Get(sessionID string) StudentProfile

	// Update applies the supplied fields to a session's profile. A field is
	// applied only when its value is a non-empty string and the field name is
	// recognized; nil values and unknown names are ignored, not errors.
	Update(sessionID string, updates map[string]any) StudentProfile

	// Snapshot returns a plain field-name -> value view of the profile.
	Snapshot(sessionID string) map[string]string
}

// Apply sets a single field by its wire name. Returns false for unknown names.
func (p *StudentProfile) Apply(field, value string) bool {
	switch field {
	case "gpa":
		p.GPA = value
	case "gre":
		p.GRE = value
	case "ielts":
		p.IELTS = value
	case "toefl":
		p.TOEFL = value
	case "field_of_study":
		p.FieldOfStudy = value
	case "degree_level":
		p.DegreeLevel = value
	case "preferred_countries":
		p.PreferredCountries = value
	case "preferred_cities":
		p.PreferredCities = value
	case "funding_needs":
		p.FundingNeeds = value
	case "intake_term":
		p.IntakeTerm = value
	case "budget_notes":
		p.BudgetNotes = value
	case "extra_notes":
		p.ExtraNotes = value
	default:
		return false
	}
	return true
}

// Fields returns the profile as a field-name -> value map, all fields present.
func (p StudentProfile) Fields() map[string]string {
	return map[string]string{
		"gpa":                 p.GPA,
		"gre":                 p.GRE,
		"ielts":               p.IELTS,
		"toefl":               p.TOEFL,
		"field_of_study":      p.FieldOfStudy,
		"degree_level":        p.DegreeLevel,
		"preferred_countries": p.PreferredCountries,
		"preferred_cities":    p.PreferredCities,
		"funding_needs":       p.FundingNeeds,
		"intake_term":         p.IntakeTerm,
		"budget_notes":        p.BudgetNotes,
		"extra_notes":         p.ExtraNotes,
	}
}
