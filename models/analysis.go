package models

import (
	"time"

	"github.com/google/uuid"
)

// SummaryType selects the register and length of a generated summary
type SummaryType string

const (
	SummaryProfessional SummaryType = "professional"
	SummarySimple       SummaryType = "simple"
	SummaryShort        SummaryType = "short"
	SummaryMedium       SummaryType = "medium"
	SummaryDetailed     SummaryType = "detailed"
)

// SummaryTypes lists every summary type in display order
var SummaryTypes = []SummaryType{
	SummaryProfessional,
	SummarySimple,
	SummaryShort,
	SummaryMedium,
	SummaryDetailed,
}

// Valid reports whether t is a known summary type
func (t SummaryType) Valid() bool {
	for _, known := range SummaryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// KeyPoints holds the entities and clauses extracted from a document.
// JSON keys match the shape requested from the model.
type KeyPoints struct {
	Clauses       []string `json:"clauses"`
	LegalSections []string `json:"legalSections"`
	Names         []string `json:"names"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// EmptyKeyPoints returns the all-empty default
func EmptyKeyPoints() KeyPoints {
	return KeyPoints{
		Clauses:       []string{},
		LegalSections: []string{},
		Names:         []string{},
		Organizations: []string{},
		Locations:     []string{},
	}
}

// Normalize replaces nil sequences with empty ones so they serialize as []
func (k KeyPoints) Normalize() KeyPoints {
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	return KeyPoints{
		Clauses:       orEmpty(k.Clauses),
		LegalSections: orEmpty(k.LegalSections),
		Names:         orEmpty(k.Names),
		Organizations: orEmpty(k.Organizations),
		Locations:     orEmpty(k.Locations),
	}
}

// IsEmpty reports whether all five sequences are empty
func (k KeyPoints) IsEmpty() bool {
	return len(k.Clauses) == 0 && len(k.LegalSections) == 0 && len(k.Names) == 0 &&
		len(k.Organizations) == 0 && len(k.Locations) == 0
}

// SectionExplanations maps a legal-section label, as returned by the model,
// to a plain-language explanation
type SectionExplanations map[string]string

// CaseInfo is the key-point extraction together with section explanations
type CaseInfo struct {
	KeyPoints    KeyPoints           `json:"key_points"`
	Explanations SectionExplanations `json:"explanations"`
}

// QAEntry is one question and its answer
type QAEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Language is a supported translation target
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Translation is a summary rendered in a regional language
type Translation struct {
	SummaryType SummaryType `json:"summary_type"`
	Language    Language    `json:"language"`
	Text        string      `json:"text"`
}

// SessionState is a point-in-time snapshot of a session's view state
type SessionState struct {
	ID           uuid.UUID              `json:"id"`
	ActiveView   string                 `json:"active_view"`
	EnabledViews []string               `json:"enabled_views"`
	Processing   bool                   `json:"processing"`
	Document     *Document              `json:"document,omitempty"`
	Summaries    map[SummaryType]string `json:"summaries,omitempty"`
	CaseInfo     *CaseInfo              `json:"case_info,omitempty"`
	QAHistory    []QAEntry              `json:"qa_history"`
	Translations []Translation          `json:"translations,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
