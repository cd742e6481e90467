// Package generation produces consultation text for a calculation by calling
// an LLM backend. Structured interpretations are cached per calculation so a
// practitioner reopening a report does not pay for a second generation; chat
// turns are conversational and never cached.
package generation

import (
	"numina/internal/archetype/models"
	id "numina/pkg/domain"
)

// ContentType selects which section of a consultation to generate.
type ContentType string

const (
	ContentSummary    ContentType = "summary"
	ContentStrengths  ContentType = "strengths"
	ContentWeaknesses ContentType = "weaknesses"
	ContentConflicts  ContentType = "conflicts"
	ContentPractices  ContentType = "practices"
	ContentChat       ContentType = "chat"
)

// Valid reports whether the content type is one the service can generate.
func (ct ContentType) Valid() bool {
	switch ct {
	case ContentSummary, ContentStrengths, ContentWeaknesses,
		ContentConflicts, ContentPractices, ContentChat:
		return true
	}
	return false
}

// Request describes one generation call. Archetypes carry the resolved
// interpretations for the calculation's codes; UserMessage is set only for
// chat turns.
type Request struct {
	CalculationID id.CalculationID
	ContentType   ContentType
	ClientName    string
	Archetypes    []*models.Archetype
	UserMessage   string
}

// Result is the generated (or cached) text.
type Result struct {
	Text   string `json:"text"`
	Cached bool   `json:"cached"`
}
