// Package models defines calculation records. A calculation is a saved
// consultation request: who it was for, the derived numerology codes, and who
// created it.
package models

import (
	"time"

	"numina/internal/numerology"
	id "numina/pkg/domain"
)

// Kind distinguishes the three consultation shapes.
type Kind string

const (
	// KindPersonal is a single-person reading.
	KindPersonal Kind = "personal"
	// KindPartnership is a compatibility reading for two people.
	KindPartnership Kind = "partnership"
	// KindTarget is a free-text question with no derived codes.
	KindTarget Kind = "target"
)

// Valid reports whether the kind is one of the supported consultation shapes.
func (k Kind) Valid() bool {
	switch k {
	case KindPersonal, KindPartnership, KindTarget:
		return true
	}
	return false
}

// Calculation is a persisted consultation. Partner fields are set only for
// partnership readings; TargetQuery only for target readings.
type Calculation struct {
	ID         id.CalculationID    `json:"id"`
	Kind       Kind                `json:"kind"`
	ClientName string              `json:"clientName,omitempty"`
	BirthDate  string              `json:"birthDate,omitempty"`
	Codes      *numerology.CodeSet `json:"codes,omitempty"`

	PartnerName      string              `json:"partnerName,omitempty"`
	PartnerBirthDate string              `json:"partnerBirthDate,omitempty"`
	PartnerCodes     *numerology.CodeSet `json:"partnerCodes,omitempty"`

	TargetQuery string `json:"targetQuery,omitempty"`

	CreatedBy id.UserID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
