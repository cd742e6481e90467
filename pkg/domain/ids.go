// Package domain holds typed identifiers shared across modules. Wrapping
// uuid.UUID in distinct named types keeps a calculation ID from being passed
// where a user ID is expected.
package domain

import "github.com/google/uuid"

// UserID identifies a practitioner account.
type UserID uuid.UUID

// CalculationID identifies a stored calculation.
type CalculationID uuid.UUID

func NewCalculationID() CalculationID {
	return CalculationID(uuid.New())
}

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id CalculationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id CalculationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's text marshaling, so JSON would
// render the raw byte array without these.

func (id UserID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id CalculationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CalculationID) UnmarshalText(b []byte) error {
	parsed, err := ParseCalculationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseUserID parses a UUID string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseCalculationID parses a UUID string into a CalculationID.
func ParseCalculationID(s string) (CalculationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CalculationID{}, err
	}
	return CalculationID(u), nil
}
