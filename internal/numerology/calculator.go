// Package numerology implements the deterministic code-derivation core: five
// small integer codes computed from a calendar birth date. All functions are
// pure; the only failure mode is an unparseable date string.
package numerology

import (
	"fmt"
	"time"

	dErrors "numina/pkg/domain-errors"
)

// BirthDateLayout is the accepted ISO-8601 date form.
const BirthDateLayout = "2006-01-02"

// CodeSet holds the five codes derived from one birth date. Every field lies
// in [1,9] except Mission, which may also be exactly 11 (the master number).
// A CodeSet is recomputed on demand from the birth date and never stored as
// the source of truth.
type CodeSet struct {
	Personality int `json:"personality"`
	Connector   int `json:"connector"`
	Realization int `json:"realization"`
	Generator   int `json:"generator"`
	Mission     int `json:"mission"`
}

// Pairs expands the set into (code type, value) pairs in canonical order,
// ready for batch archetype resolution.
func (c CodeSet) Pairs() []CodePair {
	return []CodePair{
		{Type: CodeTypePersonality, Value: c.Personality},
		{Type: CodeTypeConnector, Value: c.Connector},
		{Type: CodeTypeRealization, Value: c.Realization},
		{Type: CodeTypeGenerator, Value: c.Generator},
		{Type: CodeTypeMission, Value: c.Mission},
	}
}

// CodePair is a (code type, value) lookup key.
type CodePair struct {
	Type  CodeType `json:"code_type"`
	Value int      `json:"value"`
}

// ReduceToSingleDigit repeatedly sums the decimal digits of n until the
// result is a single digit. Identity on [0,9]; 0 stays 0 (calendar fields are
// never 0 in practice, but the primitive must not loop on it).
func ReduceToSingleDigit(n int) int {
	for n > 9 {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

// PersonalityCode reduces the day of month. It depends on nothing else in the
// date.
func PersonalityCode(date time.Time) int {
	return ReduceToSingleDigit(date.Day())
}

// ConnectorCode concatenates day, month and four-digit year into one decimal
// digit stream (no zero padding: day 3 contributes "3"), sums the digits and
// reduces.
func ConnectorCode(date time.Time) int {
	stream := fmt.Sprintf("%d%d%d", date.Day(), int(date.Month()), date.Year())
	sum := 0
	for _, ch := range stream {
		sum += int(ch - '0')
	}
	return ReduceToSingleDigit(sum)
}

// RealizationCode reduces the numeric value of year mod 100. The short year
// is reduced as one number, not digit by digit.
func RealizationCode(date time.Time) int {
	return ReduceToSingleDigit(date.Year() % 100)
}

// GeneratorCode reduces day and month to single digits, multiplies them and
// reduces the product.
func GeneratorCode(date time.Time) int {
	day := ReduceToSingleDigit(date.Day())
	month := ReduceToSingleDigit(int(date.Month()))
	return ReduceToSingleDigit(day * month)
}

// MissionCode sums the personality and connector codes. A sum of exactly 11
// is kept unreduced as the single permitted master number; everything else
// reduces normally. Both inputs are prior calculator outputs, so the sum is
// at most 18.
func MissionCode(personality, connector int) int {
	sum := personality + connector
	if sum == 11 {
		return 11
	}
	return ReduceToSingleDigit(sum)
}

// CalculateAll parses an ISO date string and derives the full code set. This
// is the entry point external callers use; the per-code functions are
// exported for recomputing a single code without the rest.
//
// Out-of-range dates the parser normalizes (e.g. Feb 30) are accepted as-is;
// date validation is a caller concern.
func CalculateAll(birthDate string) (CodeSet, error) {
	date, err := time.Parse(BirthDateLayout, birthDate)
	if err != nil {
		return CodeSet{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid birth date format, expected YYYY-MM-DD")
	}

	personality := PersonalityCode(date)
	connector := ConnectorCode(date)

	return CodeSet{
		Personality: personality,
		Connector:   connector,
		Realization: RealizationCode(date),
		Generator:   GeneratorCode(date),
		Mission:     MissionCode(personality, connector),
	}, nil
}
