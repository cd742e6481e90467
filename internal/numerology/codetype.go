package numerology

import "strings"

// CodeType tags one of the five derived codes, plus two repository-only
// sentinels: Target for free-text target queries and All as a type wildcard
// in archetype lookups.
type CodeType string

const (
	CodeTypePersonality CodeType = "personality"
	CodeTypeConnector   CodeType = "connector"
	CodeTypeRealization CodeType = "realization"
	CodeTypeGenerator   CodeType = "generator"
	CodeTypeMission     CodeType = "mission"
	CodeTypeTarget      CodeType = "target"
	CodeTypeAll         CodeType = "all"
)

// NormalizeCodeType collapses the two spellings a code type arrives in,
// bare ("mission") and legacy decorated ("missionCode"), to the bare
// lower-case form. Idempotent; must be applied once, at the boundary where
// external input enters the repository. Internal code compares normalized
// values only.
func NormalizeCodeType(raw string) CodeType {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, "Code")
	return CodeType(strings.ToLower(trimmed))
}

// Valid reports whether the type is one of the five code types or a sentinel.
func (t CodeType) Valid() bool {
	switch t {
	case CodeTypePersonality, CodeTypeConnector, CodeTypeRealization,
		CodeTypeGenerator, CodeTypeMission, CodeTypeTarget, CodeTypeAll:
		return true
	}
	return false
}

func (t CodeType) String() string { return string(t) }
