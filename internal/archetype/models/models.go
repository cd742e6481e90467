// Package models defines the archetype record: the authored descriptive
// document for one (code type, code value) pair.
//
// The domain shape is a tagged union: common fields plus one payload variant
// selected by the code type. "Which fields are valid for this record" is
// a compile-time property. Storage uses a single flat row; the converters in
// storage.go map between the two shapes losslessly.
package models

import (
	"encoding/json"

	"numina/internal/numerology"
)

// Archetype is the authored description for one (code type, value) pair.
// The pair is the unique key. CodeType is always stored normalized.
//
// Payload holds the type-specific field group and is nil for records that
// only carry the common fields (e.g. target archetypes).
type Archetype struct {
	CodeType       numerology.CodeType `json:"codeType"`
	Value          int                 `json:"value"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	MaleImageURL   string              `json:"maleImageUrl,omitempty"`
	FemaleImageURL string              `json:"femaleImageUrl,omitempty"`
	Payload        Payload             `json:"payload,omitempty"`
}

// Key returns the normalized cache/storage key for the record.
func (a *Archetype) Key() Key {
	return Key{CodeType: a.CodeType, Value: a.Value}
}

// Strengths mirrors the payload's quality list for consumers that predate the
// typed payloads. Empty when the record has no payload.
func (a *Archetype) Strengths() []string {
	if a.Payload == nil {
		return nil
	}
	return a.Payload.Qualities()
}

// Challenges mirrors the payload's distortion list, the counterpart of
// Strengths.
func (a *Archetype) Challenges() []string {
	if a.Payload == nil {
		return nil
	}
	return a.Payload.Distortions()
}

// MarshalJSON appends the legacy strengths/challenges mirrors to the wire
// shape so consumers that predate the typed payloads keep seeing them.
func (a Archetype) MarshalJSON() ([]byte, error) {
	type plain Archetype
	return json.Marshal(struct {
		plain
		Strengths  []string `json:"strengths,omitempty"`
		Challenges []string `json:"challenges,omitempty"`
	}{
		plain:      plain(a),
		Strengths:  a.Strengths(),
		Challenges: a.Challenges(),
	})
}

// Key identifies an archetype record. CodeType must be normalized before a
// Key is formed; keys are compared directly.
type Key struct {
	CodeType numerology.CodeType `json:"code_type"`
	Value    int                 `json:"value"`
}

// Payload is the type-specific field group of an archetype. Exactly one
// variant exists per code type.
type Payload interface {
	// Type names the code type this payload belongs to.
	Type() numerology.CodeType
	// Qualities is the positive trait list mirrored into legacy Strengths.
	Qualities() []string
	// Distortions is the shadow trait list mirrored into legacy Challenges.
	Distortions() []string
}

// PersonalityPayload describes how the personality code manifests.
type PersonalityPayload struct {
	ResourceManifestation  string   `json:"resourceManifestation,omitempty"`
	DistortedManifestation string   `json:"distortedManifestation,omitempty"`
	DevelopmentTask        string   `json:"developmentTask,omitempty"`
	ResourceQualities      []string `json:"resourceQualities,omitempty"`
	KeyDistortions         []string `json:"keyDistortions,omitempty"`
}

func (PersonalityPayload) Type() numerology.CodeType { return numerology.CodeTypePersonality }
func (p PersonalityPayload) Qualities() []string     { return p.ResourceQualities }
func (p PersonalityPayload) Distortions() []string   { return p.KeyDistortions }

// ConnectorPayload describes relating and partnership patterns.
type ConnectorPayload struct {
	ConnectionResource   string   `json:"connectionResource,omitempty"`
	ConnectionDistortion string   `json:"connectionDistortion,omitempty"`
	PartnershipTask      string   `json:"partnershipTask,omitempty"`
	HarmoniousTraits     []string `json:"harmoniousTraits,omitempty"`
	ConflictTraits       []string `json:"conflictTraits,omitempty"`
}

func (ConnectorPayload) Type() numerology.CodeType { return numerology.CodeTypeConnector }
func (p ConnectorPayload) Qualities() []string     { return p.HarmoniousTraits }
func (p ConnectorPayload) Distortions() []string   { return p.ConflictTraits }

// RealizationPayload describes spheres of professional realization.
type RealizationPayload struct {
	RealizationSphere    string   `json:"realizationSphere,omitempty"`
	BlockedManifestation string   `json:"blockedManifestation,omitempty"`
	GrowthVector         string   `json:"growthVector,omitempty"`
	TalentAreas          []string `json:"talentAreas,omitempty"`
	LimitingBeliefs      []string `json:"limitingBeliefs,omitempty"`
}

func (RealizationPayload) Type() numerology.CodeType { return numerology.CodeTypeRealization }
func (p RealizationPayload) Qualities() []string     { return p.TalentAreas }
func (p RealizationPayload) Distortions() []string   { return p.LimitingBeliefs }

// GeneratorPayload describes energy sources and drains.
type GeneratorPayload struct {
	EnergySource         string   `json:"energySource,omitempty"`
	EnergyDrain          string   `json:"energyDrain,omitempty"`
	RechargePractice     string   `json:"rechargePractice,omitempty"`
	EnergizingActivities []string `json:"energizingActivities,omitempty"`
	DepletingPatterns    []string `json:"depletingPatterns,omitempty"`
}

func (GeneratorPayload) Type() numerology.CodeType { return numerology.CodeTypeGenerator }
func (p GeneratorPayload) Qualities() []string     { return p.EnergizingActivities }
func (p GeneratorPayload) Distortions() []string   { return p.DepletingPatterns }

// MissionPayload describes the life mission and its shadow.
type MissionPayload struct {
	LifeMission      string   `json:"lifeMission,omitempty"`
	ShadowMission    string   `json:"shadowMission,omitempty"`
	KeyLesson        string   `json:"keyLesson,omitempty"`
	MissionQualities []string `json:"missionQualities,omitempty"`
	MissionObstacles []string `json:"missionObstacles,omitempty"`
}

func (MissionPayload) Type() numerology.CodeType { return numerology.CodeTypeMission }
func (p MissionPayload) Qualities() []string     { return p.MissionQualities }
func (p MissionPayload) Distortions() []string   { return p.MissionObstacles }
