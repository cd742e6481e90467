package models

import (
	"numina/internal/numerology"
)

// StorageRecord is the flat wire/storage shape of an archetype: one row with
// every type-specific column, most of them legitimately empty. Column and
// JSON names are storage-case. The Redis fallback blob serializes this shape;
// the Postgres store maps it onto the archetypes table column for column.
type StorageRecord struct {
	CodeType       string `json:"code_type"`
	Value          int    `json:"value"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	MaleImageURL   string `json:"male_image_url,omitempty"`
	FemaleImageURL string `json:"female_image_url,omitempty"`

	// personality
	ResourceManifestation  string   `json:"resource_manifestation,omitempty"`
	DistortedManifestation string   `json:"distorted_manifestation,omitempty"`
	DevelopmentTask        string   `json:"development_task,omitempty"`
	ResourceQualities      []string `json:"resource_qualities,omitempty"`
	KeyDistortions         []string `json:"key_distortions,omitempty"`

	// connector
	ConnectionResource   string   `json:"connection_resource,omitempty"`
	ConnectionDistortion string   `json:"connection_distortion,omitempty"`
	PartnershipTask      string   `json:"partnership_task,omitempty"`
	HarmoniousTraits     []string `json:"harmonious_traits,omitempty"`
	ConflictTraits       []string `json:"conflict_traits,omitempty"`

	// realization
	RealizationSphere    string   `json:"realization_sphere,omitempty"`
	BlockedManifestation string   `json:"blocked_manifestation,omitempty"`
	GrowthVector         string   `json:"growth_vector,omitempty"`
	TalentAreas          []string `json:"talent_areas,omitempty"`
	LimitingBeliefs      []string `json:"limiting_beliefs,omitempty"`

	// generator
	EnergySource         string   `json:"energy_source,omitempty"`
	EnergyDrain          string   `json:"energy_drain,omitempty"`
	RechargePractice     string   `json:"recharge_practice,omitempty"`
	EnergizingActivities []string `json:"energizing_activities,omitempty"`
	DepletingPatterns    []string `json:"depleting_patterns,omitempty"`

	// mission
	LifeMission      string   `json:"life_mission,omitempty"`
	ShadowMission    string   `json:"shadow_mission,omitempty"`
	KeyLesson        string   `json:"key_lesson,omitempty"`
	MissionQualities []string `json:"mission_qualities,omitempty"`
	MissionObstacles []string `json:"mission_obstacles,omitempty"`

	// Legacy mirrors of the payload quality/distortion lists, kept for
	// consumers that still read strengths/challenges.
	Strengths  []string `json:"strengths,omitempty"`
	Challenges []string `json:"challenges,omitempty"`
}

// ToStorage flattens a domain archetype into the storage shape. The code type
// is written as-is; callers persist only normalized records. The legacy
// strengths/challenges columns are re-mirrored from the payload on every
// write so they can never drift.
func ToStorage(a *Archetype) *StorageRecord {
	rec := &StorageRecord{
		CodeType:       string(a.CodeType),
		Value:          a.Value,
		Title:          a.Title,
		Description:    a.Description,
		MaleImageURL:   a.MaleImageURL,
		FemaleImageURL: a.FemaleImageURL,
		Strengths:      a.Strengths(),
		Challenges:     a.Challenges(),
	}

	switch p := a.Payload.(type) {
	case PersonalityPayload:
		rec.ResourceManifestation = p.ResourceManifestation
		rec.DistortedManifestation = p.DistortedManifestation
		rec.DevelopmentTask = p.DevelopmentTask
		rec.ResourceQualities = p.ResourceQualities
		rec.KeyDistortions = p.KeyDistortions
	case ConnectorPayload:
		rec.ConnectionResource = p.ConnectionResource
		rec.ConnectionDistortion = p.ConnectionDistortion
		rec.PartnershipTask = p.PartnershipTask
		rec.HarmoniousTraits = p.HarmoniousTraits
		rec.ConflictTraits = p.ConflictTraits
	case RealizationPayload:
		rec.RealizationSphere = p.RealizationSphere
		rec.BlockedManifestation = p.BlockedManifestation
		rec.GrowthVector = p.GrowthVector
		rec.TalentAreas = p.TalentAreas
		rec.LimitingBeliefs = p.LimitingBeliefs
	case GeneratorPayload:
		rec.EnergySource = p.EnergySource
		rec.EnergyDrain = p.EnergyDrain
		rec.RechargePractice = p.RechargePractice
		rec.EnergizingActivities = p.EnergizingActivities
		rec.DepletingPatterns = p.DepletingPatterns
	case MissionPayload:
		rec.LifeMission = p.LifeMission
		rec.ShadowMission = p.ShadowMission
		rec.KeyLesson = p.KeyLesson
		rec.MissionQualities = p.MissionQualities
		rec.MissionObstacles = p.MissionObstacles
	}

	return rec
}

// FromStorage rebuilds the domain shape from a flat record, selecting the
// payload variant by the record's code type. The code type is normalized here
// because legacy rows may still carry the decorated spelling.
func FromStorage(rec *StorageRecord) *Archetype {
	codeType := numerology.NormalizeCodeType(rec.CodeType)

	a := &Archetype{
		CodeType:       codeType,
		Value:          rec.Value,
		Title:          rec.Title,
		Description:    rec.Description,
		MaleImageURL:   rec.MaleImageURL,
		FemaleImageURL: rec.FemaleImageURL,
	}

	switch codeType {
	case numerology.CodeTypePersonality:
		a.Payload = PersonalityPayload{
			ResourceManifestation:  rec.ResourceManifestation,
			DistortedManifestation: rec.DistortedManifestation,
			DevelopmentTask:        rec.DevelopmentTask,
			ResourceQualities:      rec.ResourceQualities,
			KeyDistortions:         rec.KeyDistortions,
		}
	case numerology.CodeTypeConnector:
		a.Payload = ConnectorPayload{
			ConnectionResource:   rec.ConnectionResource,
			ConnectionDistortion: rec.ConnectionDistortion,
			PartnershipTask:      rec.PartnershipTask,
			HarmoniousTraits:     rec.HarmoniousTraits,
			ConflictTraits:       rec.ConflictTraits,
		}
	case numerology.CodeTypeRealization:
		a.Payload = RealizationPayload{
			RealizationSphere:    rec.RealizationSphere,
			BlockedManifestation: rec.BlockedManifestation,
			GrowthVector:         rec.GrowthVector,
			TalentAreas:          rec.TalentAreas,
			LimitingBeliefs:      rec.LimitingBeliefs,
		}
	case numerology.CodeTypeGenerator:
		a.Payload = GeneratorPayload{
			EnergySource:         rec.EnergySource,
			EnergyDrain:          rec.EnergyDrain,
			RechargePractice:     rec.RechargePractice,
			EnergizingActivities: rec.EnergizingActivities,
			DepletingPatterns:    rec.DepletingPatterns,
		}
	case numerology.CodeTypeMission:
		a.Payload = MissionPayload{
			LifeMission:      rec.LifeMission,
			ShadowMission:    rec.ShadowMission,
			KeyLesson:        rec.KeyLesson,
			MissionQualities: rec.MissionQualities,
			MissionObstacles: rec.MissionObstacles,
		}
	}

	return a
}
