package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numina/internal/numerology"
)

func TestStorageRoundTripPersonality(t *testing.T) {
	original := &Archetype{
		CodeType:       numerology.CodeTypePersonality,
		Value:          6,
		Title:          "The Caretaker",
		Description:    "Harmony through service.",
		MaleImageURL:   "https://img.example/p6-m.png",
		FemaleImageURL: "https://img.example/p6-f.png",
		Payload: PersonalityPayload{
			ResourceManifestation:  "Warm, steady presence",
			DistortedManifestation: "Self-sacrifice and control",
			DevelopmentTask:        "Learn to receive",
			ResourceQualities:      []string{"empathy", "reliability"},
			KeyDistortions:         []string{"martyrdom", "overprotection"},
		},
	}

	restored := FromStorage(ToStorage(original))
	assert.Equal(t, original, restored)
}

func TestStorageRoundTripAllPayloadVariants(t *testing.T) {
	records := []*Archetype{
		{
			CodeType: numerology.CodeTypeConnector, Value: 3, Title: "The Bridge",
			Payload: ConnectorPayload{
				ConnectionResource: "Open dialogue",
				HarmoniousTraits:   []string{"curiosity"},
				ConflictTraits:     []string{"avoidance"},
			},
		},
		{
			CodeType: numerology.CodeTypeRealization, Value: 9, Title: "The Mentor",
			Payload: RealizationPayload{
				RealizationSphere: "Teaching and guidance",
				TalentAreas:       []string{"synthesis"},
				LimitingBeliefs:   []string{"it is too late"},
			},
		},
		{
			CodeType: numerology.CodeTypeGenerator, Value: 3, Title: "The Spark",
			Payload: GeneratorPayload{
				EnergySource:         "Creative play",
				EnergizingActivities: []string{"improvisation"},
				DepletingPatterns:    []string{"routine without meaning"},
			},
		},
		{
			CodeType: numerology.CodeTypeMission, Value: 11, Title: "The Illuminator",
			Payload: MissionPayload{
				LifeMission:      "Carry insight to others",
				MissionQualities: []string{"intuition", "vision"},
				MissionObstacles: []string{"self-doubt"},
			},
		},
	}

	for _, rec := range records {
		restored := FromStorage(ToStorage(rec))
		assert.Equal(t, rec, restored, string(rec.CodeType))
	}
}

func TestStorageMirrorsLegacyLists(t *testing.T) {
	a := &Archetype{
		CodeType: numerology.CodeTypeMission,
		Value:    7,
		Title:    "The Seeker",
		Payload: MissionPayload{
			MissionQualities: []string{"depth", "focus"},
			MissionObstacles: []string{"isolation"},
		},
	}

	rec := ToStorage(a)
	assert.Equal(t, []string{"depth", "focus"}, rec.Strengths)
	assert.Equal(t, []string{"isolation"}, rec.Challenges)
}

func TestFromStorageNormalizesLegacySpelling(t *testing.T) {
	rec := &StorageRecord{CodeType: "missionCode", Value: 5, Title: "The Messenger"}
	a := FromStorage(rec)
	assert.Equal(t, numerology.CodeTypeMission, a.CodeType)
	require.NotNil(t, a.Payload)
	assert.Equal(t, numerology.CodeTypeMission, a.Payload.Type())
}

func TestFromStorageTargetHasNoPayload(t *testing.T) {
	rec := &StorageRecord{CodeType: "target", Value: 1, Title: "Target reading"}
	a := FromStorage(rec)
	assert.Nil(t, a.Payload)
	assert.Empty(t, a.Strengths())
	assert.Empty(t, a.Challenges())
}
