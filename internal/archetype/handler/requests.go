package handler

import (
	"numina/internal/archetype/models"
	"numina/internal/archetype/service"
)

type placeholderResponse struct {
	CodeType string `json:"codeType"`
	Value    int    `json:"value"`
	Authored bool   `json:"authored"`
}

type batchLookupRequest struct {
	Pairs []struct {
		CodeType string `json:"codeType"`
		Value    int    `json:"value"`
	} `json:"pairs"`
}

type batchLookupResponse struct {
	Archetypes []*models.Archetype `json:"archetypes"`
}

// upsertArchetypeRequest mirrors the admin authoring form. The list fields
// come from textareas as one blob each; toArchetype splits them on commas,
// semicolons and newlines.
type upsertArchetypeRequest struct {
	CodeType       string `json:"codeType"`
	Value          int    `json:"value"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	MaleImageURL   string `json:"maleImageUrl"`
	FemaleImageURL string `json:"femaleImageUrl"`

	ResourceManifestation  string `json:"resourceManifestation"`
	DistortedManifestation string `json:"distortedManifestation"`
	DevelopmentTask        string `json:"developmentTask"`
	ResourceQualities      string `json:"resourceQualities"`
	KeyDistortions         string `json:"keyDistortions"`

	ConnectionResource   string `json:"connectionResource"`
	ConnectionDistortion string `json:"connectionDistortion"`
	PartnershipTask      string `json:"partnershipTask"`
	HarmoniousTraits     string `json:"harmoniousTraits"`
	ConflictTraits       string `json:"conflictTraits"`

	RealizationSphere    string `json:"realizationSphere"`
	BlockedManifestation string `json:"blockedManifestation"`
	GrowthVector         string `json:"growthVector"`
	TalentAreas          string `json:"talentAreas"`
	LimitingBeliefs      string `json:"limitingBeliefs"`

	EnergySource         string `json:"energySource"`
	EnergyDrain          string `json:"energyDrain"`
	RechargePractice     string `json:"rechargePractice"`
	EnergizingActivities string `json:"energizingActivities"`
	DepletingPatterns    string `json:"depletingPatterns"`

	LifeMission      string `json:"lifeMission"`
	ShadowMission    string `json:"shadowMission"`
	KeyLesson        string `json:"keyLesson"`
	MissionQualities string `json:"missionQualities"`
	MissionObstacles string `json:"missionObstacles"`
}

func (req upsertArchetypeRequest) toArchetype() *models.Archetype {
	split := service.ParseTextToArray

	rec := &models.StorageRecord{
		CodeType:       req.CodeType,
		Value:          req.Value,
		Title:          req.Title,
		Description:    req.Description,
		MaleImageURL:   req.MaleImageURL,
		FemaleImageURL: req.FemaleImageURL,

		ResourceManifestation:  req.ResourceManifestation,
		DistortedManifestation: req.DistortedManifestation,
		DevelopmentTask:        req.DevelopmentTask,
		ResourceQualities:      split(req.ResourceQualities),
		KeyDistortions:         split(req.KeyDistortions),

		ConnectionResource:   req.ConnectionResource,
		ConnectionDistortion: req.ConnectionDistortion,
		PartnershipTask:      req.PartnershipTask,
		HarmoniousTraits:     split(req.HarmoniousTraits),
		ConflictTraits:       split(req.ConflictTraits),

		RealizationSphere:    req.RealizationSphere,
		BlockedManifestation: req.BlockedManifestation,
		GrowthVector:         req.GrowthVector,
		TalentAreas:          split(req.TalentAreas),
		LimitingBeliefs:      split(req.LimitingBeliefs),

		EnergySource:         req.EnergySource,
		EnergyDrain:          req.EnergyDrain,
		RechargePractice:     req.RechargePractice,
		EnergizingActivities: split(req.EnergizingActivities),
		DepletingPatterns:    split(req.DepletingPatterns),

		LifeMission:      req.LifeMission,
		ShadowMission:    req.ShadowMission,
		KeyLesson:        req.KeyLesson,
		MissionQualities: split(req.MissionQualities),
		MissionObstacles: split(req.MissionObstacles),
	}
	return models.FromStorage(rec)
}

type bulkUpsertRequest struct {
	Archetypes []models.StorageRecord `json:"archetypes"`
}

type bulkUpsertResponse struct {
	Total  int      `json:"total"`
	Errors []string `json:"errors,omitempty"`
}

type reloadResponse struct {
	Loaded bool `json:"loaded"`
}

// splitJoined flattens an errors.Join result into messages for the response.
func splitJoined(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
