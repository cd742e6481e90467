package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"numina/internal/archetype/models"
	"numina/pkg/platform/sentinel"
	txcontext "numina/pkg/platform/tx"
)

// PostgresStore persists archetype records in PostgreSQL. The archetypes
// table is the durable source of truth; rows are keyed by (code_type, value).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed archetype store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const archetypeColumns = `
	code_type, value, title, description, male_image_url, female_image_url,
	resource_manifestation, distorted_manifestation, development_task,
	resource_qualities, key_distortions,
	connection_resource, connection_distortion, partnership_task,
	harmonious_traits, conflict_traits,
	realization_sphere, blocked_manifestation, growth_vector,
	talent_areas, limiting_beliefs,
	energy_source, energy_drain, recharge_practice,
	energizing_activities, depleting_patterns,
	life_mission, shadow_mission, key_lesson,
	mission_qualities, mission_obstacles,
	strengths, challenges`

// List returns every archetype row.
func (s *PostgresStore) List(ctx context.Context) ([]*models.Archetype, error) {
	query := `SELECT ` + archetypeColumns + ` FROM archetypes ORDER BY code_type, value`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query archetypes: %w", err)
	}
	defer rows.Close()

	var archetypes []*models.Archetype
	for rows.Next() {
		rec, err := scanArchetypeRow(rows)
		if err != nil {
			return nil, err
		}
		archetypes = append(archetypes, models.FromStorage(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archetypes: %w", err)
	}
	return archetypes, nil
}

// Find returns the archetype for a key, or sentinel.ErrNotFound.
func (s *PostgresStore) Find(ctx context.Context, key models.Key) (*models.Archetype, error) {
	query := `SELECT ` + archetypeColumns + ` FROM archetypes WHERE code_type = $1 AND value = $2`

	row := s.db.QueryRowContext(ctx, query, string(key.CodeType), key.Value)
	rec, err := scanArchetypeRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find archetype %s/%d: %w", key.CodeType, key.Value, err)
	}
	return models.FromStorage(rec), nil
}

// Upsert inserts the record or updates the existing row with the same
// (code_type, value) key. The caller passes a normalized record.
func (s *PostgresStore) Upsert(ctx context.Context, a *models.Archetype) error {
	if a == nil {
		return fmt.Errorf("archetype record is required")
	}
	rec := models.ToStorage(a)

	query := `
		INSERT INTO archetypes (` + archetypeColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, now())
		ON CONFLICT (code_type, value) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			male_image_url = EXCLUDED.male_image_url,
			female_image_url = EXCLUDED.female_image_url,
			resource_manifestation = EXCLUDED.resource_manifestation,
			distorted_manifestation = EXCLUDED.distorted_manifestation,
			development_task = EXCLUDED.development_task,
			resource_qualities = EXCLUDED.resource_qualities,
			key_distortions = EXCLUDED.key_distortions,
			connection_resource = EXCLUDED.connection_resource,
			connection_distortion = EXCLUDED.connection_distortion,
			partnership_task = EXCLUDED.partnership_task,
			harmonious_traits = EXCLUDED.harmonious_traits,
			conflict_traits = EXCLUDED.conflict_traits,
			realization_sphere = EXCLUDED.realization_sphere,
			blocked_manifestation = EXCLUDED.blocked_manifestation,
			growth_vector = EXCLUDED.growth_vector,
			talent_areas = EXCLUDED.talent_areas,
			limiting_beliefs = EXCLUDED.limiting_beliefs,
			energy_source = EXCLUDED.energy_source,
			energy_drain = EXCLUDED.energy_drain,
			recharge_practice = EXCLUDED.recharge_practice,
			energizing_activities = EXCLUDED.energizing_activities,
			depleting_patterns = EXCLUDED.depleting_patterns,
			life_mission = EXCLUDED.life_mission,
			shadow_mission = EXCLUDED.shadow_mission,
			key_lesson = EXCLUDED.key_lesson,
			mission_qualities = EXCLUDED.mission_qualities,
			mission_obstacles = EXCLUDED.mission_obstacles,
			strengths = EXCLUDED.strengths,
			challenges = EXCLUDED.challenges,
			updated_at = now()
	`

	_, err := s.execer(ctx).ExecContext(ctx, query,
		rec.CodeType, rec.Value, rec.Title, rec.Description,
		rec.MaleImageURL, rec.FemaleImageURL,
		rec.ResourceManifestation, rec.DistortedManifestation, rec.DevelopmentTask,
		pq.Array(rec.ResourceQualities), pq.Array(rec.KeyDistortions),
		rec.ConnectionResource, rec.ConnectionDistortion, rec.PartnershipTask,
		pq.Array(rec.HarmoniousTraits), pq.Array(rec.ConflictTraits),
		rec.RealizationSphere, rec.BlockedManifestation, rec.GrowthVector,
		pq.Array(rec.TalentAreas), pq.Array(rec.LimitingBeliefs),
		rec.EnergySource, rec.EnergyDrain, rec.RechargePractice,
		pq.Array(rec.EnergizingActivities), pq.Array(rec.DepletingPatterns),
		rec.LifeMission, rec.ShadowMission, rec.KeyLesson,
		pq.Array(rec.MissionQualities), pq.Array(rec.MissionObstacles),
		pq.Array(rec.Strengths), pq.Array(rec.Challenges),
	)
	if err != nil {
		return fmt.Errorf("upsert archetype %s/%d: %w", rec.CodeType, rec.Value, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArchetypeRow(row rowScanner) (*models.StorageRecord, error) {
	var (
		rec models.StorageRecord

		resourceQualities, keyDistortions     pq.StringArray
		harmoniousTraits, conflictTraits      pq.StringArray
		talentAreas, limitingBeliefs          pq.StringArray
		energizingActivities, depleting       pq.StringArray
		missionQualities, missionObstacles    pq.StringArray
		strengths, challenges                 pq.StringArray
		description, maleImage, femaleImage   sql.NullString
		resourceMan, distortedMan, devTask    sql.NullString
		connResource, connDistortion, pTask   sql.NullString
		realSphere, blockedMan, growthVector  sql.NullString
		energySource, energyDrain, recharge   sql.NullString
		lifeMission, shadowMission, keyLesson sql.NullString
	)

	err := row.Scan(
		&rec.CodeType, &rec.Value, &rec.Title, &description, &maleImage, &femaleImage,
		&resourceMan, &distortedMan, &devTask,
		&resourceQualities, &keyDistortions,
		&connResource, &connDistortion, &pTask,
		&harmoniousTraits, &conflictTraits,
		&realSphere, &blockedMan, &growthVector,
		&talentAreas, &limitingBeliefs,
		&energySource, &energyDrain, &recharge,
		&energizingActivities, &depleting,
		&lifeMission, &shadowMission, &keyLesson,
		&missionQualities, &missionObstacles,
		&strengths, &challenges,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan archetype row: %w", err)
	}

	rec.Description = description.String
	rec.MaleImageURL = maleImage.String
	rec.FemaleImageURL = femaleImage.String
	rec.ResourceManifestation = resourceMan.String
	rec.DistortedManifestation = distortedMan.String
	rec.DevelopmentTask = devTask.String
	rec.ConnectionResource = connResource.String
	rec.ConnectionDistortion = connDistortion.String
	rec.PartnershipTask = pTask.String
	rec.RealizationSphere = realSphere.String
	rec.BlockedManifestation = blockedMan.String
	rec.GrowthVector = growthVector.String
	rec.EnergySource = energySource.String
	rec.EnergyDrain = energyDrain.String
	rec.RechargePractice = recharge.String
	rec.LifeMission = lifeMission.String
	rec.ShadowMission = shadowMission.String
	rec.KeyLesson = keyLesson.String

	rec.ResourceQualities = stringSlice(resourceQualities)
	rec.KeyDistortions = stringSlice(keyDistortions)
	rec.HarmoniousTraits = stringSlice(harmoniousTraits)
	rec.ConflictTraits = stringSlice(conflictTraits)
	rec.TalentAreas = stringSlice(talentAreas)
	rec.LimitingBeliefs = stringSlice(limitingBeliefs)
	rec.EnergizingActivities = stringSlice(energizingActivities)
	rec.DepletingPatterns = stringSlice(depleting)
	rec.MissionQualities = stringSlice(missionQualities)
	rec.MissionObstacles = stringSlice(missionObstacles)
	rec.Strengths = stringSlice(strengths)
	rec.Challenges = stringSlice(challenges)

	return &rec, nil
}

func stringSlice(arr pq.StringArray) []string {
	if len(arr) == 0 {
		return nil
	}
	return []string(arr)
}
