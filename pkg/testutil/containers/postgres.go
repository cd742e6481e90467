//go:build integration

// Package containers provides shared testcontainers helpers for integration
// tests. Build them with the integration tag so unit runs stay docker-free.
package containers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/lib/pq"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("numina"),
		tcpostgres.WithUsername("numina"),
		tcpostgres.WithPassword("numina"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
	pc.applySchema(t)
	return pc
}

// Truncate empties the given tables between tests.
func (p *PostgresContainer) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresContainer) applySchema(t *testing.T) {
	t.Helper()

	schema := []string{
		`CREATE TABLE IF NOT EXISTS archetypes (
			code_type               text NOT NULL,
			value                   int  NOT NULL,
			title                   text NOT NULL,
			description             text,
			male_image_url          text,
			female_image_url        text,
			resource_manifestation  text,
			distorted_manifestation text,
			development_task        text,
			resource_qualities      text[],
			key_distortions         text[],
			connection_resource     text,
			connection_distortion   text,
			partnership_task        text,
			harmonious_traits       text[],
			conflict_traits         text[],
			realization_sphere      text,
			blocked_manifestation   text,
			growth_vector           text,
			talent_areas            text[],
			limiting_beliefs        text[],
			energy_source           text,
			energy_drain            text,
			recharge_practice       text,
			energizing_activities   text[],
			depleting_patterns      text[],
			life_mission            text,
			shadow_mission          text,
			key_lesson              text,
			mission_qualities       text[],
			mission_obstacles       text[],
			strengths               text[],
			challenges              text[],
			updated_at              timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (code_type, value)
		)`,
		`CREATE TABLE IF NOT EXISTS calculations (
			id                        uuid PRIMARY KEY,
			kind                      text NOT NULL,
			client_name               text,
			birth_date                text,
			personality_code          int,
			connector_code            int,
			realization_code          int,
			generator_code            int,
			mission_code              int,
			partner_name              text,
			partner_birth_date        text,
			partner_personality_code  int,
			partner_connector_code    int,
			partner_realization_code  int,
			partner_generator_code    int,
			partner_mission_code      int,
			target_query              text,
			created_by                uuid NOT NULL,
			created_at                timestamptz NOT NULL,
			CONSTRAINT calculations_kind_check CHECK (kind IN ('personal', 'partnership', 'target'))
		)`,
		`CREATE INDEX IF NOT EXISTS calculations_created_by_idx ON calculations (created_by, created_at DESC)`,
	}

	ctx := context.Background()
	for _, stmt := range schema {
		if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}
}
