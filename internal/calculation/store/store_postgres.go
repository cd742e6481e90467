// Package store provides PostgreSQL and in-memory calculation stores.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"numina/internal/calculation/models"
	"numina/internal/numerology"
	id "numina/pkg/domain"
	"numina/pkg/platform/sentinel"
	txcontext "numina/pkg/platform/tx"
)

// PostgresStore persists calculations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed calculation store.
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

const calculationColumns = `
	id, kind, client_name, birth_date,
	personality_code, connector_code, realization_code, generator_code, mission_code,
	partner_name, partner_birth_date,
	partner_personality_code, partner_connector_code, partner_realization_code,
	partner_generator_code, partner_mission_code,
	target_query, created_by, created_at`

// Insert stores a new calculation row.
func (s *PostgresStore) Insert(ctx context.Context, c *models.Calculation) error {
	if c == nil {
		return fmt.Errorf("calculation record is required")
	}

	query := `
		INSERT INTO calculations (` + calculationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	args := []any{uuid.UUID(c.ID), string(c.Kind), nullString(c.ClientName), nullString(c.BirthDate)}
	args = append(args, codeArgs(c.Codes)...)
	args = append(args, nullString(c.PartnerName), nullString(c.PartnerBirthDate))
	args = append(args, codeArgs(c.PartnerCodes)...)
	args = append(args, nullString(c.TargetQuery), uuid.UUID(c.CreatedBy), c.CreatedAt)

	_, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert calculation %s: %w", c.ID, err)
	}
	return nil
}

// FindByID returns the calculation, or sentinel.ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, calcID id.CalculationID) (*models.Calculation, error) {
	query := `SELECT ` + calculationColumns + ` FROM calculations WHERE id = $1`

	c, err := scanCalculationRow(s.db.QueryRowContext(ctx, query, uuid.UUID(calcID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find calculation %s: %w", calcID, err)
	}
	return c, nil
}

// ListByOwner returns the owner's calculations, newest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Calculation, error) {
	query := `SELECT ` + calculationColumns + ` FROM calculations WHERE created_by = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(ownerID))
	if err != nil {
		return nil, fmt.Errorf("query calculations for %s: %w", ownerID, err)
	}
	defer rows.Close()

	var calculations []*models.Calculation
	for rows.Next() {
		c, err := scanCalculationRow(rows)
		if err != nil {
			return nil, err
		}
		calculations = append(calculations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return calculations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculationRow(row rowScanner) (*models.Calculation, error) {
	var (
		calcID, createdBy uuid.UUID
		kind              string
		c                 models.Calculation

		clientName, birthDate         sql.NullString
		partnerName, partnerBirthDate sql.NullString
		targetQuery                   sql.NullString
		codes, partnerCodes           [5]sql.NullInt32
	)

	err := row.Scan(
		&calcID, &kind, &clientName, &birthDate,
		&codes[0], &codes[1], &codes[2], &codes[3], &codes[4],
		&partnerName, &partnerBirthDate,
		&partnerCodes[0], &partnerCodes[1], &partnerCodes[2], &partnerCodes[3], &partnerCodes[4],
		&targetQuery, &createdBy, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan calculation row: %w", err)
	}

	c.ID = id.CalculationID(calcID)
	c.Kind = models.Kind(kind)
	c.ClientName = clientName.String
	c.BirthDate = birthDate.String
	c.PartnerName = partnerName.String
	c.PartnerBirthDate = partnerBirthDate.String
	c.TargetQuery = targetQuery.String
	c.CreatedBy = id.UserID(createdBy)
	c.Codes = codeSet(codes)
	c.PartnerCodes = codeSet(partnerCodes)

	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// codeArgs spreads a code set into five nullable SQL arguments. A nil set
// (target calculations) stores NULLs.
func codeArgs(cs *numerology.CodeSet) []any {
	if cs == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{cs.Personality, cs.Connector, cs.Realization, cs.Generator, cs.Mission}
}

func codeSet(cols [5]sql.NullInt32) *numerology.CodeSet {
	if !cols[0].Valid {
		return nil
	}
	return &numerology.CodeSet{
		Personality: int(cols[0].Int32),
		Connector:   int(cols[1].Int32),
		Realization: int(cols[2].Int32),
		Generator:   int(cols[3].Int32),
		Mission:     int(cols[4].Int32),
	}
}
