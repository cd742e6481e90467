//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"numina/internal/calculation/models"
	"numina/internal/calculation/store"
	"numina/internal/numerology"
	id "numina/pkg/domain"
	"numina/pkg/platform/sentinel"
	"numina/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
	owner    id.UserID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()

	var err error
	s.owner, err = id.ParseUserID("5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(s.ctx, "calculations"))
}

func (s *PostgresStoreSuite) TestInsertAndFindPersonal() {
	c := &models.Calculation{
		ID:         id.NewCalculationID(),
		Kind:       models.KindPersonal,
		ClientName: "Anna",
		BirthDate:  "1990-05-15",
		Codes:      &numerology.CodeSet{Personality: 6, Connector: 3, Realization: 9, Generator: 3, Mission: 9},
		CreatedBy:  s.owner,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Insert(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Anna", found.ClientName)
	s.Require().NotNil(found.Codes)
	s.Equal(*c.Codes, *found.Codes)
	s.Nil(found.PartnerCodes)
	s.Equal(s.owner, found.CreatedBy)
}

func (s *PostgresStoreSuite) TestInsertTargetStoresNullCodes() {
	c := &models.Calculation{
		ID:          id.NewCalculationID(),
		Kind:        models.KindTarget,
		TargetQuery: "should I change careers?",
		CreatedBy:   s.owner,
		CreatedAt:   time.Now().UTC(),
	}
	s.Require().NoError(s.store.Insert(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Nil(found.Codes)
	s.Equal("should I change careers?", found.TargetQuery)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(s.ctx, id.NewCalculationID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByOwnerNewestFirst() {
	base := time.Now().UTC().Truncate(time.Microsecond)
	other, err := id.ParseUserID("0d3f1a9c-2b4e-4f6a-8c1d-9e7b5a3c2f10")
	s.Require().NoError(err)

	for i, owner := range []id.UserID{s.owner, s.owner, other} {
		c := &models.Calculation{
			ID:          id.NewCalculationID(),
			Kind:        models.KindTarget,
			TargetQuery: "q",
			CreatedBy:   owner,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.store.Insert(s.ctx, c))
	}

	list, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.True(list[0].CreatedAt.After(list[1].CreatedAt))
}
