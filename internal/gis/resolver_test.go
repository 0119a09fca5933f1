package gis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "homenet/pkg/domain-errors"
)

// The resolver's branch selection is the heart of address resolution: four
// mutually exclusive field combinations, evaluated in priority order, each
// walking two levels of the hierarchy.

type ResolverSuite struct {
	suite.Suite
	store    *InMemoryStore
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.resolver = NewResolver(s.store)

	s.store.SeedNodes(
		// Region 72: Тюмень city at top level, plus a settlement under it.
		Node{ID: 500, RegionCode: "72", Name: "Тюмень", Kind: KindCity, FiasID: "fias-tyumen"},
		Node{ID: 510, ParentID: 500, Name: "Антипино", Kind: KindSettlement, FiasID: "fias-antipino"},
		// Тюменский район with a city and a settlement under it.
		Node{ID: 600, RegionCode: "72", Name: "Тюменский", Kind: KindArea, FiasID: "fias-rayon"},
		Node{ID: 610, ParentID: 600, Name: "Боровский", Kind: KindCity, FiasID: "fias-borovsky"},
		Node{ID: 620, ParentID: 600, Name: "Винзили", Kind: KindSettlement, FiasID: "fias-vinzili"},
	)
	s.store.SeedStreets(Street{ID: 900, Name: "Широтная", DistrictID: 500})
	s.store.SeedHouses(House{ID: 1200, Label: "105", StreetID: 900})
}

func (s *ResolverSuite) TestResolveDistrict_AreaAndCity() {
	d, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", Area: "Тюменский", City: "Боровский",
	})
	s.NoError(err)
	s.Equal(int64(610), d.ID)
	s.Equal("fias-borovsky", d.FiasID)
}

func (s *ResolverSuite) TestResolveDistrict_CityAndSettlement() {
	d, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", City: "Тюмень", Settlement: "Антипино",
	})
	s.NoError(err)
	s.Equal(int64(510), d.ID)
	s.Equal("fias-antipino", d.FiasID)
}

func (s *ResolverSuite) TestResolveDistrict_AreaAndSettlement() {
	d, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", Area: "Тюменский", Settlement: "Винзили",
	})
	s.NoError(err)
	s.Equal(int64(620), d.ID)
	s.Equal("fias-vinzili", d.FiasID)
}

func (s *ResolverSuite) TestResolveDistrict_CityOnly() {
	d, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", City: "Тюмень",
	})
	s.NoError(err)
	s.Equal(int64(500), d.ID)
	s.Equal("fias-tyumen", d.FiasID)
}

func (s *ResolverSuite) TestResolveDistrict_AreaAndCityTakesPriorityOverCityOnly() {
	// When both area and city are present, branch 1 must apply even though
	// the city also exists at top level.
	s.store.SeedNodes(Node{ID: 630, ParentID: 600, Name: "Тюмень", Kind: KindCity, FiasID: "fias-nested"})

	d, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", Area: "Тюменский", City: "Тюмень",
	})
	s.NoError(err)
	s.Equal(int64(630), d.ID)
	s.Equal("fias-nested", d.FiasID)
}

func (s *ResolverSuite) TestResolveDistrict_NoBranchMatches() {
	_, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", Settlement: "Винзили",
	})
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAddressResolution))
	s.Equal(dErrors.StageDistrict, dErrors.StageOf(err))
}

func (s *ResolverSuite) TestResolveDistrict_IntermediateLookupMiss() {
	_, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", Area: "Тюменский", City: "Нигдеевск",
	})
	s.Error(err)
	s.Equal(dErrors.StageDistrict, dErrors.StageOf(err))
	s.Contains(err.Error(), "Нигдеевск")
}

func (s *ResolverSuite) TestResolveDistrict_CaseInsensitive() {
	d, err := s.resolver.ResolveDistrict(context.Background(), StructuredAddress{
		RegionCode: "72", City: "тюмень",
	})
	s.NoError(err)
	s.Equal(int64(500), d.ID)
}

func (s *ResolverSuite) TestResolveStreet() {
	id, err := s.resolver.ResolveStreet(context.Background(), "Широтная", 500)
	s.NoError(err)
	s.Equal(int64(900), id)
}

func (s *ResolverSuite) TestResolveStreet_Miss() {
	_, err := s.resolver.ResolveStreet(context.Background(), "Меридианная", 500)
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAddressResolution))
	s.Equal(dErrors.StageStreet, dErrors.StageOf(err))
}

func (s *ResolverSuite) TestResolveHouse() {
	id, err := s.resolver.ResolveHouse(context.Background(), "105", 900)
	s.NoError(err)
	s.Equal(int64(1200), id)
}

func (s *ResolverSuite) TestResolveHouse_Miss() {
	_, err := s.resolver.ResolveHouse(context.Background(), "9999", 900)
	s.Error(err)
	s.Equal(dErrors.StageHouse, dErrors.StageOf(err))
}

func (s *ResolverSuite) TestResolveHouse_WrongStreetScope() {
	// The house exists, but only under street 900.
	_, err := s.resolver.ResolveHouse(context.Background(), "105", 901)
	s.Error(err)
	s.Equal(dErrors.StageHouse, dErrors.StageOf(err))
}
