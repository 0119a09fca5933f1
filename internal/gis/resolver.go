package gis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dErrors "homenet/pkg/domain-errors"
	"homenet/pkg/platform/sentinel"
)

// Resolver maps structured addresses onto the internal hierarchy ids the
// vendor protocol needs.
type Resolver struct {
	store Store
	log   *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver builds a resolver over the given store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveDistrict walks the hierarchy for one of exactly four field
// combinations, in priority order:
//
//  1. area + city:       area under region, city under area; district = city
//  2. city + settlement: city under region, settlement under city; district = settlement
//  3. area + settlement: area under region, settlement under area; district = settlement
//  4. city only:         city under region; district = city
//
// Anything else, or a miss at any step, is an unresolvable address. There is
// no fallback between branches and no partial result.
func (r *Resolver) ResolveDistrict(ctx context.Context, addr StructuredAddress) (District, error) {
	switch {
	case addr.Area != "" && addr.City != "":
		area, err := r.store.FindNodeByRegion(ctx, addr.RegionCode, addr.Area, KindArea)
		if err != nil {
			return District{}, r.districtErr(err, "area %q not found in region %s", addr.Area, addr.RegionCode)
		}
		city, err := r.store.FindNodeByParent(ctx, area.ID, addr.City, KindCity)
		if err != nil {
			return District{}, r.districtErr(err, "city %q not found under area %q", addr.City, addr.Area)
		}
		return District{ID: city.ID, FiasID: city.FiasID}, nil

	case addr.City != "" && addr.Settlement != "":
		city, err := r.store.FindNodeByRegion(ctx, addr.RegionCode, addr.City, KindCity)
		if err != nil {
			return District{}, r.districtErr(err, "city %q not found in region %s", addr.City, addr.RegionCode)
		}
		settlement, err := r.store.FindNodeByParent(ctx, city.ID, addr.Settlement, KindSettlement)
		if err != nil {
			return District{}, r.districtErr(err, "settlement %q not found under city %q", addr.Settlement, addr.City)
		}
		return District{ID: settlement.ID, FiasID: settlement.FiasID}, nil

	case addr.Area != "" && addr.Settlement != "":
		area, err := r.store.FindNodeByRegion(ctx, addr.RegionCode, addr.Area, KindArea)
		if err != nil {
			return District{}, r.districtErr(err, "area %q not found in region %s", addr.Area, addr.RegionCode)
		}
		settlement, err := r.store.FindNodeByParent(ctx, area.ID, addr.Settlement, KindSettlement)
		if err != nil {
			return District{}, r.districtErr(err, "settlement %q not found under area %q", addr.Settlement, addr.Area)
		}
		return District{ID: settlement.ID, FiasID: settlement.FiasID}, nil

	case addr.City != "":
		city, err := r.store.FindNodeByRegion(ctx, addr.RegionCode, addr.City, KindCity)
		if err != nil {
			return District{}, r.districtErr(err, "city %q not found in region %s", addr.City, addr.RegionCode)
		}
		return District{ID: city.ID, FiasID: city.FiasID}, nil
	}

	return District{}, dErrors.NewStage(dErrors.CodeAddressResolution, dErrors.StageDistrict,
		"address has no resolvable area/city/settlement combination")
}

// ResolveStreet finds the street id within a resolved district.
func (r *Resolver) ResolveStreet(ctx context.Context, name string, districtID int64) (int64, error) {
	street, err := r.store.FindStreet(ctx, name, districtID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, dErrors.NewStage(dErrors.CodeAddressResolution, dErrors.StageStreet,
				fmt.Sprintf("street %q not found in district %d", name, districtID))
		}
		return 0, dErrors.WrapStage(err, dErrors.CodeAddressResolution, dErrors.StageStreet, "street lookup failed")
	}
	return street.ID, nil
}

// ResolveHouse finds the house id within a resolved street.
func (r *Resolver) ResolveHouse(ctx context.Context, label string, streetID int64) (int64, error) {
	house, err := r.store.FindHouse(ctx, label, streetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, dErrors.NewStage(dErrors.CodeAddressResolution, dErrors.StageHouse,
				fmt.Sprintf("house %q not found on street %d", label, streetID))
		}
		return 0, dErrors.WrapStage(err, dErrors.CodeAddressResolution, dErrors.StageHouse, "house lookup failed")
	}
	return house.ID, nil
}

func (r *Resolver) districtErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	r.log.Debug("district resolution miss", "reason", msg)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.NewStage(dErrors.CodeAddressResolution, dErrors.StageDistrict, msg)
	}
	return dErrors.WrapStage(err, dErrors.CodeAddressResolution, dErrors.StageDistrict, msg)
}
