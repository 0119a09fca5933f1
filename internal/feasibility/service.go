// Package feasibility orchestrates the technical-feasibility pipeline:
// geocode a free-text address, resolve it through the local administrative
// hierarchy, and ask the vendor what can be connected there.
package feasibility

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"homenet/internal/eissd"
	"homenet/internal/geocoder"
	"homenet/internal/gis"
	"homenet/internal/platform/metrics"
	dErrors "homenet/pkg/domain-errors"
	"homenet/pkg/requestcontext"
)

// ProtocolClient is the vendor-protocol surface the pipeline needs.
type ProtocolClient interface {
	Submit(ctx context.Context, req eissd.Request) ([]byte, error)
	Parse(raw []byte) (eissd.Result, error)
}

// Report is the pipeline outcome. DistrictFiasID correlates the result with
// the CRM record downstream. Reports are transient; persistence, if any, is
// the CRM's job.
type Report struct {
	Technologies   []eissd.Technology
	DistrictID     int64
	DistrictFiasID string
	StreetID       int64
	HouseID        int64
}

// Feasible reports whether any technology is available.
func (r Report) Feasible() bool {
	return eissd.Result{Technologies: r.Technologies}.Feasible()
}

// Service runs the pipeline. It holds no mutable state; two calls with the
// same address and unchanged reference data produce equal reports.
type Service struct {
	geo      geocoder.Client
	resolver *gis.Resolver
	protocol ProtocolClient
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService wires the pipeline stages.
func NewService(geo geocoder.Client, resolver *gis.Resolver, protocol ProtocolClient, opts ...Option) *Service {
	s := &Service{
		geo:      geo,
		resolver: resolver,
		protocol: protocol,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve runs the full pipeline for one free-text address. Any stage
// failure aborts with a coded error; there are no partial results.
func (s *Service) Resolve(ctx context.Context, address string) (Report, error) {
	report, err := s.resolve(ctx, address)
	if err != nil {
		s.metrics.RecordFeasibilityCheck(string(dErrors.CodeOf(err)))
		return Report{}, err
	}
	s.metrics.RecordFeasibilityCheck("ok")
	return report, nil
}

func (s *Service) resolve(ctx context.Context, address string) (Report, error) {
	suggestions, err := s.geo.Suggest(ctx, address)
	if err != nil {
		return Report{}, dErrors.Wrap(err, dErrors.CodeGeocode, "geocode address")
	}
	if len(suggestions) == 0 || suggestions[0].Data == nil {
		return Report{}, dErrors.Newf(dErrors.CodeGeocode, "no suggestions for address %q", address)
	}

	// Only the top suggestion is used; ambiguous addresses may resolve to
	// the wrong district. Logged so the ambiguity is at least observable.
	if len(suggestions) > 1 {
		s.log.Debug("address is ambiguous, taking top suggestion",
			"address", address, "suggestions", len(suggestions))
	}
	data := suggestions[0].Data

	regionCode := data.RegionCode()
	if regionCode == "" {
		return Report{}, dErrors.Newf(dErrors.CodeGeocode, "suggestion for %q carries no region id", address)
	}

	structured := gis.StructuredAddress{
		RegionCode: regionCode,
		Area:       data.Area,
		City:       data.City,
		Settlement: data.Settlement,
		Street:     data.Street,
		House:      data.House,
		Block:      data.Block,
		Flat:       data.Flat,
	}

	district, err := s.resolver.ResolveDistrict(ctx, structured)
	if err != nil {
		return Report{}, err
	}
	streetID, err := s.resolver.ResolveStreet(ctx, structured.Street, district.ID)
	if err != nil {
		return Report{}, err
	}
	houseID, err := s.resolver.ResolveHouse(ctx, HouseLabel(structured.House, structured.Block), streetID)
	if err != nil {
		return Report{}, err
	}

	req := eissd.Request{
		ID:         uuid.NewString(),
		Timestamp:  requestcontext.Now(ctx),
		RegionCode: regionCode,
		DistrictID: district.ID,
		StreetID:   streetID,
		HouseID:    houseID,
		Flat:       flatNumber(structured.Flat),
	}

	raw, err := s.protocol.Submit(ctx, req)
	if err != nil {
		return Report{}, err
	}
	result, err := s.protocol.Parse(raw)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Technologies:   result.Technologies,
		DistrictID:     district.ID,
		DistrictFiasID: district.FiasID,
		StreetID:       streetID,
		HouseID:        houseID,
	}, nil
}
