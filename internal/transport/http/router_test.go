package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homenet/internal/eissd"
	"homenet/internal/feasibility"
	"homenet/internal/tariff"
	dErrors "homenet/pkg/domain-errors"
)

type stubResolver struct {
	report feasibility.Report
	err    error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (feasibility.Report, error) {
	return s.report, s.err
}

func testRouter(resolver FeasibilityResolver, store tariff.Store) http.Handler {
	if store == nil {
		store = tariff.NewInMemoryStore()
	}
	return NewRouter(NewFeasibilityHandler(resolver), NewTariffHandler(store))
}

func TestFeasibilityCheck_OK(t *testing.T) {
	resolver := &stubResolver{report: feasibility.Report{
		Technologies:   []eissd.Technology{{Name: "PON", Available: true}, {Name: "xDSL", Available: false}},
		DistrictFiasID: "fias-tyumen",
	}}
	router := testRouter(resolver, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feasibility/check",
		strings.NewReader(`{"address": "Тюмень, Широтная 105"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Feasible       bool   `json:"feasible"`
		DistrictFiasID string `json:"district_fias_id"`
		Technologies   []struct {
			Name      string `json:"name"`
			Available bool   `json:"available"`
		} `json:"technologies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Feasible)
	assert.Equal(t, "fias-tyumen", resp.DistrictFiasID)
	assert.Len(t, resp.Technologies, 2)
}

func TestFeasibilityCheck_MissingAddress(t *testing.T) {
	router := testRouter(&stubResolver{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feasibility/check", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeasibilityCheck_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"geocode failure", dErrors.New(dErrors.CodeGeocode, "no suggestions"), http.StatusUnprocessableEntity},
		{"resolution failure", dErrors.NewStage(dErrors.CodeAddressResolution, dErrors.StageStreet, "street missing"), http.StatusUnprocessableEntity},
		{"vendor down", dErrors.New(dErrors.CodeProtocolTransport, "timeout"), http.StatusBadGateway},
		{"vendor garbage", dErrors.New(dErrors.CodeProtocolParse, "bad xml"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&stubResolver{err: tt.err}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/feasibility/check",
				strings.NewReader(`{"address": "x"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTariffList(t *testing.T) {
	store := tariff.NewInMemoryStore()
	store.Seed(500,
		tariff.Tariff{ID: 1, ProviderID: 7, Name: "Домашний 100", Technology: "PON", SpeedMbps: 100, PriceRub: 550},
		tariff.Tariff{ID: 2, ProviderID: 7, Name: "Домашний 500", Technology: "PON", SpeedMbps: 500, PriceRub: 900},
	)
	router := testRouter(&stubResolver{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tariffs?district_id=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tariffs []tariff.Tariff `json:"tariffs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Tariffs, 2)
}

func TestTariffList_BadDistrict(t *testing.T) {
	router := testRouter(&stubResolver{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tariffs?district_id=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := testRouter(&stubResolver{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
