// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services; transport concerns stay here.
package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "homenet/pkg/domain-errors"
)

// NewRouter wires all public endpoints.
func NewRouter(feasibility *FeasibilityHandler, tariffs *TariffHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/feasibility/check", feasibility.handleCheck)
		r.Get("/tariffs", tariffs.handleList)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler produces the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case dErrors.CodeBadRequest:
		status = http.StatusBadRequest
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeGeocode, dErrors.CodeAddressResolution:
		status = http.StatusUnprocessableEntity
	case dErrors.CodeProtocolTransport, dErrors.CodeProtocolParse:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{
		"error": string(code),
		"stage": dErrors.StageOf(err),
	})
}
