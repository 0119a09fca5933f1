package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"homenet/internal/feasibility"
	dErrors "homenet/pkg/domain-errors"
)

// FeasibilityResolver is the pipeline surface the handler needs.
type FeasibilityResolver interface {
	Resolve(ctx context.Context, address string) (feasibility.Report, error)
}

// FeasibilityHandler exposes on-demand feasibility checks. Operators use it
// to pre-check an address before a lead ever reaches the CRM.
type FeasibilityHandler struct {
	pipeline FeasibilityResolver
}

func NewFeasibilityHandler(pipeline FeasibilityResolver) *FeasibilityHandler {
	return &FeasibilityHandler{pipeline: pipeline}
}

type checkRequest struct {
	Address string `json:"address"`
}

type checkResponse struct {
	Feasible       bool               `json:"feasible"`
	Technologies   []techAvailability `json:"technologies"`
	DistrictFiasID string             `json:"district_fias_id"`
}

type techAvailability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

func (h *FeasibilityHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "address is required"))
		return
	}

	report, err := h.pipeline.Resolve(r.Context(), req.Address)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := checkResponse{
		Feasible:       report.Feasible(),
		Technologies:   make([]techAvailability, 0, len(report.Technologies)),
		DistrictFiasID: report.DistrictFiasID,
	}
	for _, t := range report.Technologies {
		resp.Technologies = append(resp.Technologies, techAvailability{Name: t.Name, Available: t.Available})
	}
	writeJSON(w, http.StatusOK, resp)
}
