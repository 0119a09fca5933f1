package httptransport

import (
	"net/http"
	"strconv"

	"homenet/internal/tariff"
	dErrors "homenet/pkg/domain-errors"
)

// TariffHandler lists tariffs for a resolved district.
type TariffHandler struct {
	store tariff.Store
}

func NewTariffHandler(store tariff.Store) *TariffHandler {
	return &TariffHandler{store: store}
}

func (h *TariffHandler) handleList(w http.ResponseWriter, r *http.Request) {
	districtID, err := strconv.ParseInt(r.URL.Query().Get("district_id"), 10, 64)
	if err != nil || districtID <= 0 {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "district_id must be a positive integer"))
		return
	}

	tariffs, err := h.store.ListByDistrict(r.Context(), districtID)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list tariffs"))
		return
	}
	if tariffs == nil {
		tariffs = []tariff.Tariff{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tariffs": tariffs})
}
