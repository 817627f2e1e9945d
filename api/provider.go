package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hireloop/marketplace/services"
)

type ProviderHandler struct {
	reconciler *services.ReconcilerService
}

func CreateProviderHandler(reconciler *services.ReconcilerService) *ProviderHandler {
	return &ProviderHandler{reconciler: reconciler}
}

func (h *ProviderHandler) HandleEarningsSummary(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["id"]

	summary, err := h.reconciler.GetProviderEarningsSummary(r.Context(), providerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
