package handlers

import (
	"context"
	"net/http"
	"time"
)

// Risk endpoints always answer 200: both the no-holdings case and internal
// failures come back as the empty-state payload the client expects.

func (h *Handler) GetRiskMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if _, err := h.currentUserID(r); err != nil {
		h.HandleErrors(w, err)
		return
	}

	id, err := portfolioIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, h.Controller.RiskMetrics(ctx, id), http.StatusOK)
}

func (h *Handler) GetRiskAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	if _, err := h.currentUserID(r); err != nil {
		h.HandleErrors(w, err)
		return
	}

	id, err := portfolioIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, h.Controller.RiskAnalysis(ctx, id), http.StatusOK)
}
