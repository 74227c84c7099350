package handlers

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	calendar, err := h.Controller.Calendar(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, calendar, http.StatusOK)
}

// SyncPortfolioDividends pulls fresh dividend data for a portfolio on demand.
// The longer timeout covers the provider fan-out.
func (h *Handler) SyncPortfolioDividends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	id, err := portfolioIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	result, err := h.Controller.SyncPortfolioDividends(ctx, userID, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, result, http.StatusOK)
}

func (h *Handler) SyncAllDividends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if _, err := h.currentUserID(r); err != nil {
		h.HandleErrors(w, err)
		return
	}

	result, err := h.Controller.SyncAllDividends(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, result, http.StatusOK)
}
