package handlers

import (
	"context"
	"net/http"
	"time"

	"cashflow/src/schemas"
)

func (h *Handler) MonthlyForecast(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.ForecastRequest
	if err := decodeJSON(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	forecast, err := h.Controller.MonthlyForecast(ctx, userID, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, forecast, http.StatusOK)
}
