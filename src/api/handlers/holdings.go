package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cashflow/src/schemas"
	"cashflow/src/utils"
)

func (h *Handler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.CreateHoldingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := h.Controller.BuyHolding(ctx, userID, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusCreated)
}

func (h *Handler) SellHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	id, err := holdingIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.SellHoldingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := h.Controller.SellHolding(ctx, userID, id, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	id, err := holdingIDParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := h.Controller.DeleteHolding(ctx, userID, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	portfolioID, err := strconv.Atoi(r.URL.Query().Get("portfolio_id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("portfolio_id query parameter is required"))
		return
	}

	rows, err := h.Controller.ListHoldings(ctx, userID, portfolioID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, rows, http.StatusOK)
}

func (h *Handler) GetHoldingsWithQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	portfolioID, err := strconv.Atoi(r.URL.Query().Get("portfolio_id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("portfolio_id query parameter is required"))
		return
	}

	rows, err := h.Controller.HoldingsWithQuotes(ctx, userID, portfolioID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, rows, http.StatusOK)
}

func holdingIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, utils.BadRequest("holding id must be an integer")
	}
	return id, nil
}
