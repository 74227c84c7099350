package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"cashflow/src/utils"
)

func (h *Handler) GetLatestPrice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	symbol := chi.URLParam(r, "symbol")
	if strings.TrimSpace(symbol) == "" {
		h.HandleErrors(w, utils.BadRequest("symbol is required"))
		return
	}
	h.respond(w, r, h.Controller.LatestPrice(ctx, symbol), http.StatusOK)
}

func (h *Handler) SearchSymbols(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.Controller.SearchSymbols(ctx, query, limit)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

func (h *Handler) SuggestSymbols(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.Controller.SuggestSymbols(ctx, query, limit)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}
