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

func (h *Handler) GetAllPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	portfolios, err := h.Controller.ListPortfolios(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, portfolios, http.StatusOK)
}

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.CreatePortfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	portfolio, err := h.Controller.CreatePortfolio(ctx, userID, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, portfolio, http.StatusCreated)
}

func (h *Handler) GetPortfolioByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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

	detail, err := h.Controller.GetPortfolioDetail(ctx, userID, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, detail, http.StatusOK)
}

func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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

	res, err := h.Controller.DeletePortfolio(ctx, userID, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

func portfolioIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, utils.BadRequest("portfolio id must be an integer")
	}
	return id, nil
}
