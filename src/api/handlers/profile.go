package handlers

import (
	"context"
	"net/http"
	"time"

	"cashflow/src/schemas"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	profile, err := h.Controller.Profile(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, profile, http.StatusOK)
}

func (h *Handler) AddCash(w http.ResponseWriter, r *http.Request) {
	h.cashOp(w, r, h.Controller.AddCash)
}

func (h *Handler) WithdrawCash(w http.ResponseWriter, r *http.Request) {
	h.cashOp(w, r, h.Controller.WithdrawCash)
}

func (h *Handler) cashOp(w http.ResponseWriter, r *http.Request,
	op func(context.Context, string, *schemas.CashRequest) (*schemas.CashResponse, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.CashRequest
	if err := decodeJSON(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := op(ctx, userID, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

// InitUser bootstraps the caller's account on first login.
func (h *Handler) InitUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := h.Controller.InitUser(ctx, userID, h.currentUserEmail(r))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

func (h *Handler) ProcessDividends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := h.Controller.ProcessDividends(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}

func (h *Handler) GetDividendHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := h.currentUserID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	res, err := h.Controller.DividendHistory(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, res, http.StatusOK)
}
