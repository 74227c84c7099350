package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cashflow/src/config"
	"cashflow/src/database"
	"cashflow/src/utils"
	"cashflow/src/worker/controllers"
)

type Handler struct {
	Controller *controllers.Controller
}

func NewHandler(cfg *config.Config) (*Handler, error) {
	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}
	controller := controllers.NewController(cfg, db)
	return &Handler{Controller: controller}, nil
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = utils.NewHTTPError(http.StatusGatewayTimeout, "Request timed out")
	}
	utils.WriteError(w, err)
}
