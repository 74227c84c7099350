package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth"

	"cashflow/src/api/controllers"
	"cashflow/src/config"
	"cashflow/src/database"
	"cashflow/src/utils"
)

type Handler struct {
	Controller controllers.IController
	cfg        *config.Config
}

func NewHandler(cfg *config.Config) (*Handler, error) {
	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}
	controller, err := controllers.NewController(cfg, db)
	if err != nil {
		return nil, err
	}
	return &Handler{Controller: controller, cfg: cfg}, nil
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
	var httpErr *utils.HTTPError
	if errors.Is(err, context.DeadlineExceeded) {
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	} else if errors.As(err, &httpErr) {
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	} else if err != nil {
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	} else {
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}

// currentUserID resolves the caller's identity. In dev mode every request
// maps to the configured dev user; otherwise the bearer token's subject claim
// is used.
func (h *Handler) currentUserID(r *http.Request) (string, error) {
	if h.cfg.Auth.Mode == config.AuthModeDev {
		return h.cfg.Auth.DevUserID, nil
	}
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		return "", utils.Unauthorized("missing bearer token")
	}
	return utils.SubjectFromToken(token)
}

// currentUserEmail is best effort: dev mode and tokens without an email claim
// yield an empty string.
func (h *Handler) currentUserEmail(r *http.Request) string {
	if h.cfg.Auth.Mode == config.AuthModeDev {
		return h.cfg.Auth.DevUserID + "@example.com"
	}
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		return ""
	}
	return utils.EmailFromToken(token)
}

// decodeJSON parses a request body into out, mapping malformed payloads to a
// 400.
func decodeJSON(r *http.Request, out interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return utils.BadRequest("invalid JSON body")
	}
	return nil
}
