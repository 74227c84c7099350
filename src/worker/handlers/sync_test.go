package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"cashflow/src/schemas"
	"cashflow/src/services"
	"cashflow/src/worker/controllers"
	"cashflow/src/worker/handlers"
)

type stubDividendService struct {
	services.DividendServiceI
	syncAll       func(ctx context.Context) (*schemas.SyncResult, error)
	syncPortfolio func(ctx context.Context, portfolioID int) (*schemas.SyncResult, error)
}

func (s *stubDividendService) SyncAll(ctx context.Context) (*schemas.SyncResult, error) {
	return s.syncAll(ctx)
}

func (s *stubDividendService) SyncPortfolio(ctx context.Context, portfolioID int) (*schemas.SyncResult, error) {
	return s.syncPortfolio(ctx, portfolioID)
}

func newSyncRouter(svc services.DividendServiceI) *chi.Mux {
	h := &handlers.Handler{Controller: &controllers.Controller{DividendService: svc}}
	r := chi.NewRouter()
	r.Post("/api/sync/all", h.SyncAllDividends)
	r.Post("/api/sync/portfolio/{id}", h.SyncPortfolioDividends)
	return r
}

func TestSyncAllReportsResult(t *testing.T) {
	router := newSyncRouter(&stubDividendService{
		syncAll: func(context.Context) (*schemas.SyncResult, error) {
			return &schemas.SyncResult{
				Symbols:   []string{"AAPL"},
				Inserted:  3,
				PerSymbol: map[string]int{"AAPL": 3},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"symbols": ["AAPL"], "inserted": 3, "per_symbol": {"AAPL": 3}}`,
		rec.Body.String())
}

func TestSyncPortfolioRejectsNonIntegerID(t *testing.T) {
	router := newSyncRouter(&stubDividendService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/portfolio/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "portfolio id must be an integer"}`, rec.Body.String())
}

func TestSyncPortfolioHidesInternalErrors(t *testing.T) {
	router := newSyncRouter(&stubDividendService{
		syncPortfolio: func(context.Context, int) (*schemas.SyncResult, error) {
			return nil, assert.AnError
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/portfolio/5", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "Internal Server Error"}`, rec.Body.String())
}
