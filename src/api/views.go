package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	handlers "cashflow/src/api/handlers"
	"cashflow/src/config"
	"cashflow/src/utils"
)

type Server struct {
	Router  *chi.Mux
	Handler handlers.Handler
	cfg     *config.Config
}

func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	handler, err := handlers.NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: *handler,
		cfg:     cfg,
	}
	server.InitRoutes(logger)
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// loggerMiddleware attaches the process logger to every request context so
// the layers below can log without plumbing.
func loggerMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), logger)))
		})
	}
}

func (s *Server) InitRoutes(logger *logrus.Logger) {
	s.Router.Use(loggerMiddleware(logger))
	s.Router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/portfolios", func(r chi.Router) {
		r.Get("/", s.Handler.GetAllPortfolios)
		r.Post("/", s.Handler.CreatePortfolio)
		r.Get("/{id}", s.Handler.GetPortfolioByID)
		r.Delete("/{id}", s.Handler.DeletePortfolio)
	})

	s.Router.Route("/holdings", func(r chi.Router) {
		r.Get("/", s.Handler.GetHoldings)
		r.Post("/", s.Handler.CreateHolding)
		r.Get("/with-quotes", s.Handler.GetHoldingsWithQuotes)
		r.Post("/{id}/sell", s.Handler.SellHolding)
		r.Delete("/{id}", s.Handler.DeleteHolding)
	})

	s.Router.Route("/profile", func(r chi.Router) {
		r.Get("/", s.Handler.GetProfile)
		r.Post("/cash/add", s.Handler.AddCash)
		r.Post("/cash/withdraw", s.Handler.WithdrawCash)
	})

	s.Router.Post("/me/init-supabase", s.Handler.InitUser)

	s.Router.Get("/calendar", s.Handler.GetCalendar)
	s.Router.Route("/dividends", func(r chi.Router) {
		r.Post("/sync/portfolio/{id}", s.Handler.SyncPortfolioDividends)
		r.Post("/sync/all", s.Handler.SyncAllDividends)
		r.Post("/process", s.Handler.ProcessDividends)
		r.Get("/history", s.Handler.GetDividendHistory)
	})

	s.Router.Post("/forecasts/monthly", s.Handler.MonthlyForecast)

	s.Router.Route("/risk", func(r chi.Router) {
		r.Get("/metrics/{id}", s.Handler.GetRiskMetrics)
		r.Get("/analysis/{id}", s.Handler.GetRiskAnalysis)
	})

	s.Router.Get("/prices/latest/{symbol}", s.Handler.GetLatestPrice)
	s.Router.Route("/symbols", func(r chi.Router) {
		r.Get("/search", s.Handler.SearchSymbols)
		r.Get("/suggest", s.Handler.SuggestSymbols)
	})
}

func NewHTTPServer(server *Server) *http.Server {
	return &http.Server{
		Addr:         ":" + server.cfg.Service.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		Handler:      server,
	}
}
