package worker

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"cashflow/src/config"
	"cashflow/src/utils"
	handlers "cashflow/src/worker/handlers"
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

	if cfg.Service.Schedule != "" {
		if err := handler.Controller.StartNightlyRefresh(cfg.Service.Schedule, logger); err != nil {
			return nil, err
		}
	}
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes(logger *logrus.Logger) {
	s.Router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), logger)))
		})
	})

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/sync", func(r chi.Router) {
		r.Post("/all", s.Handler.SyncAllDividends)
		r.Post("/portfolio/{id}", s.Handler.SyncPortfolioDividends)
	})
}

func NewHTTPServer(server *Server) *http.Server {
	return &http.Server{
		Addr:         ":" + server.cfg.Service.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		Handler:      server,
	}
}
