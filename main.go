package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"cashflow/src/api"
	"cashflow/src/config"
	"cashflow/src/utils"
	"cashflow/src/worker"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)
	logger := newLogger()

	serviceType := cfg.Service.Type
	var httpServer *http.Server
	if serviceType == config.WORKER {
		server, err := worker.NewServer(cfg, logger)
		if err != nil {
			return nil, err
		}
		httpServer = worker.NewHTTPServer(server)
	} else {
		server, err := api.NewServer(cfg, logger)
		if err != nil {
			return nil, err
		}
		httpServer = api.NewHTTPServer(server)
	}

	go func() {
		logger.WithField("port", cfg.Service.Port).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()
	return errC, nil
}

func newLogger() *logrus.Logger {
	level := logrus.InfoLevel
	if os.Getenv("ENV") == "TESTING" {
		level = logrus.DebugLevel
	}
	return utils.NewLogger(level, false, "")
}
