package controllers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/config"
	"cashflow/src/repositories"
	"cashflow/src/scheduler"
	"cashflow/src/services"
	"cashflow/src/utils"
)

// Controller runs the background dividend refresh: on demand through the
// worker HTTP surface and nightly through the cron schedule.
type Controller struct {
	DividendService services.DividendServiceI
	RefreshTask     *scheduler.ScheduledTask
}

func NewController(cfg *config.Config, db *pgxpool.Pool) *Controller {
	polygonClient := polygon.NewClient(cfg)
	alphaClient := alphavantage.NewClient(cfg)

	userRepo := repositories.NewUserRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	holdingRepo := repositories.NewHoldingRepository(db)
	eventRepo := repositories.NewDividendEventRepository(db)
	paymentRepo := repositories.NewDividendPaymentRepository(db)
	syncLogRepo := repositories.NewSyncLogRepository(db)

	priceService := services.NewPriceService(polygonClient, alphaClient, nil)
	dividendService := services.NewDividendService(
		polygonClient, alphaClient, priceService,
		eventRepo, paymentRepo, syncLogRepo, holdingRepo, portfolioRepo, userRepo)

	return &Controller{DividendService: dividendService}
}

// StartNightlyRefresh schedules the full dividend sync on the configured cron
// expression.
func (c *Controller) StartNightlyRefresh(schedule string, logger *logrus.Logger) error {
	task, err := scheduler.NewScheduledTask(schedule, func() {
		ctx, cancel := context.WithTimeout(utils.WithLogger(context.Background(), logger), 30*time.Minute)
		defer cancel()

		result, err := c.DividendService.SyncAll(ctx)
		if err != nil {
			logger.WithError(err).Error("nightly dividend refresh failed")
			return
		}
		logger.WithFields(logrus.Fields{
			"symbols":  len(result.Symbols),
			"inserted": result.Inserted,
		}).Info("nightly dividend refresh finished")
	})
	if err != nil {
		return err
	}
	c.RefreshTask = task
	return nil
}

func (c *Controller) StopNightlyRefresh() {
	if c.RefreshTask != nil {
		c.RefreshTask.Cancel()
		c.RefreshTask = nil
	}
}
