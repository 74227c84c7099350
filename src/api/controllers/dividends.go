package controllers

import (
	"context"

	"cashflow/src/schemas"
	"cashflow/src/utils"
)

// Calendar returns the user's dividend calendar. Failures degrade to an empty
// list so the calendar screen never hard-errors.
func (c *Controller) Calendar(ctx context.Context, userID string) (*schemas.CalendarResponse, error) {
	events, err := c.DividendService.Calendar(ctx, userID)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("calendar lookup failed")
		return &schemas.CalendarResponse{Events: []schemas.CalendarEvent{}}, nil
	}
	if events == nil {
		events = []schemas.CalendarEvent{}
	}
	return &schemas.CalendarResponse{Events: events}, nil
}

// SyncPortfolioDividends refreshes dividend events for every symbol in a
// portfolio the caller owns.
func (c *Controller) SyncPortfolioDividends(ctx context.Context, userID string, portfolioID int) (*schemas.SyncResult, error) {
	if err := c.PortfolioService.AssertOwnership(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return c.DividendService.SyncPortfolio(ctx, portfolioID)
}

// SyncAllDividends refreshes every held symbol across all portfolios.
func (c *Controller) SyncAllDividends(ctx context.Context) (*schemas.SyncResult, error) {
	return c.DividendService.SyncAll(ctx)
}
