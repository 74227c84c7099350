package controllers

import (
	"context"

	"cashflow/src/schemas"
)

func (c *Controller) SyncAll(ctx context.Context) (*schemas.SyncResult, error) {
	return c.DividendService.SyncAll(ctx)
}

func (c *Controller) SyncPortfolio(ctx context.Context, portfolioID int) (*schemas.SyncResult, error) {
	return c.DividendService.SyncPortfolio(ctx, portfolioID)
}
