package controllers

import (
	"context"

	"cashflow/src/schemas"
)

func (c *Controller) MonthlyForecast(ctx context.Context, userID string, req *schemas.ForecastRequest) (*schemas.ForecastResponse, error) {
	if err := c.PortfolioService.AssertOwnership(ctx, userID, req.PortfolioID); err != nil {
		return nil, err
	}
	return c.ForecastService.MonthlyCashflow(ctx, req)
}
