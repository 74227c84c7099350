package controllers

import (
	"context"
	"fmt"

	"cashflow/src/schemas"
)

func (c *Controller) BuyHolding(ctx context.Context, userID string, req *schemas.CreateHoldingRequest) (*schemas.CreateHoldingResponse, error) {
	return c.PortfolioService.BuyHolding(ctx, userID, req)
}

func (c *Controller) SellHolding(ctx context.Context, userID string, holdingID int, req *schemas.SellHoldingRequest) (*schemas.SellHoldingResponse, error) {
	return c.PortfolioService.SellHolding(ctx, userID, holdingID, req)
}

func (c *Controller) DeleteHolding(ctx context.Context, userID string, holdingID int) (*schemas.DeleteResponse, error) {
	if err := c.PortfolioService.DeleteHolding(ctx, userID, holdingID); err != nil {
		return nil, err
	}
	return &schemas.DeleteResponse{
		Message: fmt.Sprintf("holding %d deleted successfully (no cash refunded)", holdingID),
	}, nil
}

func (c *Controller) ListHoldings(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingResponse, error) {
	return c.PortfolioService.ListHoldings(ctx, userID, portfolioID)
}

func (c *Controller) HoldingsWithQuotes(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingQuoteRow, error) {
	return c.PortfolioService.HoldingsWithQuotes(ctx, userID, portfolioID)
}
