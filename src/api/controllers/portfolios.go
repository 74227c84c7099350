package controllers

import (
	"context"
	"fmt"

	"cashflow/src/schemas"
)

func (c *Controller) ListPortfolios(ctx context.Context, userID string) ([]schemas.PortfolioResponse, error) {
	return c.PortfolioService.ListPortfolios(ctx, userID)
}

func (c *Controller) CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.PortfolioResponse, error) {
	return c.PortfolioService.CreatePortfolio(ctx, userID, req)
}

func (c *Controller) GetPortfolioDetail(ctx context.Context, userID string, portfolioID int) (*schemas.PortfolioDetailResponse, error) {
	return c.PortfolioService.GetPortfolioDetail(ctx, userID, portfolioID)
}

func (c *Controller) DeletePortfolio(ctx context.Context, userID string, portfolioID int) (*schemas.DeleteResponse, error) {
	if err := c.PortfolioService.DeletePortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return &schemas.DeleteResponse{Message: fmt.Sprintf("portfolio %d deleted successfully", portfolioID)}, nil
}
