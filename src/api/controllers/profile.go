package controllers

import (
	"context"

	"cashflow/src/schemas"
)

func (c *Controller) Profile(ctx context.Context, userID string) (*schemas.ProfileResponse, error) {
	return c.PortfolioService.Profile(ctx, userID)
}

func (c *Controller) AddCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error) {
	return c.PortfolioService.AddCash(ctx, userID, req)
}

func (c *Controller) WithdrawCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error) {
	return c.PortfolioService.WithdrawCash(ctx, userID, req)
}

func (c *Controller) InitUser(ctx context.Context, userID, email string) (*schemas.InitUserResponse, error) {
	return c.PortfolioService.InitUser(ctx, userID, email)
}

func (c *Controller) ProcessDividends(ctx context.Context, userID string) (*schemas.ProcessDividendsResponse, error) {
	return c.DividendService.ProcessPayments(ctx, userID)
}

func (c *Controller) DividendHistory(ctx context.Context, userID string) (*schemas.DividendHistoryResponse, error) {
	rows, err := c.DividendService.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &schemas.DividendHistoryResponse{Payments: rows}, nil
}
