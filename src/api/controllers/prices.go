package controllers

import (
	"context"

	"cashflow/src/schemas"
	"cashflow/src/services"
)

func (c *Controller) LatestPrice(ctx context.Context, symbol string) *schemas.QuoteResponse {
	price, source := c.PriceService.FetchLatestPrice(ctx, symbol)
	return &schemas.QuoteResponse{
		Symbol: services.NormalizeSymbol(symbol),
		Price:  price,
		Source: source,
		OK:     price != nil,
	}
}

func (c *Controller) SearchSymbols(ctx context.Context, query string, limit int) (*schemas.SymbolSearchResponse, error) {
	results, err := c.SymbolService.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &schemas.SymbolSearchResponse{Query: query, Results: results}, nil
}

func (c *Controller) SuggestSymbols(ctx context.Context, query string, limit int) (*schemas.SymbolSuggestResponse, error) {
	results, err := c.SymbolService.Suggest(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &schemas.SymbolSuggestResponse{Query: query, Results: results}, nil
}
