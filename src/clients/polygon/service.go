package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cashflow/src/config"
	requests "cashflow/src/utils/requests"
)

// ClientI is the polygon.io surface the services depend on.
type ClientI interface {
	Enabled() bool
	Dividends(ctx context.Context, symbol string) ([]DividendResult, error)
	PrevClose(ctx context.Context, symbol string) (*float64, error)
	SearchTickers(ctx context.Context, query string, limit int) ([]TickerResult, error)
	Financials(ctx context.Context, symbol string, limit int) ([]FinancialsResult, error)
}

// Client talks to the polygon.io reference and aggregates APIs.
type Client struct {
	API    *requests.ExternalAPIService
	apiKey string
}

func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.ExternalClients.Polygon.BaseURL
	if baseURL == "" {
		baseURL = "https://api.polygon.io"
	}
	return &Client{
		API:    requests.NewExternalAPIService(baseURL),
		apiKey: cfg.ExternalClients.Polygon.APIKey,
	}
}

// Enabled reports whether an API key is configured. Without one every call
// short-circuits so callers can fall through to the secondary provider.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

func normalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(symbol)), "$", "")
}

func (c *Client) Dividends(ctx context.Context, symbol string) ([]DividendResult, error) {
	if !c.Enabled() {
		return nil, nil
	}
	params := url.Values{}
	params.Set("ticker", normalizeSymbol(symbol))
	params.Set("limit", "100")
	params.Set("apiKey", c.apiKey)

	var result dividendsResponse
	if err := c.API.GetJSON(ctx, "/v3/reference/dividends", params, &result); err != nil {
		return nil, fmt.Errorf("polygon dividends for %s: %w", symbol, err)
	}
	return result.Results, nil
}

func (c *Client) PrevClose(ctx context.Context, symbol string) (*float64, error) {
	if !c.Enabled() {
		return nil, nil
	}
	params := url.Values{}
	params.Set("adjusted", "true")
	params.Set("apiKey", c.apiKey)

	var result prevCloseResponse
	path := "/v2/aggs/ticker/" + normalizeSymbol(symbol) + "/prev"
	if err := c.API.GetJSON(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("polygon prev close for %s: %w", symbol, err)
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	price := result.Results[0].Close
	if price <= 0 {
		return nil, nil
	}
	return &price, nil
}

func (c *Client) SearchTickers(ctx context.Context, query string, limit int) ([]TickerResult, error) {
	if !c.Enabled() || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("search", strings.TrimSpace(query))
	params.Set("active", "true")
	params.Set("market", "stocks")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apiKey", c.apiKey)

	var result tickersResponse
	if err := c.API.GetJSON(ctx, "/v3/reference/tickers", params, &result); err != nil {
		return nil, fmt.Errorf("polygon ticker search %q: %w", query, err)
	}
	return result.Results, nil
}

func (c *Client) Financials(ctx context.Context, symbol string, limit int) ([]FinancialsResult, error) {
	if !c.Enabled() {
		return nil, nil
	}
	params := url.Values{}
	params.Set("ticker", normalizeSymbol(symbol))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apiKey", c.apiKey)

	var result financialsResponse
	if err := c.API.GetJSON(ctx, "/v2/reference/financials", params, &result); err != nil {
		return nil, fmt.Errorf("polygon financials for %s: %w", symbol, err)
	}
	return result.Results, nil
}
