package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"cashflow/src/config"
	requests "cashflow/src/utils/requests"
)

// ClientI is the Alpha Vantage surface the services depend on.
type ClientI interface {
	Enabled() bool
	GlobalQuote(ctx context.Context, symbol string) (*float64, error)
	SymbolSearch(ctx context.Context, query string, limit int) ([]SearchMatch, error)
	MonthlyDividends(ctx context.Context, symbol string) ([]MonthlyDividend, error)
}

// Client talks to the Alpha Vantage query API. It is the secondary quote and
// dividend provider, used when polygon is unconfigured or returns nothing.
type Client struct {
	API    *requests.ExternalAPIService
	apiKey string
}

func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.ExternalClients.AlphaVantage.BaseURL
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return &Client{
		API:    requests.NewExternalAPIService(baseURL),
		apiKey: cfg.ExternalClients.AlphaVantage.APIKey,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

func normalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(symbol)), "$", "")
}

// GlobalQuote returns the latest price from GLOBAL_QUOTE, preferring the live
// price field and falling back to the previous close.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*float64, error) {
	if !c.Enabled() {
		return nil, nil
	}
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", normalizeSymbol(symbol))
	params.Set("apikey", c.apiKey)

	var result globalQuoteResponse
	if err := c.API.GetJSON(ctx, "/query", params, &result); err != nil {
		return nil, fmt.Errorf("alphavantage global quote for %s: %w", symbol, err)
	}

	raw := result.GlobalQuote["05. price"]
	if raw == "" {
		raw = result.GlobalQuote["08. previous close"]
	}
	if raw == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return nil, nil
	}
	return &price, nil
}

func (c *Client) SymbolSearch(ctx context.Context, query string, limit int) ([]SearchMatch, error) {
	if !c.Enabled() || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", strings.TrimSpace(query))
	params.Set("apikey", c.apiKey)

	var result symbolSearchResponse
	if err := c.API.GetJSON(ctx, "/query", params, &result); err != nil {
		return nil, fmt.Errorf("alphavantage symbol search %q: %w", query, err)
	}

	matches := make([]SearchMatch, 0, limit)
	for _, m := range result.BestMatches {
		if len(matches) >= limit {
			break
		}
		matches = append(matches, SearchMatch{
			Symbol: m["1. symbol"],
			Name:   m["2. name"],
			Region: m["4. region"],
		})
	}
	return matches, nil
}

// MonthlyDividends extracts the dividend distributions from the adjusted
// monthly series. Only months with a non-zero amount are returned, newest
// first.
func (c *Client) MonthlyDividends(ctx context.Context, symbol string) ([]MonthlyDividend, error) {
	if !c.Enabled() {
		return nil, nil
	}
	params := url.Values{}
	params.Set("function", "TIME_SERIES_MONTHLY_ADJUSTED")
	params.Set("symbol", normalizeSymbol(symbol))
	params.Set("apikey", c.apiKey)

	var result monthlyAdjustedResponse
	if err := c.API.GetJSON(ctx, "/query", params, &result); err != nil {
		return nil, fmt.Errorf("alphavantage monthly dividends for %s: %w", symbol, err)
	}

	var dividends []MonthlyDividend
	for date, fields := range result.Series {
		amount, err := strconv.ParseFloat(fields["7. dividend amount"], 64)
		if err != nil || amount <= 0 {
			continue
		}
		dividends = append(dividends, MonthlyDividend{Date: date, Amount: amount})
	}
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date > dividends[j].Date })
	return dividends, nil
}
