package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/services"
)

func newSymbolFixture(prices map[string]float64) (*services.SymbolService, *fakePolygonClient, *fakeAlphaClient) {
	polygonClient := newFakePolygonClient()
	alphaClient := newFakeAlphaClient()
	service := services.NewSymbolService(polygonClient, alphaClient, newFakePriceService(prices))
	return service, polygonClient, alphaClient
}

func TestSearchPrefersPolygon(t *testing.T) {
	service, polygonClient, alphaClient := newSymbolFixture(nil)
	polygonClient.tickers = []polygon.TickerResult{
		{Ticker: "AAPL", Name: "Apple Inc.", PrimaryExchange: "XNAS", Locale: "us"},
	}
	alphaClient.matches = []alphavantage.SearchMatch{{Symbol: "AAPL", Name: "Apple Inc", Region: "United States"}}

	results, err := service.Search(context.Background(), "apple", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "polygon", results[0].Source)
	assert.Equal(t, "XNAS", results[0].PrimaryExchange)
}

func TestSearchFallsBackToAlpha(t *testing.T) {
	service, polygonClient, alphaClient := newSymbolFixture(nil)
	polygonClient.tickersErr = errors.New("polygon down")
	alphaClient.matches = []alphavantage.SearchMatch{
		{Symbol: "KO", Name: "Coca-Cola", Region: "United States"},
	}

	results, err := service.Search(context.Background(), "coca", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alphavantage", results[0].Source)
	assert.Equal(t, "United States", results[0].Locale)
}

func TestSearchEmptyQuery(t *testing.T) {
	service, _, _ := newSymbolFixture(nil)
	results, err := service.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSuggestRanksExactMatchFirst(t *testing.T) {
	service, polygonClient, _ := newSymbolFixture(map[string]float64{"GO": 10, "GOOGL": 150})
	polygonClient.tickers = []polygon.TickerResult{
		{Ticker: "GOOGL", Name: "Alphabet Class A"},
		{Ticker: "GO", Name: "Grocery Outlet"},
		{Ticker: "AGOX", Name: "Adams Diversified"},
	}

	suggestions, err := service.Suggest(context.Background(), "go", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "GO", suggestions[0].Symbol)
	assert.Equal(t, "GOOGL", suggestions[1].Symbol)
	assert.Equal(t, "AGOX", suggestions[2].Symbol)

	require.NotNil(t, suggestions[0].Price)
	assert.Equal(t, 10.0, *suggestions[0].Price)
	assert.Nil(t, suggestions[2].Price)
}
