package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/schemas"
	"cashflow/src/utils"
)

type SymbolServiceI interface {
	Search(ctx context.Context, query string, limit int) ([]schemas.SymbolSearchResult, error)
	Suggest(ctx context.Context, query string, limit int) ([]schemas.SymbolSuggestion, error)
}

// SymbolService answers ticker lookups, preferring polygon's reference data
// and falling back to Alpha Vantage keyword search.
type SymbolService struct {
	polygonClient polygon.ClientI
	alphaClient   alphavantage.ClientI
	priceService  PriceServiceI
	cache         *utils.Cache[[]schemas.SymbolSearchResult]
}

func NewSymbolService(polygonClient polygon.ClientI, alphaClient alphavantage.ClientI, priceService PriceServiceI) *SymbolService {
	return &SymbolService{
		polygonClient: polygonClient,
		alphaClient:   alphaClient,
		priceService:  priceService,
		cache:         utils.NewCache[[]schemas.SymbolSearchResult](10 * time.Minute),
	}
}

func (s *SymbolService) Search(ctx context.Context, query string, limit int) ([]schemas.SymbolSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []schemas.SymbolSearchResult{}, nil
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	cacheKey := strings.ToUpper(query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return capResults(cached, limit), nil
	}

	logger := utils.LoggerFromContext(ctx)

	var results []schemas.SymbolSearchResult
	if s.polygonClient.Enabled() {
		tickers, err := s.polygonClient.SearchTickers(ctx, query, limit)
		if err != nil {
			logger.WithError(err).Warnf("polygon ticker search failed for %q", query)
		} else {
			for _, t := range tickers {
				results = append(results, schemas.SymbolSearchResult{
					Symbol:          t.Ticker,
					Name:            t.Name,
					PrimaryExchange: t.PrimaryExchange,
					Locale:          t.Locale,
					Source:          "polygon",
				})
			}
		}
	}

	if len(results) == 0 && s.alphaClient.Enabled() {
		matches, err := s.alphaClient.SymbolSearch(ctx, query, limit)
		if err != nil {
			logger.WithError(err).Warnf("alphavantage symbol search failed for %q", query)
		} else {
			for _, m := range matches {
				results = append(results, schemas.SymbolSearchResult{
					Symbol: m.Symbol,
					Name:   m.Name,
					Locale: m.Region,
					Source: "alphavantage",
				})
			}
		}
	}

	if results == nil {
		results = []schemas.SymbolSearchResult{}
	}
	s.cache.Set(cacheKey, results)
	return capResults(results, limit), nil
}

// Suggest ranks search results for typeahead (exact symbol match first, then
// symbol prefixes) and decorates them with latest known prices.
func (s *SymbolService) Suggest(ctx context.Context, query string, limit int) ([]schemas.SymbolSuggestion, error) {
	results, err := s.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	upper := strings.ToUpper(strings.TrimSpace(query))
	rank := func(r schemas.SymbolSearchResult) int {
		sym := strings.ToUpper(r.Symbol)
		switch {
		case sym == upper:
			return 0
		case strings.HasPrefix(sym, upper):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return rank(results[i]) < rank(results[j])
	})

	symbols := make([]string, 0, len(results))
	for _, r := range results {
		symbols = append(symbols, r.Symbol)
	}
	prices := s.priceService.BatchFetchLatestPrices(ctx, symbols)

	suggestions := make([]schemas.SymbolSuggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, schemas.SymbolSuggestion{
			Symbol:          r.Symbol,
			Name:            r.Name,
			PrimaryExchange: r.PrimaryExchange,
			Price:           prices[NormalizeSymbol(r.Symbol)],
		})
	}
	return suggestions, nil
}

func capResults(results []schemas.SymbolSearchResult, limit int) []schemas.SymbolSearchResult {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}
