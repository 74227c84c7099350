package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/utils"
	redis_utils "cashflow/src/utils/redis"
)

const (
	quoteTTL          = time.Minute
	batchFetchWorkers = 4
)

type PriceServiceI interface {
	FetchLatestPrice(ctx context.Context, symbol string) (*float64, string)
	BatchFetchLatestPrices(ctx context.Context, symbols []string) map[string]*float64
}

// PriceService resolves latest quotes through a provider chain: cache first,
// then polygon previous close, then the Alpha Vantage global quote. Misses are
// cached too, so a dead symbol does not hammer the providers.
type PriceService struct {
	polygonClient polygon.ClientI
	alphaClient   alphavantage.ClientI
	cache         *utils.Cache[*float64]
	redis         *redis_utils.RedisHandler
}

func NewPriceService(polygonClient polygon.ClientI, alphaClient alphavantage.ClientI, redis *redis_utils.RedisHandler) *PriceService {
	return &PriceService{
		polygonClient: polygonClient,
		alphaClient:   alphaClient,
		cache:         utils.NewCache[*float64](quoteTTL),
		redis:         redis,
	}
}

func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(symbol)), "$", "")
}

// FetchLatestPrice returns the latest known price for symbol and the provider
// it came from. A nil price means no provider had a usable quote.
func (s *PriceService) FetchLatestPrice(ctx context.Context, symbol string) (*float64, string) {
	sym := NormalizeSymbol(symbol)

	if cached, ok := s.cache.Get(sym); ok {
		return cached, "cache"
	}
	if s.redis != nil {
		var price float64
		if err := s.redis.Get("quote:"+sym, &price); err == nil && price > 0 {
			s.cache.Set(sym, &price)
			return &price, "cache"
		}
	}

	logger := utils.LoggerFromContext(ctx)

	if price, err := s.polygonClient.PrevClose(ctx, sym); err != nil {
		logger.WithError(err).Warnf("polygon prev close failed for %s", sym)
	} else if price != nil {
		s.store(sym, price)
		return price, "polygon_prev_close"
	}

	if price, err := s.alphaClient.GlobalQuote(ctx, sym); err != nil {
		logger.WithError(err).Warnf("alphavantage quote failed for %s", sym)
	} else if price != nil {
		s.store(sym, price)
		return price, "alphavantage_global_quote"
	}

	s.cache.Set(sym, nil)
	return nil, "fallback"
}

func (s *PriceService) store(sym string, price *float64) {
	s.cache.Set(sym, price)
	if s.redis != nil && price != nil {
		_ = s.redis.Set("quote:"+sym, *price, quoteTTL)
	}
}

// BatchFetchLatestPrices fans out quote lookups with bounded concurrency and
// returns a symbol→price map. Symbols without a quote map to nil.
func (s *PriceService) BatchFetchLatestPrices(ctx context.Context, symbols []string) map[string]*float64 {
	unique := make(map[string]struct{})
	for _, sym := range symbols {
		if norm := NormalizeSymbol(sym); norm != "" {
			unique[norm] = struct{}{}
		}
	}

	out := make(map[string]*float64, len(unique))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchFetchWorkers)
	for sym := range unique {
		sym := sym
		g.Go(func() error {
			price, _ := s.FetchLatestPrice(gctx, sym)
			mu.Lock()
			out[sym] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}
