package controllers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/config"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/services"
	redis_utils "cashflow/src/utils/redis"
)

// IController is the surface the HTTP handlers call into.
type IController interface {
	ListPortfolios(ctx context.Context, userID string) ([]schemas.PortfolioResponse, error)
	CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.PortfolioResponse, error)
	GetPortfolioDetail(ctx context.Context, userID string, portfolioID int) (*schemas.PortfolioDetailResponse, error)
	DeletePortfolio(ctx context.Context, userID string, portfolioID int) (*schemas.DeleteResponse, error)

	BuyHolding(ctx context.Context, userID string, req *schemas.CreateHoldingRequest) (*schemas.CreateHoldingResponse, error)
	SellHolding(ctx context.Context, userID string, holdingID int, req *schemas.SellHoldingRequest) (*schemas.SellHoldingResponse, error)
	DeleteHolding(ctx context.Context, userID string, holdingID int) (*schemas.DeleteResponse, error)
	ListHoldings(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingResponse, error)
	HoldingsWithQuotes(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingQuoteRow, error)

	Profile(ctx context.Context, userID string) (*schemas.ProfileResponse, error)
	AddCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error)
	WithdrawCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error)
	InitUser(ctx context.Context, userID, email string) (*schemas.InitUserResponse, error)
	ProcessDividends(ctx context.Context, userID string) (*schemas.ProcessDividendsResponse, error)
	DividendHistory(ctx context.Context, userID string) (*schemas.DividendHistoryResponse, error)

	Calendar(ctx context.Context, userID string) (*schemas.CalendarResponse, error)
	SyncPortfolioDividends(ctx context.Context, userID string, portfolioID int) (*schemas.SyncResult, error)
	SyncAllDividends(ctx context.Context) (*schemas.SyncResult, error)

	MonthlyForecast(ctx context.Context, userID string, req *schemas.ForecastRequest) (*schemas.ForecastResponse, error)

	RiskMetrics(ctx context.Context, portfolioID int) interface{}
	RiskAnalysis(ctx context.Context, portfolioID int) interface{}

	LatestPrice(ctx context.Context, symbol string) *schemas.QuoteResponse
	SearchSymbols(ctx context.Context, query string, limit int) (*schemas.SymbolSearchResponse, error)
	SuggestSymbols(ctx context.Context, query string, limit int) (*schemas.SymbolSuggestResponse, error)
}

// Controller wires the services behind the API surface.
type Controller struct {
	PortfolioService services.PortfolioServiceI
	DividendService  services.DividendServiceI
	ForecastService  services.ForecastServiceI
	RiskService      services.RiskServiceI
	PriceService     services.PriceServiceI
	SymbolService    services.SymbolServiceI
}

func NewController(cfg *config.Config, db *pgxpool.Pool) (*Controller, error) {
	var redisHandler *redis_utils.RedisHandler
	if cfg.Databases.Redis.Enabled {
		var err error
		redisHandler, err = redis_utils.NewRedisHandler(cfg)
		if err != nil {
			return nil, err
		}
	}

	polygonClient := polygon.NewClient(cfg)
	alphaClient := alphavantage.NewClient(cfg)

	userRepo := repositories.NewUserRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	holdingRepo := repositories.NewHoldingRepository(db)
	eventRepo := repositories.NewDividendEventRepository(db)
	paymentRepo := repositories.NewDividendPaymentRepository(db)
	syncLogRepo := repositories.NewSyncLogRepository(db)

	priceService := services.NewPriceService(polygonClient, alphaClient, redisHandler)
	symbolService := services.NewSymbolService(polygonClient, alphaClient, priceService)
	dividendService := services.NewDividendService(
		polygonClient, alphaClient, priceService,
		eventRepo, paymentRepo, syncLogRepo, holdingRepo, portfolioRepo, userRepo)
	portfolioService := services.NewPortfolioService(
		portfolioRepo, holdingRepo, userRepo, eventRepo, priceService, dividendService)
	forecastService := services.NewForecastService(portfolioRepo, holdingRepo, eventRepo, priceService)
	earningsService := services.NewEarningsRiskService(polygonClient)
	riskService := services.NewRiskService(holdingRepo, eventRepo, priceService, earningsService)

	return &Controller{
		PortfolioService: portfolioService,
		DividendService:  dividendService,
		ForecastService:  forecastService,
		RiskService:      riskService,
		PriceService:     priceService,
		SymbolService:    symbolService,
	}, nil
}
