package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/models"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/utils"
)

const syncWorkers = 4

type DividendServiceI interface {
	FetchDividends(ctx context.Context, symbol string) ([]models.DividendEvent, error)
	SyncSymbols(ctx context.Context, symbols []string) (*schemas.SyncResult, error)
	SyncPortfolio(ctx context.Context, portfolioID int) (*schemas.SyncResult, error)
	SyncAll(ctx context.Context) (*schemas.SyncResult, error)
	Calendar(ctx context.Context, userID string) ([]schemas.CalendarEvent, error)
	ProcessPayments(ctx context.Context, userID string) (*schemas.ProcessDividendsResponse, error)
	History(ctx context.Context, userID string) ([]schemas.DividendPaymentRow, error)
}

// DividendService fetches declared dividends from the providers, persists
// them idempotently and serves the user-facing calendar and payment views.
type DividendService struct {
	polygonClient polygon.ClientI
	alphaClient   alphavantage.ClientI
	priceService  PriceServiceI
	eventRepo     repositories.DividendEventRepository
	paymentRepo   repositories.DividendPaymentRepository
	syncLogRepo   repositories.SyncLogRepository
	holdingRepo   repositories.HoldingRepository
	portfolioRepo repositories.PortfolioRepository
	userRepo      repositories.UserRepository
}

func NewDividendService(
	polygonClient polygon.ClientI,
	alphaClient alphavantage.ClientI,
	priceService PriceServiceI,
	eventRepo repositories.DividendEventRepository,
	paymentRepo repositories.DividendPaymentRepository,
	syncLogRepo repositories.SyncLogRepository,
	holdingRepo repositories.HoldingRepository,
	portfolioRepo repositories.PortfolioRepository,
	userRepo repositories.UserRepository,
) *DividendService {
	return &DividendService{
		polygonClient: polygonClient,
		alphaClient:   alphaClient,
		priceService:  priceService,
		eventRepo:     eventRepo,
		paymentRepo:   paymentRepo,
		syncLogRepo:   syncLogRepo,
		holdingRepo:   holdingRepo,
		portfolioRepo: portfolioRepo,
		userRepo:      userRepo,
	}
}

// FetchDividends merges provider data for one symbol. Polygon is the primary
// source; Alpha Vantage month-end distributions only fill months polygon has
// no event for.
func (s *DividendService) FetchDividends(ctx context.Context, symbol string) ([]models.DividendEvent, error) {
	sym := NormalizeSymbol(symbol)
	logger := utils.LoggerFromContext(ctx)

	byMonth := make(map[string]models.DividendEvent)
	var order []string

	polygonResults, polyErr := s.polygonClient.Dividends(ctx, sym)
	if polyErr != nil {
		logger.WithError(polyErr).Warnf("polygon dividends failed for %s", sym)
	}
	for _, d := range polygonResults {
		exDate, err := utils.ParseDate(d.ExDividendDate)
		if err != nil || exDate == nil {
			continue
		}
		payDate, _ := utils.ParseDate(d.PayDate)
		recordDate, _ := utils.ParseDate(d.RecordDate)
		key := exDate.Format(utils.MonthLayout)
		if _, seen := byMonth[key]; !seen {
			order = append(order, key)
		}
		byMonth[key] = models.DividendEvent{
			Symbol:     sym,
			ExDate:     exDate,
			PayDate:    payDate,
			RecordDate: recordDate,
			Amount:     d.CashAmount,
			Source:     "polygon",
		}
	}

	alphaResults, alphaErr := s.alphaClient.MonthlyDividends(ctx, sym)
	if alphaErr != nil {
		logger.WithError(alphaErr).Warnf("alphavantage dividends failed for %s", sym)
	}
	for _, d := range alphaResults {
		exDate, err := utils.ParseDate(d.Date)
		if err != nil || exDate == nil {
			continue
		}
		key := exDate.Format(utils.MonthLayout)
		if _, seen := byMonth[key]; seen {
			continue
		}
		order = append(order, key)
		byMonth[key] = models.DividendEvent{
			Symbol: sym,
			ExDate: exDate,
			Amount: d.Amount,
			Source: "alphavantage",
		}
	}

	if len(byMonth) == 0 && polyErr != nil && alphaErr != nil {
		return nil, polyErr
	}

	events := make([]models.DividendEvent, 0, len(order))
	for _, key := range order {
		events = append(events, byMonth[key])
	}
	return events, nil
}

// SyncSymbols fetches and upserts each symbol with bounded concurrency. A
// symbol whose providers fail is recorded with 0 inserts instead of failing
// the run.
func (s *DividendService) SyncSymbols(ctx context.Context, symbols []string) (*schemas.SyncResult, error) {
	result := &schemas.SyncResult{
		Symbols:   make([]string, 0, len(symbols)),
		PerSymbol: make(map[string]int, len(symbols)),
	}
	for _, sym := range symbols {
		result.Symbols = append(result.Symbols, NormalizeSymbol(sym))
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncWorkers)

	for _, sym := range result.Symbols {
		sym := sym
		g.Go(func() error {
			logger := utils.LoggerFromContext(gctx)

			events, err := s.FetchDividends(gctx, sym)
			if err != nil {
				logger.WithError(err).Warnf("dividend sync skipping %s", sym)
				mu.Lock()
				result.PerSymbol[sym] = 0
				mu.Unlock()
				return nil
			}

			inserted := 0
			for i := range events {
				wasInserted, err := s.eventRepo.Upsert(gctx, &events[i])
				if err != nil {
					logger.WithError(err).Errorf("dividend upsert failed for %s", sym)
					continue
				}
				if wasInserted {
					inserted++
				}
			}

			mu.Lock()
			result.PerSymbol[sym] = inserted
			result.Inserted += inserted
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DividendService) logSync(ctx context.Context, result *schemas.SyncResult) {
	log := &models.SyncLog{
		RunID:            uuid.NewString(),
		PortfolioID:      result.PortfolioID,
		SymbolsProcessed: len(result.Symbols),
		EventsInserted:   result.Inserted,
	}
	if err := s.syncLogRepo.Create(ctx, log); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("failed to record sync log")
	}
}

func (s *DividendService) SyncPortfolio(ctx context.Context, portfolioID int) (*schemas.SyncResult, error) {
	portfolio, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, utils.NotFound("portfolio not found")
	}

	symbols, err := s.holdingRepo.DistinctSymbols(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	result, err := s.SyncSymbols(ctx, symbols)
	if err != nil {
		return nil, err
	}
	result.PortfolioID = &portfolioID
	s.logSync(ctx, result)
	return result, nil
}

func (s *DividendService) SyncAll(ctx context.Context) (*schemas.SyncResult, error) {
	symbols, err := s.holdingRepo.DistinctSymbolsAll(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.SyncSymbols(ctx, symbols)
	if err != nil {
		return nil, err
	}
	s.logSync(ctx, result)
	return result, nil
}

// Calendar lists dividend events for every symbol the user holds, limited to
// events on or after each holding's purchase date.
func (s *DividendService) Calendar(ctx context.Context, userID string) ([]schemas.CalendarEvent, error) {
	rows, err := s.eventRepo.CalendarRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	events := make([]schemas.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		if row.ExDate != nil && row.ExDate.Before(utils.MonthStart(row.PurchaseDate)) {
			continue
		}

		status := schemas.DividendStatusUpcoming
		switch {
		case row.PayDate != nil && !row.PayDate.After(today):
			status = schemas.DividendStatusPaid
		case row.PayDate == nil && row.ExDate != nil && !row.ExDate.After(today):
			status = schemas.DividendStatusPaid
		}

		events = append(events, schemas.CalendarEvent{
			PortfolioID: row.PortfolioID,
			Symbol:      row.Symbol,
			ExDate:      row.ExDate,
			PayDate:     row.PayDate,
			Amount:      row.Amount,
			Shares:      row.Shares,
			Cash:        row.Amount * row.Shares,
			Status:      status,
		})
	}
	return events, nil
}

// ProcessPayments credits unprocessed past dividends to the owning
// portfolio's cash balance, or reinvests them when the holding opted in.
func (s *DividendService) ProcessPayments(ctx context.Context, userID string) (*schemas.ProcessDividendsResponse, error) {
	holdings, err := s.holdingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC()
	processed := 0
	totalAdded := 0.0

	for i := range holdings {
		holding := &holdings[i]
		events, err := s.eventRepo.ListBySymbolSince(ctx, holding.Symbol, holding.PurchaseDate, today)
		if err != nil {
			return nil, err
		}

		for _, event := range events {
			if event.ExDate == nil {
				continue
			}
			exists, err := s.paymentRepo.Exists(ctx, userID, holding.Symbol, *event.ExDate)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}

			total := event.Amount * holding.Shares
			payment := &models.DividendPayment{
				UserID:         userID,
				PortfolioID:    holding.PortfolioID,
				Symbol:         holding.Symbol,
				ExDate:         *event.ExDate,
				PayDate:        event.PayDate,
				AmountPerShare: event.Amount,
				SharesOwned:    holding.Shares,
				TotalAmount:    total,
			}

			if holding.ReinvestDividends {
				price, _ := s.priceService.FetchLatestPrice(ctx, holding.Symbol)
				if price == nil && holding.AvgPrice > 0 {
					price = &holding.AvgPrice
				}
				if price != nil && *price > 0 {
					holding.Shares += total / *price
					if err := s.holdingRepo.Update(ctx, nil, holding); err != nil {
						return nil, err
					}
					payment.Reinvested = true
				}
			}
			if !payment.Reinvested {
				if err := s.portfolioRepo.AddCash(ctx, nil, holding.PortfolioID, total); err != nil {
					return nil, err
				}
			}

			if err := s.paymentRepo.Create(ctx, payment); err != nil {
				return nil, err
			}
			if err := s.userRepo.AddDividendsReceived(ctx, userID, total); err != nil {
				return nil, err
			}
			processed++
			totalAdded += total
		}
	}

	newBalance := 0.0
	portfolios, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range portfolios {
		newBalance += p.CashBalance
	}

	return &schemas.ProcessDividendsResponse{
		Message:        "dividends processed",
		Processed:      processed,
		TotalAdded:     totalAdded,
		NewCashBalance: newBalance,
	}, nil
}

func (s *DividendService) History(ctx context.Context, userID string) ([]schemas.DividendPaymentRow, error) {
	payments, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows := make([]schemas.DividendPaymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, schemas.DividendPaymentRow{
			Symbol:         p.Symbol,
			ExDate:         p.ExDate,
			PayDate:        p.PayDate,
			AmountPerShare: p.AmountPerShare,
			SharesOwned:    p.SharesOwned,
			TotalAmount:    p.TotalAmount,
			Reinvested:     p.Reinvested,
			ProcessedAt:    p.ProcessedAt,
		})
	}
	return rows, nil
}
