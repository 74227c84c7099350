package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cashflow/src/models"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/utils"
)

type PortfolioServiceI interface {
	ListPortfolios(ctx context.Context, userID string) ([]schemas.PortfolioResponse, error)
	CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.PortfolioResponse, error)
	GetPortfolioDetail(ctx context.Context, userID string, portfolioID int) (*schemas.PortfolioDetailResponse, error)
	DeletePortfolio(ctx context.Context, userID string, portfolioID int) error
	BuyHolding(ctx context.Context, userID string, req *schemas.CreateHoldingRequest) (*schemas.CreateHoldingResponse, error)
	SellHolding(ctx context.Context, userID string, holdingID int, req *schemas.SellHoldingRequest) (*schemas.SellHoldingResponse, error)
	DeleteHolding(ctx context.Context, userID string, holdingID int) error
	ListHoldings(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingResponse, error)
	HoldingsWithQuotes(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingQuoteRow, error)
	Profile(ctx context.Context, userID string) (*schemas.ProfileResponse, error)
	AddCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error)
	WithdrawCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error)
	InitUser(ctx context.Context, userID, email string) (*schemas.InitUserResponse, error)
	AssertOwnership(ctx context.Context, userID string, portfolioID int) error
}

// PortfolioService owns the account-facing flows: portfolio CRUD with type
// limits, buys and sells with cash accounting, and the profile summary.
type PortfolioService struct {
	portfolioRepo   repositories.PortfolioRepository
	holdingRepo     repositories.HoldingRepository
	userRepo        repositories.UserRepository
	eventRepo       repositories.DividendEventRepository
	priceService    PriceServiceI
	dividendService DividendServiceI
}

func NewPortfolioService(
	portfolioRepo repositories.PortfolioRepository,
	holdingRepo repositories.HoldingRepository,
	userRepo repositories.UserRepository,
	eventRepo repositories.DividendEventRepository,
	priceService PriceServiceI,
	dividendService DividendServiceI,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:   portfolioRepo,
		holdingRepo:     holdingRepo,
		userRepo:        userRepo,
		eventRepo:       eventRepo,
		priceService:    priceService,
		dividendService: dividendService,
	}
}

// ownedPortfolio loads a portfolio and verifies the caller owns it.
func (s *PortfolioService) ownedPortfolio(ctx context.Context, userID string, portfolioID int) (*models.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, utils.NotFound("portfolio not found")
	}
	if portfolio.UserID != userID {
		return nil, utils.Forbidden("you don't have access to this portfolio")
	}
	return portfolio, nil
}

// AssertOwnership fails with 404/403 unless the user owns the portfolio.
func (s *PortfolioService) AssertOwnership(ctx context.Context, userID string, portfolioID int) error {
	_, err := s.ownedPortfolio(ctx, userID, portfolioID)
	return err
}

func (s *PortfolioService) ListPortfolios(ctx context.Context, userID string) ([]schemas.PortfolioResponse, error) {
	portfolios, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]schemas.PortfolioResponse, 0, len(portfolios))
	for i := range portfolios {
		out = append(out, *schemas.NewPortfolioResponse(&portfolios[i]))
	}
	return out, nil
}

// CreatePortfolio enforces the account shape: at most one individual and one
// retirement portfolio per user.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.PortfolioResponse, error) {
	name := req.Name
	if name == "" {
		name = "Default"
	}
	portfolioType := models.PortfolioType(req.PortfolioType)
	if portfolioType == "" {
		portfolioType = models.PortfolioTypeIndividual
	}
	if !models.ValidPortfolioType(portfolioType) {
		return nil, utils.BadRequest("portfolio type must be 'individual' or 'retirement'")
	}

	count, names, err := s.portfolioRepo.CountByUserAndType(ctx, userID, portfolioType)
	if err != nil {
		return nil, err
	}
	if count >= 1 {
		return nil, utils.BadRequest(fmt.Sprintf(
			"you can only have 1 %s portfolio, you already have: %s", portfolioType, names[0]))
	}

	portfolio := &models.Portfolio{
		UserID:        userID,
		Name:          name,
		PortfolioType: portfolioType,
	}
	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		return nil, err
	}
	return schemas.NewPortfolioResponse(portfolio), nil
}

// GetPortfolioDetail returns the portfolio with its holdings valued at latest
// quotes. Quote failures fall back to each holding's average cost so the read
// never fails on provider trouble.
func (s *PortfolioService) GetPortfolioDetail(ctx context.Context, userID string, portfolioID int) (*schemas.PortfolioDetailResponse, error) {
	portfolio, err := s.ownedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.holdingRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	prices := s.priceService.BatchFetchLatestPrices(ctx, symbols)

	totalValue := 0.0
	withQuotes := make([]schemas.HoldingWithQuote, 0, len(holdings))
	for _, h := range holdings {
		currentPrice := h.AvgPrice
		if p := prices[NormalizeSymbol(h.Symbol)]; p != nil && *p > 0 {
			currentPrice = *p
		}
		currentValue := currentPrice * h.Shares
		totalValue += currentValue

		costBasis := h.AvgPrice * h.Shares
		gainLoss := currentValue - costBasis
		gainLossPercent := 0.0
		if costBasis > 0 {
			gainLossPercent = gainLoss / costBasis * 100
		}

		withQuotes = append(withQuotes, schemas.HoldingWithQuote{
			ID:                h.ID,
			Symbol:            h.Symbol,
			Shares:            h.Shares,
			AvgPrice:          h.AvgPrice,
			CurrentPrice:      currentPrice,
			CurrentValue:      currentValue,
			GainLoss:          gainLoss,
			GainLossPercent:   gainLossPercent,
			ReinvestDividends: h.ReinvestDividends,
		})
	}

	return &schemas.PortfolioDetailResponse{
		Portfolio:     schemas.NewPortfolioResponse(portfolio),
		Holdings:      withQuotes,
		TotalValue:    totalValue,
		HoldingsCount: len(withQuotes),
	}, nil
}

func (s *PortfolioService) DeletePortfolio(ctx context.Context, userID string, portfolioID int) error {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return err
	}
	return s.portfolioRepo.Delete(ctx, portfolioID)
}

// BuyHolding deducts the purchase cost from the portfolio's cash and merges
// the position into any existing holdings of the same symbol, keeping a
// weighted average price and the earliest purchase date.
func (s *PortfolioService) BuyHolding(ctx context.Context, userID string, req *schemas.CreateHoldingRequest) (*schemas.CreateHoldingResponse, error) {
	symbol := NormalizeSymbol(req.Symbol)
	if req.PortfolioID == 0 || symbol == "" || req.Shares <= 0 {
		return nil, utils.BadRequest("portfolio_id, symbol and positive shares are required")
	}

	reinvest := true
	if req.ReinvestDividends != nil {
		reinvest = *req.ReinvestDividends
	}

	var avgPrice, quoteUsed float64
	if req.AvgPrice != nil {
		avgPrice = *req.AvgPrice
		quoteUsed = avgPrice
	} else {
		price, _ := s.priceService.FetchLatestPrice(ctx, symbol)
		if price == nil {
			avgPrice = utils.DefaultFallbackPrice
		} else {
			avgPrice = *price
		}
		quoteUsed = avgPrice
	}
	if avgPrice <= 0 {
		return nil, utils.BadRequest("avg_price must be positive")
	}

	portfolio, err := s.ownedPortfolio(ctx, userID, req.PortfolioID)
	if err != nil {
		return nil, err
	}

	totalCost := avgPrice * req.Shares
	if portfolio.CashBalance < totalCost {
		return nil, utils.BadRequest(fmt.Sprintf(
			"insufficient cash, required: $%.2f, available: $%.2f", totalCost, portfolio.CashBalance))
	}

	existing, err := s.holdingRepo.ListBySymbolInPortfolio(ctx, req.PortfolioID, symbol)
	if err != nil {
		return nil, err
	}

	// The cash deduction and the holding writes commit together; a failed
	// write must not leave the buyer charged without a position.
	tx, err := s.portfolioRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance := portfolio.CashBalance - totalCost
	if err := s.portfolioRepo.SetCashBalance(ctx, tx, portfolio.ID, newBalance); err != nil {
		return nil, err
	}

	var holding *models.Holding
	var action string
	if len(existing) > 0 {
		totalShares := req.Shares
		totalCostBasis := totalCost
		earliest := time.Now().UTC()
		for _, h := range existing {
			totalShares += h.Shares
			totalCostBasis += h.Shares * h.AvgPrice
			if h.PurchaseDate.Before(earliest) {
				earliest = h.PurchaseDate
			}
		}

		primary := existing[0]
		primary.Symbol = symbol
		primary.Shares = totalShares
		primary.AvgPrice = totalCostBasis / totalShares
		primary.PurchaseDate = earliest
		if err := s.holdingRepo.Update(ctx, tx, &primary); err != nil {
			return nil, err
		}
		for _, duplicate := range existing[1:] {
			if err := s.holdingRepo.Delete(ctx, tx, duplicate.ID); err != nil {
				return nil, err
			}
		}
		holding = &primary
		action = "updated"
		if len(existing) > 1 {
			action = "merged"
		}
	} else {
		holding = &models.Holding{
			PortfolioID:       req.PortfolioID,
			Symbol:            symbol,
			Shares:            req.Shares,
			AvgPrice:          avgPrice,
			ReinvestDividends: reinvest,
			PurchaseDate:      time.Now().UTC(),
		}
		if err := s.holdingRepo.Create(ctx, tx, holding); err != nil {
			return nil, err
		}
		action = "created"
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// Pull the symbol's dividend history in the background so the calendar
	// and forecast see it shortly after the buy.
	logger := utils.LoggerFromContext(ctx)
	go func() {
		bgCtx, cancel := context.WithTimeout(utils.WithLogger(context.Background(), logger), 30*time.Second)
		defer cancel()
		if _, err := s.dividendService.SyncSymbols(bgCtx, []string{symbol}); err != nil {
			logger.WithError(err).Warnf("background dividend sync failed for %s", symbol)
		}
	}()

	return &schemas.CreateHoldingResponse{
		Holding: schemas.HoldingResponse{
			ID:                holding.ID,
			PortfolioID:       holding.PortfolioID,
			Symbol:            holding.Symbol,
			Shares:            holding.Shares,
			AvgPrice:          holding.AvgPrice,
			ReinvestDividends: holding.ReinvestDividends,
		},
		QuoteUsed:      quoteUsed,
		CashDeducted:   totalCost,
		NewCashBalance: newBalance,
		Action:         action,
	}, nil
}

// SellHolding converts shares back to portfolio cash at the latest quote
// (average cost when no quote is available). Selling everything removes the
// holding.
func (s *PortfolioService) SellHolding(ctx context.Context, userID string, holdingID int, req *schemas.SellHoldingRequest) (*schemas.SellHoldingResponse, error) {
	holding, err := s.holdingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}
	if holding == nil {
		return nil, utils.NotFound("holding not found")
	}
	portfolio, err := s.ownedPortfolio(ctx, userID, holding.PortfolioID)
	if err != nil {
		return nil, err
	}

	sharesToSell := holding.Shares
	if req.Shares != nil {
		sharesToSell = *req.Shares
	}
	if sharesToSell <= 0 {
		return nil, utils.BadRequest("shares to sell must be positive")
	}
	if sharesToSell > holding.Shares {
		return nil, utils.BadRequest(fmt.Sprintf(
			"cannot sell more shares than owned, owned: %g, requested: %g", holding.Shares, sharesToSell))
	}

	price := holding.AvgPrice
	if p, _ := s.priceService.FetchLatestPrice(ctx, holding.Symbol); p != nil && *p > 0 {
		price = *p
	}
	proceeds := price * sharesToSell

	// Crediting the proceeds and reducing the position commit together.
	tx, err := s.portfolioRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.portfolioRepo.AddCash(ctx, tx, portfolio.ID, proceeds); err != nil {
		return nil, err
	}

	var message string
	if sharesToSell >= holding.Shares {
		if err := s.holdingRepo.Delete(ctx, tx, holding.ID); err != nil {
			return nil, err
		}
		message = fmt.Sprintf("sold all %g shares of %s", holding.Shares, holding.Symbol)
	} else {
		holding.Shares -= sharesToSell
		if err := s.holdingRepo.Update(ctx, tx, holding); err != nil {
			return nil, err
		}
		message = fmt.Sprintf("sold %g shares of %s (remaining: %g)", sharesToSell, holding.Symbol, holding.Shares)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &schemas.SellHoldingResponse{
		Message:        message,
		SharesSold:     sharesToSell,
		PricePerShare:  price,
		Proceeds:       proceeds,
		NewCashBalance: portfolio.CashBalance + proceeds,
	}, nil
}

// DeleteHolding removes a holding without refunding cash. Sells should go
// through SellHolding.
func (s *PortfolioService) DeleteHolding(ctx context.Context, userID string, holdingID int) error {
	holding, err := s.holdingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return err
	}
	if holding == nil {
		return utils.NotFound("holding not found")
	}
	if _, err := s.ownedPortfolio(ctx, userID, holding.PortfolioID); err != nil {
		return err
	}
	return s.holdingRepo.Delete(ctx, nil, holdingID)
}

func (s *PortfolioService) ListHoldings(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingResponse, error) {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	holdings, err := s.holdingRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	out := make([]schemas.HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, schemas.HoldingResponse{
			ID:                h.ID,
			PortfolioID:       h.PortfolioID,
			Symbol:            h.Symbol,
			Shares:            h.Shares,
			AvgPrice:          h.AvgPrice,
			ReinvestDividends: h.ReinvestDividends,
		})
	}
	return out, nil
}

func (s *PortfolioService) HoldingsWithQuotes(ctx context.Context, userID string, portfolioID int) ([]schemas.HoldingQuoteRow, error) {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	holdings, err := s.holdingRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	prices := s.priceService.BatchFetchLatestPrices(ctx, symbols)

	rows := make([]schemas.HoldingQuoteRow, 0, len(holdings))
	for _, h := range holdings {
		latest := prices[NormalizeSymbol(h.Symbol)]
		marketValue := 0.0
		if latest != nil {
			marketValue = *latest * h.Shares
		}
		rows = append(rows, schemas.HoldingQuoteRow{
			ID:                h.ID,
			PortfolioID:       h.PortfolioID,
			Symbol:            h.Symbol,
			Shares:            h.Shares,
			AvgPrice:          h.AvgPrice,
			ReinvestDividends: h.ReinvestDividends,
			LatestPrice:       latest,
			MarketValue:       marketValue,
		})
	}
	return rows, nil
}

// Profile summarizes the account for the home screen. Holdings are valued at
// average cost on purpose: the summary has to stay fast and never block on
// quote providers.
func (s *PortfolioService) Profile(ctx context.Context, userID string) (*schemas.ProfileResponse, error) {
	profile, err := s.userRepo.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	portfolios, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalValue, totalCash := 0.0, 0.0
	summaries := make([]schemas.PortfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		holdings, err := s.holdingRepo.ListByPortfolio(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		value := 0.0
		for _, h := range holdings {
			value += h.Shares * h.AvgPrice
		}
		totalValue += value
		totalCash += p.CashBalance
		summaries = append(summaries, schemas.PortfolioSummary{
			ID:            p.ID,
			Name:          p.Name,
			PortfolioType: string(p.PortfolioType),
			TotalValue:    value,
			CashBalance:   p.CashBalance,
			HoldingsCount: len(holdings),
		})
	}

	upcoming, err := s.upcomingDividends(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &schemas.ProfileResponse{
		UserID:                 userID,
		CashBalance:            profile.CashBalance,
		TotalDividendsReceived: profile.TotalDividendsReceived,
		TotalPortfolioValue:    totalValue,
		TotalPortfolioCash:     totalCash,
		UpcomingDividends:      upcoming,
		TotalNetWorth:          totalCash + totalValue,
		Portfolios:             summaries,
		LastUpdated:            profile.LastUpdated,
	}, nil
}

// upcomingDividends sums declared-but-unpaid dividend cash across all of the
// user's holdings, from stored events only.
func (s *PortfolioService) upcomingDividends(ctx context.Context, userID string) (float64, error) {
	rows, err := s.eventRepo.CalendarRows(ctx, userID)
	if err != nil {
		return 0, err
	}
	today := time.Now().UTC()
	total := 0.0
	for _, row := range rows {
		if row.ExDate == nil || !row.ExDate.After(today) {
			continue
		}
		total += row.Amount * row.Shares
	}
	return total, nil
}

func (s *PortfolioService) AddCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error) {
	if req.Amount <= 0 {
		return nil, utils.BadRequest("amount must be positive")
	}
	if req.PortfolioID == 0 {
		return nil, utils.BadRequest("portfolio_id is required")
	}
	portfolio, err := s.ownedPortfolio(ctx, userID, req.PortfolioID)
	if err != nil {
		return nil, err
	}
	if err := s.portfolioRepo.AddCash(ctx, nil, portfolio.ID, req.Amount); err != nil {
		return nil, err
	}
	return &schemas.CashResponse{
		Message:       fmt.Sprintf("added $%.2f to portfolio '%s'", req.Amount, portfolio.Name),
		NewBalance:    portfolio.CashBalance + req.Amount,
		PortfolioID:   portfolio.ID,
		PortfolioName: portfolio.Name,
	}, nil
}

func (s *PortfolioService) WithdrawCash(ctx context.Context, userID string, req *schemas.CashRequest) (*schemas.CashResponse, error) {
	if req.Amount <= 0 {
		return nil, utils.BadRequest("amount must be positive")
	}
	if req.PortfolioID == 0 {
		return nil, utils.BadRequest("portfolio_id is required")
	}
	portfolio, err := s.ownedPortfolio(ctx, userID, req.PortfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.CashBalance < req.Amount {
		return nil, utils.BadRequest(fmt.Sprintf(
			"insufficient cash balance, available: $%.2f, requested: $%.2f", portfolio.CashBalance, req.Amount))
	}
	newBalance := portfolio.CashBalance - req.Amount
	if err := s.portfolioRepo.SetCashBalance(ctx, nil, portfolio.ID, newBalance); err != nil {
		return nil, err
	}
	return &schemas.CashResponse{
		Message:       fmt.Sprintf("withdrew $%.2f from portfolio '%s'", req.Amount, portfolio.Name),
		NewBalance:    newBalance,
		PortfolioID:   portfolio.ID,
		PortfolioName: portfolio.Name,
	}, nil
}

// InitUser makes sure the authenticated user has a row, a profile and a
// default portfolio. Called on first login.
func (s *PortfolioService) InitUser(ctx context.Context, userID, email string) (*schemas.InitUserResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.BadRequest("user id is required")
	}
	user := &models.User{ID: userID, Email: email}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	portfolios, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var portfolioID int
	if len(portfolios) > 0 {
		portfolioID = portfolios[0].ID
	} else {
		portfolio := &models.Portfolio{
			UserID:        userID,
			Name:          "Default",
			PortfolioType: models.PortfolioTypeIndividual,
		}
		if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
			return nil, err
		}
		portfolioID = portfolio.ID
	}

	return &schemas.InitUserResponse{
		ID:          userID,
		PortfolioID: portfolioID,
		Email:       user.Email,
	}, nil
}
