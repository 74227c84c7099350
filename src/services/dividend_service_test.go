package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/models"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/services"
)

type dividendFixture struct {
	service       *services.DividendService
	polygonClient *fakePolygonClient
	alphaClient   *fakeAlphaClient
	eventRepo     *fakeDividendEventRepo
	paymentRepo   *fakeDividendPaymentRepo
	syncLogRepo   *fakeSyncLogRepo
	holdingRepo   *fakeHoldingRepo
	portfolioRepo *fakePortfolioRepo
	userRepo      *fakeUserRepo
	priceService  *fakePriceService
}

func newDividendFixture(prices map[string]float64) *dividendFixture {
	f := &dividendFixture{
		polygonClient: newFakePolygonClient(),
		alphaClient:   newFakeAlphaClient(),
		eventRepo:     newFakeDividendEventRepo(),
		paymentRepo:   newFakeDividendPaymentRepo(),
		syncLogRepo:   &fakeSyncLogRepo{},
		holdingRepo:   newFakeHoldingRepo(),
		portfolioRepo: newFakePortfolioRepo(),
		userRepo:      newFakeUserRepo(),
		priceService:  newFakePriceService(prices),
	}
	f.service = services.NewDividendService(
		f.polygonClient, f.alphaClient, f.priceService,
		f.eventRepo, f.paymentRepo, f.syncLogRepo,
		f.holdingRepo, f.portfolioRepo, f.userRepo,
	)
	return f
}

func TestFetchDividendsPrefersPolygon(t *testing.T) {
	f := newDividendFixture(nil)
	f.polygonClient.dividends["AAPL"] = []polygon.DividendResult{
		{ExDividendDate: "2024-01-15", PayDate: "2024-02-01", CashAmount: 0.5},
	}
	f.alphaClient.monthly["AAPL"] = []alphavantage.MonthlyDividend{
		{Date: "2024-02-29", Amount: 0.4},
		{Date: "2024-01-31", Amount: 0.6},
	}

	events, err := f.service.FetchDividends(context.Background(), "aapl")
	require.NoError(t, err)
	require.Len(t, events, 2)

	byMonth := map[string]models.DividendEvent{}
	for _, e := range events {
		byMonth[e.ExDate.Format("2006-01")] = e
	}
	jan := byMonth["2024-01"]
	assert.Equal(t, "polygon", jan.Source)
	assert.Equal(t, 0.5, jan.Amount)
	require.NotNil(t, jan.PayDate)

	feb := byMonth["2024-02"]
	assert.Equal(t, "alphavantage", feb.Source)
	assert.Equal(t, 0.4, feb.Amount)
}

func TestFetchDividendsBothProvidersFail(t *testing.T) {
	f := newDividendFixture(nil)
	f.polygonClient.dividendsErr = errors.New("polygon down")
	f.alphaClient.monthlyErr = errors.New("alpha down")

	_, err := f.service.FetchDividends(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestFetchDividendsOneProviderDown(t *testing.T) {
	f := newDividendFixture(nil)
	f.polygonClient.dividendsErr = errors.New("polygon down")
	f.alphaClient.monthly["KO"] = []alphavantage.MonthlyDividend{{Date: "2024-03-28", Amount: 0.46}}

	events, err := f.service.FetchDividends(context.Background(), "KO")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "alphavantage", events[0].Source)
}

func TestSyncSymbolsPartialFailure(t *testing.T) {
	f := newDividendFixture(nil)
	f.polygonClient.dividends["AAPL"] = []polygon.DividendResult{
		{ExDividendDate: "2024-01-15", CashAmount: 0.5},
		{ExDividendDate: "2024-04-15", CashAmount: 0.5},
	}
	f.alphaClient.monthlyErr = errors.New("alpha down")

	// BAD yields no events from either provider and is recorded as 0 inserts.
	result, err := f.service.SyncSymbols(context.Background(), []string{"aapl", "BAD"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAPL", "BAD"}, result.Symbols)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 2, result.PerSymbol["AAPL"])
	assert.Equal(t, 0, result.PerSymbol["BAD"])

	// A second run upserts the same events without counting them again.
	result, err = f.service.SyncSymbols(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
}

func TestSyncPortfolioRecordsLog(t *testing.T) {
	f := newDividendFixture(nil)
	f.portfolioRepo.seed(models.Portfolio{ID: 7, UserID: "user-1"})
	f.holdingRepo.seed(models.Holding{ID: 1, PortfolioID: 7, Symbol: "AAPL", Shares: 5})
	f.polygonClient.dividends["AAPL"] = []polygon.DividendResult{
		{ExDividendDate: "2024-01-15", CashAmount: 0.5},
	}

	result, err := f.service.SyncPortfolio(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, result.PortfolioID)
	assert.Equal(t, 7, *result.PortfolioID)
	assert.Equal(t, 1, result.Inserted)

	logEntry, err := f.syncLogRepo.LastForPortfolio(context.Background(), 7)
	require.NoError(t, err)
	assert.NotEmpty(t, logEntry.RunID)
	assert.Equal(t, 1, logEntry.SymbolsProcessed)
	assert.Equal(t, 1, logEntry.EventsInserted)
}

func TestSyncPortfolioNotFound(t *testing.T) {
	f := newDividendFixture(nil)
	_, err := f.service.SyncPortfolio(context.Background(), 42)
	requireHTTPStatus(t, err, 404)
}

func TestCalendarStatusesAndFiltering(t *testing.T) {
	f := newDividendFixture(nil)
	purchase := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	past := time.Now().UTC().AddDate(0, -1, 0)
	future := time.Now().UTC().AddDate(0, 1, 0)
	beforePurchase := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	f.eventRepo.calendarRows = []repositories.CalendarRow{
		{PortfolioID: 1, Symbol: "AAPL", Shares: 10, PurchaseDate: purchase, ExDate: &past, PayDate: &past, Amount: 0.5},
		{PortfolioID: 1, Symbol: "AAPL", Shares: 10, PurchaseDate: purchase, ExDate: &future, Amount: 0.5},
		{PortfolioID: 1, Symbol: "AAPL", Shares: 10, PurchaseDate: purchase, ExDate: &beforePurchase, Amount: 0.5},
	}

	events, err := f.service.Calendar(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, events, 2, "events before the purchase month are dropped")

	assert.Equal(t, schemas.DividendStatusPaid, events[0].Status)
	assert.Equal(t, schemas.DividendStatusUpcoming, events[1].Status)
	assert.Equal(t, 5.0, events[0].Cash)
}

func TestProcessPaymentsCashAndReinvest(t *testing.T) {
	f := newDividendFixture(map[string]float64{"AAPL": 200})
	f.portfolioRepo.seed(models.Portfolio{ID: 1, UserID: "user-1", CashBalance: 100})
	f.holdingRepo.owners[1] = "user-1"
	cashHolding := f.holdingRepo.seed(models.Holding{
		ID: 1, PortfolioID: 1, Symbol: "KO", Shares: 10,
		PurchaseDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	dripHolding := f.holdingRepo.seed(models.Holding{
		ID: 2, PortfolioID: 1, Symbol: "AAPL", Shares: 10, ReinvestDividends: true,
		PurchaseDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	f.userRepo.profiles["user-1"] = &models.UserProfile{ID: 1, UserID: "user-1"}

	exDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	f.eventRepo.seed(models.DividendEvent{Symbol: "KO", ExDate: &exDate, Amount: 0.5})
	f.eventRepo.seed(models.DividendEvent{Symbol: "AAPL", ExDate: &exDate, Amount: 1})

	resp, err := f.service.ProcessPayments(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 15.0, resp.TotalAdded) // 10*0.5 cash + 10*1 reinvested

	// Cash dividend credited to the portfolio.
	portfolio, err := f.portfolioRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 105.0, portfolio.CashBalance)
	assert.Equal(t, 105.0, resp.NewCashBalance)

	// Reinvested dividend bought fractional shares at the quote.
	updated, err := f.holdingRepo.GetByID(context.Background(), dripHolding.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.05, updated.Shares, 0.0001)

	unchanged, err := f.holdingRepo.GetByID(context.Background(), cashHolding.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, unchanged.Shares)

	profile, err := f.userRepo.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, profile.TotalDividendsReceived)

	// Re-running is a no-op thanks to the payment ledger.
	resp, err = f.service.ProcessPayments(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Processed)
	assert.Zero(t, resp.TotalAdded)
}

func TestHistoryReturnsUserPayments(t *testing.T) {
	f := newDividendFixture(nil)
	exDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.paymentRepo.Create(context.Background(), &models.DividendPayment{
		UserID: "user-1", PortfolioID: 1, Symbol: "AAPL", ExDate: exDate,
		AmountPerShare: 0.5, SharesOwned: 10, TotalAmount: 5,
	}))
	require.NoError(t, f.paymentRepo.Create(context.Background(), &models.DividendPayment{
		UserID: "someone-else", PortfolioID: 2, Symbol: "KO", ExDate: exDate,
		AmountPerShare: 0.4, SharesOwned: 1, TotalAmount: 0.4,
	}))

	rows, err := f.service.History(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AAPL", rows[0].Symbol)
	assert.Equal(t, 5.0, rows[0].TotalAmount)
}
