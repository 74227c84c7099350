package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"cashflow/src/clients/alphavantage"
	"cashflow/src/clients/polygon"
	"cashflow/src/models"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/services"
)

// In-memory repository and client fakes shared by the service tests. They
// keep the same semantics the SQL repositories rely on (case-insensitive
// symbols, upsert keyed on symbol/ex-date/amount) without a database.

// fakeTx restores the repos' pre-transaction state when rolled back without a
// commit, mirroring what the real transaction does for the SQL repositories.
type fakeTx struct {
	restore []func()
	done    bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.done {
		for _, undo := range t.restore {
			undo()
		}
		t.done = true
	}
	return nil
}

type fakePortfolioRepo struct {
	mu         sync.Mutex
	nextID     int
	portfolios map[int]*models.Portfolio
	// when set, transactions from Begin also cover holdings, the way the SQL
	// repositories share one database
	holdings *fakeHoldingRepo
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{nextID: 1, portfolios: map[int]*models.Portfolio{}}
}

func (r *fakePortfolioRepo) ListByUser(_ context.Context, userID string) ([]models.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Portfolio
	for _, p := range r.portfolios {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePortfolioRepo) GetByID(_ context.Context, id int) (*models.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.portfolios[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePortfolioRepo) Create(_ context.Context, p *models.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	copied := *p
	r.portfolios[p.ID] = &copied
	return nil
}

func (r *fakePortfolioRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.portfolios, id)
	return nil
}

func (r *fakePortfolioRepo) CountByUserAndType(_ context.Context, userID string, portfolioType models.PortfolioType) (int, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, p := range r.portfolios {
		if p.UserID == userID && p.PortfolioType == portfolioType {
			names = append(names, p.Name)
		}
	}
	return len(names), names, nil
}

func (r *fakePortfolioRepo) Begin(context.Context) (repositories.Tx, error) {
	restore := []func(){r.snapshot()}
	if r.holdings != nil {
		restore = append(restore, r.holdings.snapshot())
	}
	return &fakeTx{restore: restore}, nil
}

func (r *fakePortfolioRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[int]*models.Portfolio, len(r.portfolios))
	for id, p := range r.portfolios {
		copied := *p
		saved[id] = &copied
	}
	savedNext := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.portfolios = saved
		r.nextID = savedNext
	}
}

func (r *fakePortfolioRepo) SetCashBalance(_ context.Context, _ repositories.Tx, id int, balance float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.portfolios[id]; ok {
		p.CashBalance = balance
	}
	return nil
}

func (r *fakePortfolioRepo) AddCash(_ context.Context, _ repositories.Tx, id int, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.portfolios[id]; ok {
		p.CashBalance += amount
	}
	return nil
}

func (r *fakePortfolioRepo) seed(p models.Portfolio) *models.Portfolio {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.portfolios[p.ID] = &p
	return &p
}

type fakeHoldingRepo struct {
	mu       sync.Mutex
	nextID   int
	holdings map[int]*models.Holding
	// portfolio id -> owning user, for ListByUser
	owners map[int]string

	createErr error
	updateErr error
	deleteErr error
}

func newFakeHoldingRepo() *fakeHoldingRepo {
	return &fakeHoldingRepo{nextID: 1, holdings: map[int]*models.Holding{}, owners: map[int]string{}}
}

func (r *fakeHoldingRepo) sorted(filter func(*models.Holding) bool) []models.Holding {
	var out []models.Holding
	for _, h := range r.holdings {
		if filter(h) {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeHoldingRepo) ListByPortfolio(_ context.Context, portfolioID int) ([]models.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(h *models.Holding) bool { return h.PortfolioID == portfolioID }), nil
}

func (r *fakeHoldingRepo) ListBySymbolInPortfolio(_ context.Context, portfolioID int, symbol string) ([]models.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(h *models.Holding) bool {
		return h.PortfolioID == portfolioID && strings.EqualFold(h.Symbol, symbol)
	}), nil
}

func (r *fakeHoldingRepo) ListByUser(_ context.Context, userID string) ([]models.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(h *models.Holding) bool { return r.owners[h.PortfolioID] == userID }), nil
}

func (r *fakeHoldingRepo) GetByID(_ context.Context, id int) (*models.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holdings[id]
	if !ok {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

func (r *fakeHoldingRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[int]*models.Holding, len(r.holdings))
	for id, h := range r.holdings {
		copied := *h
		saved[id] = &copied
	}
	savedNext := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.holdings = saved
		r.nextID = savedNext
	}
}

func (r *fakeHoldingRepo) Create(_ context.Context, _ repositories.Tx, h *models.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	h.ID = r.nextID
	r.nextID++
	if h.PurchaseDate.IsZero() {
		h.PurchaseDate = time.Now().UTC()
	}
	copied := *h
	r.holdings[h.ID] = &copied
	return nil
}

func (r *fakeHoldingRepo) Update(_ context.Context, _ repositories.Tx, h *models.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *h
	r.holdings[h.ID] = &copied
	return nil
}

func (r *fakeHoldingRepo) Delete(_ context.Context, _ repositories.Tx, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.holdings, id)
	return nil
}

func (r *fakeHoldingRepo) DistinctSymbols(_ context.Context, portfolioID int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distinct(func(h *models.Holding) bool { return h.PortfolioID == portfolioID }), nil
}

func (r *fakeHoldingRepo) DistinctSymbolsAll(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distinct(func(*models.Holding) bool { return true }), nil
}

func (r *fakeHoldingRepo) distinct(filter func(*models.Holding) bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, h := range r.holdings {
		if !filter(h) || h.Shares <= 0 {
			continue
		}
		sym := strings.ToUpper(h.Symbol)
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

func (r *fakeHoldingRepo) seed(h models.Holding) *models.Holding {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == 0 {
		h.ID = r.nextID
	}
	if h.ID >= r.nextID {
		r.nextID = h.ID + 1
	}
	r.holdings[h.ID] = &h
	return &h
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	profiles map[string]*models.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, profiles: map[string]*models.UserProfile{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeUserRepo) EnsureProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	p := &models.UserProfile{ID: len(r.profiles) + 1, UserID: userID, LastUpdated: time.Now().UTC()}
	r.profiles[userID] = p
	copied := *p
	return &copied, nil
}

func (r *fakeUserRepo) AddDividendsReceived(_ context.Context, userID string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[userID]; ok {
		p.TotalDividendsReceived += amount
		p.LastUpdated = time.Now().UTC()
	}
	return nil
}

type fakeDividendEventRepo struct {
	mu           sync.Mutex
	nextID       int
	events       []models.DividendEvent
	calendarRows []repositories.CalendarRow
}

func newFakeDividendEventRepo() *fakeDividendEventRepo {
	return &fakeDividendEventRepo{nextID: 1}
}

func (r *fakeDividendEventRepo) bySymbol(symbol string) []models.DividendEvent {
	var out []models.DividendEvent
	for _, e := range r.events {
		if strings.EqualFold(e.Symbol, symbol) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExDate == nil {
			return false
		}
		if out[j].ExDate == nil {
			return true
		}
		return out[i].ExDate.Before(*out[j].ExDate)
	})
	return out
}

func (r *fakeDividendEventRepo) ListBySymbol(_ context.Context, symbol string) ([]models.DividendEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySymbol(symbol), nil
}

func (r *fakeDividendEventRepo) ListRecentBySymbol(_ context.Context, symbol string, limit int) ([]models.DividendEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.bySymbol(symbol)
	// newest first
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *fakeDividendEventRepo) ListBySymbolSince(_ context.Context, symbol string, since, until time.Time) ([]models.DividendEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DividendEvent
	for _, e := range r.bySymbol(symbol) {
		if e.ExDate == nil || e.ExDate.Before(since) || e.ExDate.After(until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeDividendEventRepo) Upsert(_ context.Context, e *models.DividendEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		existing := &r.events[i]
		if !strings.EqualFold(existing.Symbol, e.Symbol) || existing.Amount != e.Amount {
			continue
		}
		if (existing.ExDate == nil) != (e.ExDate == nil) {
			continue
		}
		if existing.ExDate != nil && !existing.ExDate.Equal(*e.ExDate) {
			continue
		}
		if existing.PayDate == nil {
			existing.PayDate = e.PayDate
		}
		if existing.RecordDate == nil {
			existing.RecordDate = e.RecordDate
		}
		e.ID = existing.ID
		return false, nil
	}
	e.ID = r.nextID
	r.nextID++
	r.events = append(r.events, *e)
	return true, nil
}

func (r *fakeDividendEventRepo) CalendarRows(_ context.Context, _ string) ([]repositories.CalendarRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repositories.CalendarRow(nil), r.calendarRows...), nil
}

func (r *fakeDividendEventRepo) seed(e models.DividendEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID
	r.nextID++
	r.events = append(r.events, e)
}

type fakeDividendPaymentRepo struct {
	mu       sync.Mutex
	nextID   int
	payments []models.DividendPayment
}

func newFakeDividendPaymentRepo() *fakeDividendPaymentRepo {
	return &fakeDividendPaymentRepo{nextID: 1}
}

func (r *fakeDividendPaymentRepo) Exists(_ context.Context, userID, symbol string, exDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.UserID == userID && strings.EqualFold(p.Symbol, symbol) && p.ExDate.Equal(exDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDividendPaymentRepo) Create(_ context.Context, p *models.DividendPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	if p.ProcessedAt.IsZero() {
		p.ProcessedAt = time.Now().UTC()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakeDividendPaymentRepo) ListByUser(_ context.Context, userID string) ([]models.DividendPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DividendPayment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSyncLogRepo struct {
	mu   sync.Mutex
	logs []models.SyncLog
}

func (r *fakeSyncLogRepo) Create(_ context.Context, l *models.SyncLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = len(r.logs) + 1
	l.CreatedAt = time.Now().UTC()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *fakeSyncLogRepo) LastForPortfolio(_ context.Context, portfolioID int) (*models.SyncLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].PortfolioID != nil && *r.logs[i].PortfolioID == portfolioID {
			copied := r.logs[i]
			return &copied, nil
		}
	}
	return nil, errors.New("no sync log")
}

type fakePolygonClient struct {
	mu             sync.Mutex
	enabled        bool
	dividends      map[string][]polygon.DividendResult
	dividendsErr   error
	prevClose      map[string]*float64
	prevCloseErr   error
	prevCloseCalls int
	tickers        []polygon.TickerResult
	tickersErr     error
	financials     map[string][]polygon.FinancialsResult
	financialsErr  error
}

func newFakePolygonClient() *fakePolygonClient {
	return &fakePolygonClient{
		enabled:    true,
		dividends:  map[string][]polygon.DividendResult{},
		prevClose:  map[string]*float64{},
		financials: map[string][]polygon.FinancialsResult{},
	}
}

func (c *fakePolygonClient) Enabled() bool { return c.enabled }

func (c *fakePolygonClient) Dividends(_ context.Context, symbol string) ([]polygon.DividendResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dividendsErr != nil {
		return nil, c.dividendsErr
	}
	return c.dividends[strings.ToUpper(symbol)], nil
}

func (c *fakePolygonClient) PrevClose(_ context.Context, symbol string) (*float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prevCloseCalls++
	if c.prevCloseErr != nil {
		return nil, c.prevCloseErr
	}
	return c.prevClose[strings.ToUpper(symbol)], nil
}

func (c *fakePolygonClient) SearchTickers(_ context.Context, _ string, _ int) ([]polygon.TickerResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tickersErr != nil {
		return nil, c.tickersErr
	}
	return c.tickers, nil
}

func (c *fakePolygonClient) Financials(_ context.Context, symbol string, _ int) ([]polygon.FinancialsResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.financialsErr != nil {
		return nil, c.financialsErr
	}
	return c.financials[strings.ToUpper(symbol)], nil
}

type fakeAlphaClient struct {
	mu         sync.Mutex
	enabled    bool
	quotes     map[string]*float64
	quoteErr   error
	quoteCalls int
	matches    []alphavantage.SearchMatch
	matchesErr error
	monthly    map[string][]alphavantage.MonthlyDividend
	monthlyErr error
}

func newFakeAlphaClient() *fakeAlphaClient {
	return &fakeAlphaClient{
		enabled: true,
		quotes:  map[string]*float64{},
		monthly: map[string][]alphavantage.MonthlyDividend{},
	}
}

func (c *fakeAlphaClient) Enabled() bool { return c.enabled }

func (c *fakeAlphaClient) GlobalQuote(_ context.Context, symbol string) (*float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quoteCalls++
	if c.quoteErr != nil {
		return nil, c.quoteErr
	}
	return c.quotes[strings.ToUpper(symbol)], nil
}

func (c *fakeAlphaClient) SymbolSearch(_ context.Context, _ string, _ int) ([]alphavantage.SearchMatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.matchesErr != nil {
		return nil, c.matchesErr
	}
	return c.matches, nil
}

func (c *fakeAlphaClient) MonthlyDividends(_ context.Context, symbol string) ([]alphavantage.MonthlyDividend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monthlyErr != nil {
		return nil, c.monthlyErr
	}
	return c.monthly[strings.ToUpper(symbol)], nil
}

// fakePriceService returns canned quotes without any provider chain.
type fakePriceService struct {
	mu     sync.Mutex
	prices map[string]*float64
	source string
}

func newFakePriceService(prices map[string]float64) *fakePriceService {
	out := map[string]*float64{}
	for sym, price := range prices {
		p := price
		out[strings.ToUpper(sym)] = &p
	}
	return &fakePriceService{prices: out, source: "test"}
}

func (s *fakePriceService) FetchLatestPrice(_ context.Context, symbol string) (*float64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	price, ok := s.prices[services.NormalizeSymbol(symbol)]
	if !ok {
		return nil, "fallback"
	}
	return price, s.source
}

func (s *fakePriceService) BatchFetchLatestPrices(ctx context.Context, symbols []string) map[string]*float64 {
	out := map[string]*float64{}
	for _, sym := range symbols {
		price, _ := s.FetchLatestPrice(ctx, sym)
		out[services.NormalizeSymbol(sym)] = price
	}
	return out
}

type fakeEarningsService struct {
	reports map[string]schemas.EarningsRisk
}

func (s *fakeEarningsService) Report(_ context.Context, symbol string) schemas.EarningsRisk {
	if report, ok := s.reports[services.NormalizeSymbol(symbol)]; ok {
		return report
	}
	return schemas.EarningsRisk{
		Symbol:            services.NormalizeSymbol(symbol),
		EarningsRiskScore: 50,
		OverallRiskLevel:  "Medium",
	}
}

// fakeDividendSyncer records SyncSymbols calls made by the buy flow.
type fakeDividendSyncer struct {
	mu     sync.Mutex
	synced [][]string
}

func (s *fakeDividendSyncer) FetchDividends(context.Context, string) ([]models.DividendEvent, error) {
	return nil, nil
}

func (s *fakeDividendSyncer) SyncSymbols(_ context.Context, symbols []string) (*schemas.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced = append(s.synced, symbols)
	return &schemas.SyncResult{Symbols: symbols, PerSymbol: map[string]int{}}, nil
}

func (s *fakeDividendSyncer) SyncPortfolio(context.Context, int) (*schemas.SyncResult, error) {
	return &schemas.SyncResult{PerSymbol: map[string]int{}}, nil
}

func (s *fakeDividendSyncer) SyncAll(context.Context) (*schemas.SyncResult, error) {
	return &schemas.SyncResult{PerSymbol: map[string]int{}}, nil
}

func (s *fakeDividendSyncer) Calendar(context.Context, string) ([]schemas.CalendarEvent, error) {
	return nil, nil
}

func (s *fakeDividendSyncer) ProcessPayments(context.Context, string) (*schemas.ProcessDividendsResponse, error) {
	return &schemas.ProcessDividendsResponse{}, nil
}

func (s *fakeDividendSyncer) History(context.Context, string) ([]schemas.DividendPaymentRow, error) {
	return nil, nil
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
