package services

import (
	"context"
	"math"
	"sort"
	"time"

	"cashflow/src/models"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/utils"
)

const maxForecastMonths = 120

type ForecastServiceI interface {
	MonthlyCashflow(ctx context.Context, req *schemas.ForecastRequest) (*schemas.ForecastResponse, error)
}

// ForecastService projects monthly dividend income from each holding's
// observed payment cadence, with optional reinvestment compounding and a
// scenario growth overlay.
type ForecastService struct {
	portfolioRepo repositories.PortfolioRepository
	holdingRepo   repositories.HoldingRepository
	eventRepo     repositories.DividendEventRepository
	priceService  PriceServiceI
}

func NewForecastService(
	portfolioRepo repositories.PortfolioRepository,
	holdingRepo repositories.HoldingRepository,
	eventRepo repositories.DividendEventRepository,
	priceService PriceServiceI,
) *ForecastService {
	return &ForecastService{
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		eventRepo:     eventRepo,
		priceService:  priceService,
	}
}

// dividendPattern is the observed cadence of one symbol: which calendar
// months it pays in, the recent per-payment average, and the historical
// growth of the amount.
type dividendPattern struct {
	paymentMonths map[time.Month]bool
	monthsSorted  []int
	frequency     int
	growthRate    float64
	recentAvg     float64
}

// AnalyzePatterns derives a dividendPattern per symbol from stored events.
// Symbols with no events are absent from the result.
func (s *ForecastService) analyzePatterns(ctx context.Context, symbols []string) (map[string]dividendPattern, error) {
	patterns := make(map[string]dividendPattern, len(symbols))

	for _, symbol := range symbols {
		events, err := s.eventRepo.ListBySymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}

		months := make(map[time.Month]bool)
		var amounts []float64
		for _, e := range events {
			if e.ExDate == nil {
				continue
			}
			months[e.ExDate.Month()] = true
			amounts = append(amounts, e.Amount)
		}
		if len(amounts) == 0 {
			continue
		}

		// Growth from the older half to the newer half of the amount
		// history, clamped to [0, 15%].
		growth := 0.0
		if len(amounts) > 1 {
			half := len(amounts) / 2
			older := mean(amounts[:half])
			newer := mean(amounts[half:])
			if older > 0 {
				growth = math.Max(0, math.Min(newer/older-1, 0.15))
			}
		}

		recent := amounts
		if len(recent) > 12 {
			recent = recent[len(recent)-12:]
		}

		sorted := make([]int, 0, len(months))
		for m := range months {
			sorted = append(sorted, int(m))
		}
		sort.Ints(sorted)

		patterns[NormalizeSymbol(symbol)] = dividendPattern{
			paymentMonths: months,
			monthsSorted:  sorted,
			frequency:     len(months),
			growthRate:    growth,
			recentAvg:     mean(recent),
		}
	}
	return patterns, nil
}

// MonthlyCashflow builds the month-by-month income series for a portfolio.
// Each payer contributes its full per-payment average in every month it
// historically pays; recurring deposits are added once per month.
func (s *ForecastService) MonthlyCashflow(ctx context.Context, req *schemas.ForecastRequest) (*schemas.ForecastResponse, error) {
	months := req.Months
	if months == 0 {
		months = 12
	}
	if months < 1 || months > maxForecastMonths {
		return nil, utils.BadRequest("months must be between 1 and 120")
	}

	scenario := schemas.GrowthScenario(req.GrowthScenario)
	if scenario == "" {
		scenario = schemas.ScenarioModerate
	}
	scenarioRate, ok := schemas.GrowthRates[scenario]
	if !ok {
		return nil, utils.BadRequest("unknown growth scenario: " + req.GrowthScenario)
	}

	portfolio, err := s.portfolioRepo.GetByID(ctx, req.PortfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, utils.NotFound("portfolio not found")
	}

	holdings, err := s.holdingRepo.ListByPortfolio(ctx, req.PortfolioID)
	if err != nil {
		return nil, err
	}

	assumptions := schemas.ForecastAssumptions{
		Reinvest:         req.AssumeReinvest,
		GrowthScenario:   string(scenario),
		RecurringDeposit: req.RecurringDeposit,
	}

	if len(holdings) == 0 {
		return &schemas.ForecastResponse{
			Series:      []schemas.ForecastMonth{},
			Total:       0,
			Scenarios:   map[string]float64{},
			Assumptions: assumptions,
		}, nil
	}

	start := utils.MonthStart(time.Now().UTC())
	if req.StartDate != "" {
		parsed, err := utils.ParseDate(req.StartDate)
		if err != nil {
			return nil, utils.BadRequest("start_date must be YYYY-MM-DD")
		}
		start = utils.MonthStart(*parsed)
	}
	dateRange := utils.MonthRange(start, months)

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	patterns, err := s.analyzePatterns(ctx, symbols)
	if err != nil {
		return nil, err
	}

	var prices map[string]*float64
	if req.AssumeReinvest {
		prices = s.priceService.BatchFetchLatestPrices(ctx, symbols)
	}

	dividendFlow := make([]float64, months)
	for _, holding := range holdings {
		sym := NormalizeSymbol(holding.Symbol)
		pattern, ok := patterns[sym]
		if !ok {
			utils.LoggerFromContext(ctx).Warnf("no dividend history for %s, skipping in forecast", sym)
			continue
		}

		shares := holding.Shares
		totalGrowth := scenarioRate + pattern.growthRate
		price := dripPrice(prices, sym, holding)

		for i, monthDate := range dateRange {
			if !pattern.paymentMonths[monthDate.Month()] {
				continue
			}
			growthFactor := math.Pow(1+totalGrowth, float64(i)/12)
			amount := pattern.recentAvg * shares * growthFactor
			if req.AssumeReinvest && price > 0 {
				shares += amount / price
			}
			dividendFlow[i] += amount
		}
	}

	series := make([]schemas.ForecastMonth, 0, months)
	cumulative := 0.0
	total := 0.0
	for i, monthDate := range dateRange {
		income := dividendFlow[i] + req.RecurringDeposit
		cumulative += income
		total += income
		series = append(series, schemas.ForecastMonth{
			Month:       monthDate.Format(utils.MonthLayout),
			Income:      round2(income),
			Cumulative:  round2(cumulative),
			HasDividend: dividendFlow[i] > 0,
		})
	}

	// Scenario totals scale a growth-neutral baseline so they stay ordered
	// pessimistic < conservative < moderate < optimistic; the selected
	// scenario reports the actual computed total.
	neutral := total / (1 + scenarioRate)
	scenarios := make(map[string]float64, len(schemas.GrowthRates))
	for name, rate := range schemas.GrowthRates {
		if name == scenario {
			scenarios[string(name)] = round2(total)
		} else {
			scenarios[string(name)] = round2(neutral * (1 + rate))
		}
	}

	patternView := make(map[string]schemas.SymbolPattern, len(patterns))
	for sym, p := range patterns {
		patternView[sym] = schemas.SymbolPattern{
			Frequency:     p.frequency,
			PaymentMonths: p.monthsSorted,
			GrowthRate:    math.Round(p.growthRate*1000) / 10,
		}
	}

	return &schemas.ForecastResponse{
		Series:      series,
		Total:       round2(total),
		Scenarios:   scenarios,
		Patterns:    patternView,
		Assumptions: assumptions,
	}, nil
}

// dripPrice picks the reinvestment price for a holding: live quote, then the
// holding's average cost, then a fixed fallback.
func dripPrice(prices map[string]*float64, sym string, holding models.Holding) float64 {
	if prices != nil {
		if p := prices[sym]; p != nil && *p > 0 {
			return *p
		}
	}
	if holding.AvgPrice > 0 {
		return holding.AvgPrice
	}
	return utils.DefaultFallbackPrice
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
