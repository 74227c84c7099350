package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"cashflow/src/models"
	"cashflow/src/repositories"
	"cashflow/src/schemas"
	"cashflow/src/utils"
)

const (
	tradingDays        = 252
	dailyReturnSigma   = 0.02
	recentDividendSpan = 12
)

const (
	portfolioRiskLow      = "Low"
	portfolioRiskModerate = "Moderate"
	portfolioRiskHigh     = "High"
	portfolioRiskVeryHigh = "Very High"
)

type RiskServiceI interface {
	Report(ctx context.Context, portfolioID int, includeEarnings bool) (*schemas.RiskReport, error)
}

// RiskService scores a portfolio 0-100 (higher = safer) from simulated return
// statistics, concentration, dividend sustainability and, in comprehensive
// mode, per-symbol earnings quality.
type RiskService struct {
	holdingRepo     repositories.HoldingRepository
	eventRepo       repositories.DividendEventRepository
	priceService    PriceServiceI
	earningsService EarningsRiskServiceI
}

func NewRiskService(
	holdingRepo repositories.HoldingRepository,
	eventRepo repositories.DividendEventRepository,
	priceService PriceServiceI,
	earningsService EarningsRiskServiceI,
) *RiskService {
	return &RiskService{
		holdingRepo:     holdingRepo,
		eventRepo:       eventRepo,
		priceService:    priceService,
		earningsService: earningsService,
	}
}

// Report builds the risk analysis for a portfolio. A nil report with a nil
// error means the portfolio has no holdings; callers turn that into the
// graceful empty payload. includeEarnings=false skips the per-symbol
// fundamentals fetch for the quick metrics view.
func (s *RiskService) Report(ctx context.Context, portfolioID int, includeEarnings bool) (*schemas.RiskReport, error) {
	holdings, err := s.holdingRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, nil
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	prices := s.priceService.BatchFetchLatestPrices(ctx, symbols)

	details, portfolioValue := holdingValuations(holdings, prices)

	returns := simulateDailyReturns(portfolioID, details)
	volatility := stat.StdDev(returns, nil)
	beta := calcBeta(returns, returns)
	sharpe := calcSharpe(returns)

	values := make([]float64, 0, tradingDays+1)
	values = append(values, 1000)
	for _, r := range returns {
		values = append(values, values[len(values)-1]*(1+r))
	}
	maxDD, maxDDPeriod := calcMaxDrawdown(values)

	concentration := calcConcentration(details)

	dividendRisks, err := s.calcDividendRisks(ctx, holdings)
	if err != nil {
		return nil, err
	}

	earningsRisks := map[string]schemas.EarningsRisk{}
	avgEarningsRisk := 50.0
	if includeEarnings {
		totalShares := 0.0
		weighted := 0.0
		for _, h := range holdings {
			report := s.earningsService.Report(ctx, h.Symbol)
			earningsRisks[NormalizeSymbol(h.Symbol)] = report
			weighted += report.EarningsRiskScore * h.Shares
			totalShares += h.Shares
		}
		if totalShares > 0 {
			avgEarningsRisk = weighted / totalShares
		}
	}

	score := composeRiskScore(volatility, concentration.MaxWeight, dividendRisks, avgEarningsRisk)

	report := &schemas.RiskReport{
		PortfolioID:       portfolioID,
		HasHoldings:       true,
		PortfolioValue:    portfolioValue,
		NumHoldings:       len(holdings),
		RiskScore:         score,
		OverallRiskLevel:  riskLevelForScore(score),
		Volatility:        volatility,
		Beta:              beta,
		SharpeRatio:       sharpe,
		MaxDrawdown:       maxDD,
		MaxDrawdownPeriod: maxDDPeriod,
		VaR95:             calcVaR(returns, 0.05),
		VaR99:             calcVaR(returns, 0.01),
		Concentration:     concentration,
		DividendRisks:     dividendRisks,
		EarningsRisks:     earningsRisks,
		AvgEarningsRisk:   avgEarningsRisk,
		Holdings:          details,
	}
	report.Recommendations = recommendations(report)
	return report, nil
}

func holdingValuations(holdings []models.Holding, prices map[string]*float64) ([]schemas.HoldingDetail, float64) {
	details := make([]schemas.HoldingDetail, 0, len(holdings))
	total := 0.0
	for _, h := range holdings {
		sym := NormalizeSymbol(h.Symbol)
		price := utils.DefaultFallbackPrice
		if p := prices[sym]; p != nil && *p > 0 {
			price = *p
		} else if h.AvgPrice > 0 {
			price = h.AvgPrice
		}
		value := h.Shares * price
		total += value
		details = append(details, schemas.HoldingDetail{
			Symbol: sym,
			Shares: h.Shares,
			Price:  price,
			Value:  value,
		})
	}
	for i := range details {
		if total > 0 {
			details[i].Weight = details[i].Value / total
		}
	}
	return details, total
}

// simulateDailyReturns draws one year of composition-weighted daily returns.
// The source is seeded from the portfolio id so repeated calls for the same
// portfolio produce identical statistics.
func simulateDailyReturns(portfolioID int, details []schemas.HoldingDetail) []float64 {
	normal := distuv.Normal{
		Mu:    0,
		Sigma: dailyReturnSigma,
		Src:   rand.NewSource(uint64(portfolioID) + 1),
	}
	returns := make([]float64, tradingDays)
	for i := range returns {
		daily := 0.0
		for _, d := range details {
			daily += normal.Rand() * d.Weight
		}
		returns[i] = daily
	}
	return returns
}

func calcBeta(portfolioReturns, marketReturns []float64) float64 {
	if len(portfolioReturns) != len(marketReturns) || len(portfolioReturns) < 2 {
		return 1.0
	}
	marketVariance := stat.Variance(marketReturns, nil)
	if marketVariance == 0 {
		return 1.0
	}
	return stat.Covariance(portfolioReturns, marketReturns, nil) / marketVariance
}

func calcSharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	volatility := stat.StdDev(returns, nil)
	if volatility == 0 {
		return 0
	}
	return (stat.Mean(returns, nil) - utils.RiskFreeRate) / volatility
}

func calcMaxDrawdown(values []float64) (float64, int) {
	if len(values) == 0 {
		return 0, 0
	}
	peak := values[0]
	maxDD := 0.0
	maxPeriod, current := 0, 0
	for _, v := range values {
		if v > peak {
			peak = v
			current = 0
			continue
		}
		current++
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
			maxPeriod = current
		}
	}
	return maxDD, maxPeriod
}

func calcVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	index := int(confidence * float64(len(sorted)))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return math.Abs(sorted[index])
}

func calcConcentration(details []schemas.HoldingDetail) *schemas.Concentration {
	weights := make([]schemas.WeightedHolding, 0, len(details))
	hhi, maxWeight := 0.0, 0.0
	for _, d := range details {
		hhi += d.Weight * d.Weight
		if d.Weight > maxWeight {
			maxWeight = d.Weight
		}
		weights = append(weights, schemas.WeightedHolding{Symbol: d.Symbol, Weight: d.Weight})
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].Weight > weights[j].Weight })

	top5 := 0.0
	for i, w := range weights {
		if i >= 5 {
			break
		}
		top5 += w.Weight
	}
	top := weights
	if len(top) > 10 {
		top = top[:10]
	}
	return &schemas.Concentration{
		HerfindahlIndex: hhi,
		MaxWeight:       maxWeight,
		Top5Weight:      top5,
		NumHoldings:     len(details),
		TopHoldings:     top,
	}
}

// calcDividendRisks scores each holding's dividend sustainability 0-100 from
// the volatility and trend of its last twelve payments.
func (s *RiskService) calcDividendRisks(ctx context.Context, holdings []models.Holding) (map[string]schemas.DividendRisk, error) {
	risks := make(map[string]schemas.DividendRisk, len(holdings))

	for _, h := range holdings {
		sym := NormalizeSymbol(h.Symbol)
		if _, seen := risks[sym]; seen {
			continue
		}

		events, err := s.eventRepo.ListRecentBySymbol(ctx, sym, recentDividendSpan)
		if err != nil {
			return nil, err
		}
		if len(events) == 0 {
			risks[sym] = schemas.DividendRisk{RiskLevel: "Unknown"}
			continue
		}

		// Events come newest first; amounts are reversed to chronological
		// order so the trend compares older against newer payments.
		amounts := make([]float64, len(events))
		for i, e := range events {
			amounts[len(events)-1-i] = e.Amount
		}

		volatility := sampleStdDev(amounts)
		trend := 0.0
		if len(amounts) >= 4 {
			half := len(amounts) / 2
			older := mean(amounts[:half])
			if older > 0 {
				trend = (mean(amounts[half:]) - older) / older
			}
		}

		score := 50.0
		if volatility > 0 {
			score -= math.Min(volatility*100, 30)
		}
		if trend > 0 {
			score += math.Min(trend*50, 20)
		} else {
			score += math.Max(trend*50, -20)
		}
		score = clamp(score, 0, 100)

		recent := amounts
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}

		risks[sym] = schemas.DividendRisk{
			SustainabilityScore: score,
			Volatility:          volatility,
			GrowthTrend:         trend,
			RiskLevel:           riskLevelForScore(score),
			RecentAmounts:       recent,
		}
	}
	return risks, nil
}

// composeRiskScore starts from a neutral 50 and applies the documented
// adjustments for volatility, concentration, dividend sustainability and
// earnings risk, clamped to [0, 100].
func composeRiskScore(volatility, maxWeight float64, dividendRisks map[string]schemas.DividendRisk, avgEarningsRisk float64) float64 {
	score := 50.0

	switch {
	case volatility > 0.03:
		score -= 20
	case volatility > 0.02:
		score -= 10
	}

	switch {
	case maxWeight > 0.5:
		score -= 15
	case maxWeight > 0.3:
		score -= 8
	}

	avgDividend := 50.0
	if len(dividendRisks) > 0 {
		sum := 0.0
		for _, r := range dividendRisks {
			sum += r.SustainabilityScore
		}
		avgDividend = sum / float64(len(dividendRisks))
	}
	score += (avgDividend - 50) / 5

	switch {
	case avgEarningsRisk > 60:
		score -= 15
	case avgEarningsRisk > 40:
		score -= 8
	default:
		score -= 3
	}

	return clamp(score, 0, 100)
}

func riskLevelForScore(score float64) string {
	switch {
	case score >= 70:
		return portfolioRiskLow
	case score >= 50:
		return portfolioRiskModerate
	case score >= 30:
		return portfolioRiskHigh
	default:
		return portfolioRiskVeryHigh
	}
}

func recommendations(r *schemas.RiskReport) []string {
	var recs []string

	if r.Volatility > 0.03 {
		recs = append(recs, "Consider reducing portfolio volatility by adding more stable assets")
	} else if r.Volatility < 0.01 {
		recs = append(recs, "Portfolio is very stable - consider adding growth opportunities")
	}

	if r.Concentration.MaxWeight > 0.4 {
		recs = append(recs, "High concentration risk - consider diversifying holdings")
	} else if r.Concentration.NumHoldings < 5 {
		recs = append(recs, "Low diversification - consider adding more holdings")
	}

	var riskyDividends []string
	for sym, risk := range r.DividendRisks {
		if risk.RiskLevel == portfolioRiskHigh || risk.RiskLevel == portfolioRiskVeryHigh {
			riskyDividends = append(riskyDividends, sym)
		}
	}
	sort.Strings(riskyDividends)
	if len(riskyDividends) > 0 {
		recs = append(recs, fmt.Sprintf("Monitor dividend sustainability for: %s", strings.Join(riskyDividends, ", ")))
	}

	var riskyEarnings, surpriseRisks []string
	for sym, risk := range r.EarningsRisks {
		if risk.OverallRiskLevel == riskHigh {
			riskyEarnings = append(riskyEarnings, sym)
		}
		if risk.SurpriseAnalysis.RiskLevel == riskHigh {
			surpriseRisks = append(surpriseRisks, sym)
		}
	}
	sort.Strings(riskyEarnings)
	sort.Strings(surpriseRisks)
	if len(riskyEarnings) > 0 {
		recs = append(recs, fmt.Sprintf("High earnings risk detected for: %s", strings.Join(riskyEarnings, ", ")))
		recs = append(recs, "Consider monitoring upcoming earnings calls and guidance")
	}
	if len(surpriseRisks) > 0 {
		recs = append(recs, fmt.Sprintf("Monitor earnings surprises for: %s", strings.Join(surpriseRisks, ", ")))
	}

	if r.RiskScore < 30 {
		recs = append(recs, "Portfolio has high risk - consider risk management strategies")
	} else if r.RiskScore > 80 {
		recs = append(recs, "Portfolio is very conservative - consider growth opportunities")
	}

	return recs
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
