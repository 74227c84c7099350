package services

import (
	"context"
	"math"
	"strings"
	"time"

	"cashflow/src/clients/polygon"
	"cashflow/src/schemas"
	"cashflow/src/utils"
)

const earningsQuarters = 8

const (
	riskLow    = "Low"
	riskMedium = "Medium"
	riskHigh   = "High"
)

// largeCaps get more favorable guidance and valuation assumptions in lieu of
// real analyst-estimate data.
var largeCaps = map[string]bool{
	"AAPL": true, "MSFT": true, "GOOGL": true, "AMZN": true,
	"TSLA": true, "META": true, "NVDA": true,
}

type EarningsRiskServiceI interface {
	Report(ctx context.Context, symbol string) schemas.EarningsRisk
}

// EarningsRiskService scores a symbol's earnings quality from its last eight
// quarters of fundamentals: surprise consistency, revenue growth, margins,
// guidance reliability and valuation.
type EarningsRiskService struct {
	polygonClient polygon.ClientI
	cache         *utils.Cache[schemas.EarningsRisk]
}

func NewEarningsRiskService(polygonClient polygon.ClientI) *EarningsRiskService {
	return &EarningsRiskService{
		polygonClient: polygonClient,
		cache:         utils.NewCache[schemas.EarningsRisk](time.Hour),
	}
}

func (s *EarningsRiskService) Report(ctx context.Context, symbol string) schemas.EarningsRisk {
	sym := NormalizeSymbol(symbol)
	if cached, ok := s.cache.Get(sym); ok {
		return cached
	}

	quarters, err := s.polygonClient.Financials(ctx, sym, earningsQuarters)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warnf("financials fetch failed for %s", sym)
	}
	dataAvailable := err == nil && len(quarters) > 0

	report := schemas.EarningsRisk{
		Symbol:                sym,
		SurpriseAnalysis:      analyzeSurprises(quarters),
		RevenueAnalysis:       analyzeRevenueGrowth(quarters),
		ProfitabilityAnalysis: analyzeProfitability(quarters),
		GuidanceAnalysis:      analyzeGuidance(sym),
		ValuationAnalysis:     analyzeValuation(sym),
		EarningsDataAvailable: dataAvailable,
		LastUpdated:           time.Now().UTC().Format(time.RFC3339),
	}

	report.EarningsRiskScore = scoreEarningsRisk(report)
	switch {
	case report.EarningsRiskScore <= 20:
		report.OverallRiskLevel = riskLow
	case report.EarningsRiskScore <= 40:
		report.OverallRiskLevel = riskMedium
	default:
		report.OverallRiskLevel = riskHigh
	}

	s.cache.Set(sym, report)
	return report
}

func analyzeSurprises(quarters []polygon.FinancialsResult) schemas.SurpriseAnalysis {
	var surprises []float64
	beats, misses := 0, 0

	for _, q := range quarters {
		if q.EarningsPerShareEstimate == 0 {
			continue
		}
		surprise := (q.EarningsPerShare - q.EarningsPerShareEstimate) / math.Abs(q.EarningsPerShareEstimate)
		surprises = append(surprises, surprise)
		if surprise > 0 {
			beats++
		} else {
			misses++
		}
	}
	if len(surprises) == 0 {
		return schemas.SurpriseAnalysis{Error: "no surprise data available", RiskLevel: riskHigh}
	}

	beatRate := float64(beats) / float64(len(surprises))
	volatility := sampleStdDev(surprises)

	level := riskHigh
	switch {
	case beatRate >= 0.7 && volatility < 0.1:
		level = riskLow
	case beatRate >= 0.5 && volatility < 0.2:
		level = riskMedium
	}

	return schemas.SurpriseAnalysis{
		AvgSurprise:        mean(surprises),
		SurpriseVolatility: volatility,
		BeatRate:           beatRate,
		Beats:              beats,
		Misses:             misses,
		RiskLevel:          level,
		QuartersAnalyzed:   len(surprises),
	}
}

func analyzeRevenueGrowth(quarters []polygon.FinancialsResult) schemas.RevenueAnalysis {
	var growth []float64
	for i := 1; i < len(quarters); i++ {
		prev := quarters[i-1].Revenue
		if prev == 0 {
			continue
		}
		growth = append(growth, (quarters[i].Revenue-prev)/prev)
	}
	if len(growth) == 0 {
		return schemas.RevenueAnalysis{Error: "no revenue growth data available", RiskLevel: riskHigh}
	}

	avg := mean(growth)
	volatility := sampleStdDev(growth)

	level := riskHigh
	switch {
	case avg > 0.1 && volatility < 0.2:
		level = riskLow
	case avg > 0.05 && volatility < 0.3:
		level = riskMedium
	}

	return schemas.RevenueAnalysis{
		AvgGrowth:        avg,
		GrowthVolatility: volatility,
		RiskLevel:        level,
		QuartersAnalyzed: len(growth),
		RecentGrowth:     growth[len(growth)-1],
	}
}

func analyzeProfitability(quarters []polygon.FinancialsResult) schemas.ProfitabilityAnalysis {
	var margins []float64
	for _, q := range quarters {
		if q.Revenue == 0 {
			continue
		}
		margins = append(margins, q.NetIncome/q.Revenue)
	}
	if len(margins) == 0 {
		return schemas.ProfitabilityAnalysis{Error: "no margin data available", RiskLevel: riskHigh}
	}

	avg := mean(margins)
	volatility := sampleStdDev(margins)

	trend := 0.0
	if len(margins) >= 4 {
		half := len(margins) / 2
		trend = mean(margins[half:]) - mean(margins[:half])
	}

	level := riskHigh
	switch {
	case avg > 0.15 && volatility < 0.1 && trend >= 0:
		level = riskLow
	case avg > 0.1 && volatility < 0.2:
		level = riskMedium
	}

	return schemas.ProfitabilityAnalysis{
		AvgMargin:        avg,
		MarginVolatility: volatility,
		MarginTrend:      trend,
		RiskLevel:        level,
		QuartersAnalyzed: len(margins),
		RecentMargin:     margins[len(margins)-1],
	}
}

func analyzeGuidance(symbol string) schemas.GuidanceAnalysis {
	if largeCaps[strings.ToUpper(symbol)] {
		return schemas.GuidanceAnalysis{
			GuidanceAccuracy: 0.75,
			RiskLevel:        riskLow,
			CompanySize:      "Large Cap",
		}
	}
	return schemas.GuidanceAnalysis{
		GuidanceAccuracy: 0.60,
		RiskLevel:        riskMedium,
		CompanySize:      "Mid/Small Cap",
	}
}

func analyzeValuation(symbol string) schemas.ValuationAnalysis {
	forwardPE, growthExpectation := 20.0, 0.05
	switch strings.ToUpper(symbol) {
	case "AAPL", "MSFT":
		forwardPE, growthExpectation = 25.0, 0.08
	case "TSLA", "NVDA":
		forwardPE, growthExpectation = 45.0, 0.15
	}

	pegRatio := 999.0
	if growthExpectation > 0 {
		pegRatio = forwardPE / (growthExpectation * 100)
	}

	level := riskHigh
	switch {
	case pegRatio < 1.5:
		level = riskLow
	case pegRatio < 2.5:
		level = riskMedium
	}

	return schemas.ValuationAnalysis{
		ForwardPE:         forwardPE,
		GrowthExpectation: growthExpectation,
		PEGRatio:          pegRatio,
		RiskLevel:         level,
	}
}

// scoreEarningsRisk sums weighted factor penalties: surprises weigh heaviest,
// valuation lightest.
func scoreEarningsRisk(r schemas.EarningsRisk) float64 {
	score := 0.0
	score += factorPenalty(r.SurpriseAnalysis.RiskLevel, 30, 15, 5)
	score += factorPenalty(r.RevenueAnalysis.RiskLevel, 25, 12, 5)
	score += factorPenalty(r.ProfitabilityAnalysis.RiskLevel, 20, 10, 5)
	score += factorPenalty(r.GuidanceAnalysis.RiskLevel, 15, 8, 3)
	score += factorPenalty(r.ValuationAnalysis.RiskLevel, 10, 5, 2)
	return score
}

func factorPenalty(level string, high, medium, low float64) float64 {
	switch level {
	case riskHigh:
		return high
	case riskMedium:
		return medium
	default:
		return low
	}
}

func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	variance := 0.0
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	return math.Sqrt(variance / float64(len(xs)-1))
}
