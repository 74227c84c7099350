package schemas

type WeightedHolding struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
}

type Concentration struct {
	HerfindahlIndex float64           `json:"herfindahl_index"`
	MaxWeight       float64           `json:"max_weight"`
	Top5Weight      float64           `json:"top_5_weight"`
	NumHoldings     int               `json:"num_holdings"`
	TopHoldings     []WeightedHolding `json:"top_holdings"`
}

type HoldingDetail struct {
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// DividendRisk scores the sustainability of one symbol's dividend stream.
type DividendRisk struct {
	SustainabilityScore float64   `json:"sustainability_score"`
	Volatility          float64   `json:"volatility"`
	GrowthTrend         float64   `json:"growth_trend"`
	RiskLevel           string    `json:"risk_level"`
	RecentAmounts       []float64 `json:"recent_amounts,omitempty"`
}

type SurpriseAnalysis struct {
	AvgSurprise        float64 `json:"avg_surprise"`
	SurpriseVolatility float64 `json:"surprise_volatility"`
	BeatRate           float64 `json:"beat_rate"`
	Beats              int     `json:"beats"`
	Misses             int     `json:"misses"`
	RiskLevel          string  `json:"risk_level"`
	QuartersAnalyzed   int     `json:"quarters_analyzed"`
	Error              string  `json:"error,omitempty"`
}

type RevenueAnalysis struct {
	AvgGrowth        float64 `json:"avg_growth"`
	GrowthVolatility float64 `json:"growth_volatility"`
	RiskLevel        string  `json:"risk_level"`
	QuartersAnalyzed int     `json:"quarters_analyzed"`
	RecentGrowth     float64 `json:"recent_growth"`
	Error            string  `json:"error,omitempty"`
}

type ProfitabilityAnalysis struct {
	AvgMargin        float64 `json:"avg_margin"`
	MarginVolatility float64 `json:"margin_volatility"`
	MarginTrend      float64 `json:"margin_trend"`
	RiskLevel        string  `json:"risk_level"`
	QuartersAnalyzed int     `json:"quarters_analyzed"`
	RecentMargin     float64 `json:"recent_margin"`
	Error            string  `json:"error,omitempty"`
}

type GuidanceAnalysis struct {
	GuidanceAccuracy float64 `json:"guidance_accuracy"`
	RiskLevel        string  `json:"risk_level"`
	CompanySize      string  `json:"company_size"`
}

type ValuationAnalysis struct {
	ForwardPE         float64 `json:"forward_pe"`
	GrowthExpectation float64 `json:"growth_expectation"`
	PEGRatio          float64 `json:"peg_ratio"`
	RiskLevel         string  `json:"risk_level"`
}

// EarningsRisk aggregates the per-factor earnings analyses into one score.
type EarningsRisk struct {
	Symbol                string                `json:"symbol"`
	EarningsRiskScore     float64               `json:"earnings_risk_score"`
	OverallRiskLevel      string                `json:"overall_risk_level"`
	SurpriseAnalysis      SurpriseAnalysis      `json:"surprise_analysis"`
	RevenueAnalysis       RevenueAnalysis       `json:"revenue_analysis"`
	ProfitabilityAnalysis ProfitabilityAnalysis `json:"profitability_analysis"`
	GuidanceAnalysis      GuidanceAnalysis      `json:"guidance_analysis"`
	ValuationAnalysis     ValuationAnalysis     `json:"valuation_analysis"`
	EarningsDataAvailable bool                  `json:"earnings_data_available"`
	LastUpdated           string                `json:"last_updated"`
}

// RiskMetrics is the quick overview returned by /risk/metrics.
type RiskMetrics struct {
	PortfolioID       int            `json:"portfolio_id"`
	HasHoldings       bool           `json:"has_holdings"`
	RiskScore         float64        `json:"risk_score"`
	OverallRiskLevel  string         `json:"overall_risk_level"`
	Volatility        float64        `json:"volatility"`
	Beta              float64        `json:"beta"`
	SharpeRatio       float64        `json:"sharpe_ratio"`
	MaxDrawdown       float64        `json:"max_drawdown"`
	VaR95             float64        `json:"var_95"`
	ConcentrationRisk float64        `json:"concentration_risk"`
	Concentration     *Concentration `json:"concentration"`
}

// RiskReport is the comprehensive analysis returned by /risk/analysis.
type RiskReport struct {
	PortfolioID       int                     `json:"portfolio_id"`
	HasHoldings       bool                    `json:"has_holdings"`
	PortfolioValue    float64                 `json:"portfolio_value"`
	NumHoldings       int                     `json:"num_holdings"`
	RiskScore         float64                 `json:"risk_score"`
	OverallRiskLevel  string                  `json:"overall_risk_level"`
	Volatility        float64                 `json:"volatility"`
	Beta              float64                 `json:"beta"`
	SharpeRatio       float64                 `json:"sharpe_ratio"`
	MaxDrawdown       float64                 `json:"max_drawdown"`
	MaxDrawdownPeriod int                     `json:"max_drawdown_period"`
	VaR95             float64                 `json:"var_95"`
	VaR99             float64                 `json:"var_99"`
	Concentration     *Concentration          `json:"concentration"`
	DividendRisks     map[string]DividendRisk `json:"dividend_risks"`
	EarningsRisks     map[string]EarningsRisk `json:"earnings_risks"`
	AvgEarningsRisk   float64                 `json:"avg_earnings_risk"`
	Holdings          []HoldingDetail         `json:"holdings"`
	Recommendations   []string                `json:"recommendations"`
}

// RiskEmpty is the graceful no-holdings (or failure) marker. The client treats
// it as an empty state, never as a hard error.
type RiskEmpty struct {
	Error       string `json:"error"`
	PortfolioID int    `json:"portfolio_id"`
	HasHoldings bool   `json:"has_holdings"`
}
