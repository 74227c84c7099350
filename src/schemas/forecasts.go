package schemas

type GrowthScenario string

const (
	ScenarioConservative GrowthScenario = "conservative"
	ScenarioModerate     GrowthScenario = "moderate"
	ScenarioOptimistic   GrowthScenario = "optimistic"
	ScenarioPessimistic  GrowthScenario = "pessimistic"
)

// GrowthRates maps each scenario to its annualized growth assumption.
var GrowthRates = map[GrowthScenario]float64{
	ScenarioConservative: 0.0,
	ScenarioModerate:     0.02,
	ScenarioOptimistic:   0.05,
	ScenarioPessimistic:  -0.05,
}

type ForecastRequest struct {
	PortfolioID      int     `json:"portfolio_id"`
	Months           int     `json:"months"`
	AssumeReinvest   bool    `json:"assume_reinvest"`
	RecurringDeposit float64 `json:"recurring_deposit"`
	GrowthScenario   string  `json:"growth_scenario"`
	StartDate        string  `json:"start_date,omitempty"`
}

type ForecastMonth struct {
	Month       string  `json:"month"` // YYYY-MM
	Income      float64 `json:"income"`
	Cumulative  float64 `json:"cumulative"`
	HasDividend bool    `json:"has_dividend"`
}

// SymbolPattern describes the observed dividend payment cadence of a symbol.
type SymbolPattern struct {
	Frequency     int     `json:"frequency"`
	PaymentMonths []int   `json:"payment_months"`
	GrowthRate    float64 `json:"growth_rate"` // percent
}

type ForecastAssumptions struct {
	Reinvest         bool    `json:"reinvest"`
	GrowthScenario   string  `json:"growth_scenario"`
	RecurringDeposit float64 `json:"recurring_deposit"`
}

type ForecastResponse struct {
	Series      []ForecastMonth          `json:"series"`
	Total       float64                  `json:"total"`
	Scenarios   map[string]float64       `json:"scenarios"`
	Patterns    map[string]SymbolPattern `json:"patterns,omitempty"`
	Assumptions ForecastAssumptions      `json:"assumptions"`
}
