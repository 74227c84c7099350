package controllers

import (
	"context"

	"cashflow/src/schemas"
	"cashflow/src/utils"
)

// RiskMetrics returns the quick risk overview. Failures and empty portfolios
// both degrade to a RiskEmpty payload so the mobile client never hits a hard
// error on this screen.
func (c *Controller) RiskMetrics(ctx context.Context, portfolioID int) interface{} {
	report, err := c.RiskService.Report(ctx, portfolioID, false)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("risk metrics failed")
		return &schemas.RiskEmpty{
			Error:       "unable to generate risk metrics",
			PortfolioID: portfolioID,
		}
	}
	if report == nil {
		return &schemas.RiskEmpty{
			Error:       "no holdings found for portfolio",
			PortfolioID: portfolioID,
		}
	}
	return &schemas.RiskMetrics{
		PortfolioID:       portfolioID,
		HasHoldings:       true,
		RiskScore:         report.RiskScore,
		OverallRiskLevel:  report.OverallRiskLevel,
		Volatility:        report.Volatility,
		Beta:              report.Beta,
		SharpeRatio:       report.SharpeRatio,
		MaxDrawdown:       report.MaxDrawdown,
		VaR95:             report.VaR95,
		ConcentrationRisk: report.Concentration.MaxWeight,
		Concentration:     report.Concentration,
	}
}

// RiskAnalysis returns the comprehensive report, degrading the same way as
// RiskMetrics.
func (c *Controller) RiskAnalysis(ctx context.Context, portfolioID int) interface{} {
	report, err := c.RiskService.Report(ctx, portfolioID, true)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("risk analysis failed")
		return &schemas.RiskEmpty{
			Error:       "unable to generate risk analysis",
			PortfolioID: portfolioID,
		}
	}
	if report == nil {
		return &schemas.RiskEmpty{
			Error:       "no holdings found for portfolio",
			PortfolioID: portfolioID,
		}
	}
	return report
}
