package schemas

import (
	"time"

	"cashflow/src/models"
)

type CreatePortfolioRequest struct {
	Name          string `json:"name"`
	PortfolioType string `json:"portfolio_type"`
}

type PortfolioResponse struct {
	ID            int       `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	PortfolioType string    `json:"portfolio_type"`
	CashBalance   float64   `json:"cash_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPortfolioResponse(p *models.Portfolio) *PortfolioResponse {
	return &PortfolioResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Name:          p.Name,
		PortfolioType: string(p.PortfolioType),
		CashBalance:   p.CashBalance,
		CreatedAt:     p.CreatedAt,
	}
}

// HoldingWithQuote is a holding enriched with its latest quote and the derived
// valuation fields, computed at read time.
type HoldingWithQuote struct {
	ID                int     `json:"id"`
	Symbol            string  `json:"symbol"`
	Shares            float64 `json:"shares"`
	AvgPrice          float64 `json:"avg_price"`
	CurrentPrice      float64 `json:"current_price"`
	CurrentValue      float64 `json:"current_value"`
	GainLoss          float64 `json:"gain_loss"`
	GainLossPercent   float64 `json:"gain_loss_percent"`
	ReinvestDividends bool    `json:"reinvest_dividends"`
}

type PortfolioDetailResponse struct {
	Portfolio     *PortfolioResponse `json:"portfolio"`
	Holdings      []HoldingWithQuote `json:"holdings"`
	TotalValue    float64            `json:"total_value"`
	HoldingsCount int                `json:"holdings_count"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}
