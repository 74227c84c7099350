package schemas

type QuoteResponse struct {
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
	Source string   `json:"source"`
	OK     bool     `json:"ok"`
}
