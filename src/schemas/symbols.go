package schemas

type SymbolSearchResult struct {
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	PrimaryExchange string `json:"primary_exchange"`
	Locale          string `json:"locale,omitempty"`
	Source          string `json:"source,omitempty"`
}

type SymbolSearchResponse struct {
	Query   string               `json:"query"`
	Results []SymbolSearchResult `json:"results"`
}

type SymbolSuggestion struct {
	Symbol          string   `json:"symbol"`
	Name            string   `json:"name"`
	PrimaryExchange string   `json:"primary_exchange"`
	Price           *float64 `json:"price"`
}

type SymbolSuggestResponse struct {
	Query   string             `json:"query"`
	Results []SymbolSuggestion `json:"results"`
}
