package utils

// Fallback price used when every quote provider fails for a symbol and the
// holding carries no average price. Mirrors the behavior the mobile client
// expects: valuations degrade, reads never fail.
const DefaultFallbackPrice = 100.0

// RiskFreeRate is the annualized rate used for Sharpe ratio calculations.
const RiskFreeRate = 0.02
