package domain

// PricePoint is one observation in a token's price/volume series.
// Series are chronological with strictly increasing timestamps.
type PricePoint struct {
	TimestampMs int64   `json:"timestamp_ms"` // Unix timestamp in milliseconds
	Price       float64 `json:"price"`        // price in USD
	Volume      float64 `json:"volume"`       // volume attributed to this point
}

// TokenSnapshot is a provider-agnostic snapshot of a token's market state.
// It is owned by exactly one analysis request and never mutated after
// construction.
type TokenSnapshot struct {
	Address      string  `json:"address"` // mint address
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	PriceUSD     float64 `json:"price_usd"`
	AgeInDays    float64 `json:"age_in_days"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
	MarketCapUSD float64 `json:"market_cap_usd"`
	FDVUSD       float64 `json:"fdv_usd"`
	PoolCount    int     `json:"pool_count"` // pools across all DEXes
	DEXCount     int     `json:"dex_count"`  // distinct DEXes with a pool
	BuyCount24h  int     `json:"buy_count_24h"`
	SellCount24h int     `json:"sell_count_24h"`

	// CommunityScore is normalized to 0-100 by the adapter before it
	// enters the core. 50 means "no community signal".
	CommunityScore float64 `json:"community_score"`

	PriceSeries []PricePoint `json:"price_series"`
	FetchedAtMs int64        `json:"fetched_at_ms"`
}
