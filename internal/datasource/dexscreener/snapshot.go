package dexscreener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/domain"
)

// Price series synthesis bounds. DexScreener exposes point-in-time
// change percentages rather than candles, so the series is rebuilt
// from the 24h/6h/1h anchors with midpoint interpolation.
const (
	MinSeriesPoints = 20
	MaxSeriesPoints = 50
)

// pair is a single DEX pair as returned by the API.
type pair struct {
	ChainID       string    `json:"chainId"`
	DexID         string    `json:"dexId"`
	PairAddress   string    `json:"pairAddress"`
	BaseToken     pairToken `json:"baseToken"`
	QuoteToken    pairToken `json:"quoteToken"`
	PriceUSD      string    `json:"priceUsd"`
	PriceChange   changes   `json:"priceChange"`
	Volume        volumes   `json:"volume"`
	Liquidity     liquidity `json:"liquidity"`
	Txns          txns      `json:"txns"`
	FDV           float64   `json:"fdv"`
	MarketCap     float64   `json:"marketCap"`
	PairCreatedAt int64     `json:"pairCreatedAt"`
}

type pairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type changes struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type volumes struct {
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type liquidity struct {
	USD float64 `json:"usd"`
}

type txns struct {
	H24 txnCounts `json:"h24"`
}

type txnCounts struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// tokenPairsResponse is the /latest/dex/tokens payload.
type tokenPairsResponse struct {
	Pairs []pair `json:"pairs"`
}

// FetchSnapshot implements datasource.MarketDataSource. It queries the
// token-pairs endpoint, selects the deepest pair by USD liquidity, and
// aggregates pool and DEX counts across all Solana pairs.
func (c *Client) FetchSnapshot(ctx context.Context, address string) (*domain.TokenSnapshot, error) {
	started := c.now()

	pairs, err := c.fetchPairs(ctx, address)
	if err != nil {
		c.observe(started, err, errorKind(err))
		return nil, err
	}
	if len(pairs) == 0 {
		c.observe(started, datasource.ErrDataUnavailable, "no_pairs")
		return nil, fmt.Errorf("no pairs for %s: %w", address, datasource.ErrDataUnavailable)
	}

	snapshot := c.assemble(address, pairs)
	c.observe(started, nil, "")
	return snapshot, nil
}

// fetchPairs tries the token-pairs endpoint first and falls back to the
// legacy tokens endpoint, mirroring how DexScreener progressively moved
// data between the two.
func (c *Client) fetchPairs(ctx context.Context, address string) ([]pair, error) {
	escaped := url.PathEscape(address)

	var direct []pair
	err := c.get(ctx, "/token-pairs/v1/solana/"+escaped, &direct)
	if err == nil && len(direct) > 0 {
		return filterSolana(direct), nil
	}
	if err != nil && !errors.Is(err, datasource.ErrDataUnavailable) {
		return nil, err
	}

	var legacy tokenPairsResponse
	if err := c.get(ctx, "/latest/dex/tokens/"+escaped, &legacy); err != nil {
		return nil, err
	}
	return filterSolana(legacy.Pairs), nil
}

func filterSolana(pairs []pair) []pair {
	out := pairs[:0]
	for _, p := range pairs {
		if p.ChainID == "" || p.ChainID == "solana" {
			out = append(out, p)
		}
	}
	return out
}

// assemble builds a snapshot from the deepest pair plus cross-pair
// aggregates.
func (c *Client) assemble(address string, pairs []pair) *domain.TokenSnapshot {
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}

	dexes := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		dexes[p.DexID] = struct{}{}
	}

	now := c.now()
	price, _ := strconv.ParseFloat(best.PriceUSD, 64)

	ageDays := 0.0
	if best.PairCreatedAt > 0 {
		ageDays = float64(now.UnixMilli()-best.PairCreatedAt) / float64(24*60*60*1000)
		if ageDays < 0 {
			ageDays = 0
		}
	}

	return &domain.TokenSnapshot{
		Address:      address,
		Symbol:       best.BaseToken.Symbol,
		Name:         best.BaseToken.Name,
		PriceUSD:     price,
		AgeInDays:    ageDays,
		LiquidityUSD: best.Liquidity.USD,
		Volume24hUSD: best.Volume.H24,
		MarketCapUSD: best.MarketCap,
		FDVUSD:       best.FDV,
		PoolCount:    len(pairs),
		DEXCount:     len(dexes),
		BuyCount24h:  best.Txns.H24.Buys,
		SellCount24h: best.Txns.H24.Sells,
		PriceSeries:  synthesizeSeries(price, best.Volume, best.PriceChange, now.UnixMilli()),
		FetchedAtMs:  now.UnixMilli(),
	}
}

// synthesizeSeries reconstructs an hourly-ish price series from the
// change-percentage anchors. Anchors are placed at -24h, -6h, -1h and
// now; midpoints are inserted until the series has at least
// MinSeriesPoints entries. Timestamps stay strictly increasing.
func synthesizeSeries(current float64, vol volumes, ch changes, nowMs int64) []domain.PricePoint {
	if current <= 0 {
		return nil
	}

	type anchor struct {
		offsetMs int64
		price    float64
		volume   float64
	}

	hour := int64(60 * 60 * 1000)
	anchors := []anchor{{offsetMs: 0, price: current, volume: vol.H1}}

	if ch.H1 != 0 {
		anchors = append([]anchor{{offsetMs: -hour, price: current / (1 + ch.H1/100), volume: vol.H1}}, anchors...)
	}
	if ch.H6 != 0 {
		anchors = append([]anchor{{offsetMs: -6 * hour, price: current / (1 + ch.H6/100), volume: vol.H6 / 6}}, anchors...)
	}
	if ch.H24 != 0 {
		anchors = append([]anchor{{offsetMs: -24 * hour, price: current / (1 + ch.H24/100), volume: vol.H24 / 24}}, anchors...)
	}
	if len(anchors) == 1 {
		// Flat token with no reported movement: emit a short flat series
		// so downstream indicators resolve to neutral rather than erroring.
		anchors = append([]anchor{{offsetMs: -24 * hour, price: current, volume: vol.H24 / 24}}, anchors...)
	}

	// Midpoint interpolation until the series is dense enough.
	for len(anchors) < MinSeriesPoints {
		dense := make([]anchor, 0, len(anchors)*2-1)
		for i := 0; i < len(anchors)-1; i++ {
			a, b := anchors[i], anchors[i+1]
			dense = append(dense, a, anchor{
				offsetMs: (a.offsetMs + b.offsetMs) / 2,
				price:    (a.price + b.price) / 2,
				volume:   (a.volume + b.volume) / 2,
			})
		}
		dense = append(dense, anchors[len(anchors)-1])
		anchors = dense
		if len(anchors) >= MaxSeriesPoints {
			break
		}
	}
	if len(anchors) > MaxSeriesPoints {
		anchors = anchors[:MaxSeriesPoints]
	}

	series := make([]domain.PricePoint, 0, len(anchors))
	var lastTs int64
	for i, a := range anchors {
		ts := nowMs + a.offsetMs
		if i > 0 && ts <= lastTs {
			ts = lastTs + 1
		}
		lastTs = ts
		v := a.volume
		if v < 0 {
			v = 0
		}
		p := a.price
		if p < 0 {
			p = 0
		}
		series = append(series, domain.PricePoint{TimestampMs: ts, Price: p, Volume: v})
	}
	return series
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, datasource.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, datasource.ErrDataUnavailable):
		return "not_found"
	default:
		return "http"
	}
}
