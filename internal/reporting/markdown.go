// Package reporting renders analysis results as Markdown, CSV and JSON.
package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"solana-token-analyst/internal/domain"
)

// RenderMarkdown renders one analysis result as a Markdown document.
func RenderMarkdown(r *domain.AnalysisResult) string {
	var sb strings.Builder

	name := r.Token.Name
	if name == "" {
		name = r.Token.Address
	}
	sb.WriteString(fmt.Sprintf("# Token Analysis: %s", name))
	if r.Token.Symbol != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", r.Token.Symbol))
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n",
		time.UnixMilli(r.AnalyzedAtMs).UTC().Format(time.RFC3339)))

	sb.WriteString(fmt.Sprintf("**Verdict: %s** | Strength: %d/100 | Combined Score: %.1f\n\n",
		r.Verdict, r.Strength, r.CombinedScore))

	// Market overview
	sb.WriteString("## Market Data\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Address | %s |\n", r.Token.Address))
	sb.WriteString(fmt.Sprintf("| Price | $%.8f |\n", r.Token.PriceUSD))
	sb.WriteString(fmt.Sprintf("| Liquidity | $%.0f |\n", r.Token.LiquidityUSD))
	sb.WriteString(fmt.Sprintf("| Volume 24h | $%.0f |\n", r.Token.Volume24hUSD))
	sb.WriteString(fmt.Sprintf("| Market Cap | $%.0f |\n", r.Token.MarketCapUSD))
	sb.WriteString(fmt.Sprintf("| Age | %.1f days |\n", r.Token.AgeInDays))
	sb.WriteString(fmt.Sprintf("| Pools / DEXs | %d / %d |\n", r.Token.PoolCount, r.Token.DEXCount))
	sb.WriteString(fmt.Sprintf("| Buys / Sells 24h | %d / %d |\n", r.Token.BuyCount24h, r.Token.SellCount24h))
	sb.WriteString("\n")

	// Sub-scores with weights
	sb.WriteString("## Scores\n\n")
	sb.WriteString("| Dimension | Score | Weight | Signal |\n")
	sb.WriteString("|-----------|-------|--------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Technical | %.1f | %.2f | %s |\n",
		r.Technical.Score, r.Weights.Technical, r.Technical.Label))
	sb.WriteString(fmt.Sprintf("| Fundamental | %.1f | %.2f | %s |\n",
		r.Fundamental.Score, r.Weights.Fundamental, r.Fundamental.Label))
	sb.WriteString(fmt.Sprintf("| Sentiment | %.1f | %.2f | %s |\n",
		r.Sentiment.Score, r.Weights.Sentiment, r.Sentiment.Label))
	sb.WriteString("\n")

	writeComponents(&sb, "Technical Components", r.Technical)
	writeComponents(&sb, "Fundamental Components", r.Fundamental)
	writeComponents(&sb, "Sentiment Components", r.Sentiment)

	for _, sub := range []struct {
		name string
		s    domain.SubScore
	}{
		{"Technical", r.Technical},
		{"Fundamental", r.Fundamental},
		{"Sentiment", r.Sentiment},
	} {
		if sub.s.Summary != "" {
			sb.WriteString(fmt.Sprintf("**%s:** %s\n\n", sub.name, sub.s.Summary))
		}
	}

	if n := r.Narrative; n != nil {
		sb.WriteString("## Commentary\n\n")
		if n.Summary != "" {
			sb.WriteString(n.Summary + "\n\n")
		}
		if n.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("**Recommendation:** %s\n\n", n.Recommendation))
		}
		if len(n.RiskFactors) > 0 {
			sb.WriteString("### Risk Factors\n\n")
			for _, rf := range n.RiskFactors {
				sb.WriteString(fmt.Sprintf("- %s\n", rf))
			}
			sb.WriteString("\n")
		}
		if len(n.Opportunities) > 0 {
			sb.WriteString("### Opportunities\n\n")
			for _, op := range n.Opportunities {
				sb.WriteString(fmt.Sprintf("- %s\n", op))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func writeComponents(sb *strings.Builder, title string, s domain.SubScore) {
	if len(s.Components) == 0 {
		return
	}

	names := make([]string, 0, len(s.Components))
	for name := range s.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	sb.WriteString("| Component | Raw | Contribution | Weight | Note |\n")
	sb.WriteString("|-----------|-----|--------------|--------|------|\n")
	for _, name := range names {
		c := s.Components[name]
		if c.Omitted {
			sb.WriteString(fmt.Sprintf("| %s | - | - | - | omitted: %s |\n", name, c.Reason))
			continue
		}
		note := c.Reason
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.1f | %.2f | %s |\n",
			name, c.Raw, c.Contribution, c.Weight, note))
	}
	sb.WriteString("\n")
}
