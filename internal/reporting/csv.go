package reporting

import (
	"fmt"
	"strings"

	"solana-token-analyst/internal/domain"
)

// BatchRow is one line of a batch analysis report. Err is set when the
// address failed instead of producing a result.
type BatchRow struct {
	Address string
	Result  *domain.AnalysisResult
	Err     error
}

// RenderCSV renders batch analysis outcomes as CSV string. Failed
// addresses keep their row with an error column so batch output stays
// positionally aligned with the input.
func RenderCSV(rows []BatchRow) string {
	var sb strings.Builder

	sb.WriteString("address,symbol,verdict,strength,combined_score,")
	sb.WriteString("technical_score,fundamental_score,sentiment_score,")
	sb.WriteString("price_usd,liquidity_usd,volume_24h_usd,error\n")

	for _, row := range rows {
		if row.Err != nil {
			sb.WriteString(fmt.Sprintf("%s,,,,,,,,,,,%s\n",
				row.Address, csvEscape(row.Err.Error())))
			continue
		}
		r := row.Result
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%.1f,%.1f,%.1f,%.1f,%.8f,%.2f,%.2f,\n",
			row.Address,
			csvEscape(r.Token.Symbol),
			r.Verdict,
			r.Strength,
			r.CombinedScore,
			r.Technical.Score,
			r.Fundamental.Score,
			r.Sentiment.Score,
			r.Token.PriceUSD,
			r.Token.LiquidityUSD,
			r.Token.Volume24hUSD,
		))
	}

	return sb.String()
}

// csvEscape quotes a field when it contains a delimiter, quote or
// newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
