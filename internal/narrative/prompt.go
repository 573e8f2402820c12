package narrative

import (
	"fmt"
	"strings"

	"solana-token-analyst/internal/domain"
)

// systemPrompt instructs the model to return strict JSON the client can
// decode into a Narrative.
const systemPrompt = `You are a crypto market analyst. You are given the numeric analysis of a Solana token: technical, fundamental and sentiment sub-scores, a combined score and a preliminary verdict.

Synthesize the data into a coherent market view. Identify concrete risk factors and opportunities. Do not invent numbers that are not in the data.

Respond in JSON with exactly this structure:
{
    "summary": "2-3 sentence summary",
    "recommendation": "what a trader should consider",
    "risk_factors": ["risk1", "risk2"],
    "opportunities": ["opportunity1", "opportunity2"]
}`

// buildPrompt renders the numeric result as the user message.
func buildPrompt(r *domain.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TOKEN: %s (%s)\n", r.Token.Symbol, r.Token.Name)
	fmt.Fprintf(&sb, "Mint: %s\n", r.Token.Address)
	fmt.Fprintf(&sb, "Price: $%.8f\n\n", r.Token.PriceUSD)

	fmt.Fprintf(&sb, "TECHNICAL (score %.1f/100, %s): %s\n", r.Technical.Score, r.Technical.Label, r.Technical.Summary)
	fmt.Fprintf(&sb, "FUNDAMENTAL (score %.1f/100, %s): %s\n", r.Fundamental.Score, r.Fundamental.Label, r.Fundamental.Summary)
	fmt.Fprintf(&sb, "SENTIMENT (score %.1f/100, %s): %s\n\n", r.Sentiment.Score, r.Sentiment.Label, r.Sentiment.Summary)

	fmt.Fprintf(&sb, "COMBINED SCORE: %.1f/100\n", r.CombinedScore)
	fmt.Fprintf(&sb, "PRELIMINARY VERDICT: %s (strength %d/100)\n", r.Verdict, r.Strength)

	return sb.String()
}
