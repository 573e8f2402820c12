package reporting

import (
	"encoding/json"
	"fmt"
	"io"

	"solana-token-analyst/internal/domain"
)

// EncodeJSON writes an analysis result as indented JSON.
func EncodeJSON(w io.Writer, r *domain.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// DecodeJSON reads an analysis result previously written by EncodeJSON.
func DecodeJSON(r io.Reader) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}
