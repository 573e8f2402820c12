package market

import (
	"errors"
	"strings"
	"testing"

	"solana-token-analyst/internal/domain"
)

func validSnapshot() *domain.TokenSnapshot {
	return &domain.TokenSnapshot{
		Address:      "So11111111111111111111111111111111111111112",
		LiquidityUSD: 50_000,
		Volume24hUSD: 10_000,
		PriceSeries: []domain.PricePoint{
			{TimestampMs: 1000, Price: 1.0, Volume: 10},
			{TimestampMs: 2000, Price: 1.1, Volume: 12},
			{TimestampMs: 3000, Price: 1.05, Volume: 8},
		},
	}
}

func TestValidateSnapshot_Valid(t *testing.T) {
	if err := ValidateSnapshot(validSnapshot()); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}
}

func TestValidateSnapshot_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TokenSnapshot)
		field  string
	}{
		{
			name:   "empty address",
			mutate: func(s *domain.TokenSnapshot) { s.Address = "" },
			field:  "address",
		},
		{
			name:   "empty series",
			mutate: func(s *domain.TokenSnapshot) { s.PriceSeries = nil },
			field:  "price_series",
		},
		{
			name:   "negative liquidity",
			mutate: func(s *domain.TokenSnapshot) { s.LiquidityUSD = -1 },
			field:  "liquidity_usd",
		},
		{
			name:   "negative volume",
			mutate: func(s *domain.TokenSnapshot) { s.Volume24hUSD = -0.5 },
			field:  "volume_24h_usd",
		},
		{
			name:   "negative buy count",
			mutate: func(s *domain.TokenSnapshot) { s.BuyCount24h = -1 },
			field:  "txns_24h",
		},
		{
			name:   "negative price point",
			mutate: func(s *domain.TokenSnapshot) { s.PriceSeries[1].Price = -0.1 },
			field:  "price_series",
		},
		{
			name:   "negative volume point",
			mutate: func(s *domain.TokenSnapshot) { s.PriceSeries[2].Volume = -5 },
			field:  "price_series",
		},
		{
			name:   "duplicate timestamp",
			mutate: func(s *domain.TokenSnapshot) { s.PriceSeries[1].TimestampMs = 1000 },
			field:  "price_series",
		},
		{
			name:   "backwards timestamp",
			mutate: func(s *domain.TokenSnapshot) { s.PriceSeries[2].TimestampMs = 500 },
			field:  "price_series",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(s)

			err := ValidateSnapshot(s)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("error should wrap ErrInvalidSnapshot, got %v", err)
			}

			var fieldErr *InvalidSnapshotError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("error should be *InvalidSnapshotError, got %T", err)
			}
			if fieldErr.Field != tt.field {
				t.Errorf("field: got %q, want %q", fieldErr.Field, tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("message should name the field, got %q", err.Error())
			}
		})
	}
}

func TestValidateSnapshot_Nil(t *testing.T) {
	err := ValidateSnapshot(nil)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("nil snapshot: got %v", err)
	}
}
