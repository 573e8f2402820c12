// Package main provides the analyze CLI: fetch market data for one or
// more Solana tokens, score them, and print the results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"solana-token-analyst/internal/analyst"
	"solana-token-analyst/internal/cache"
	"solana-token-analyst/internal/config"
	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/datasource/coingecko"
	"solana-token-analyst/internal/datasource/dexscreener"
	"solana-token-analyst/internal/narrative"
	"solana-token-analyst/internal/reporting"
	"solana-token-analyst/internal/verdict"
)

func main() {
	addresses := flag.String("addresses", "", "Comma-separated Solana token addresses to analyze")
	format := flag.String("format", "markdown", "Output format: markdown, json, csv")
	weightsPath := flag.String("weights", "", "Path to YAML weight profile (default built-in)")
	withNarrative := flag.Bool("narrative", false, "Generate AI commentary (requires OPENAI_API_KEY)")
	withCommunity := flag.Bool("community", true, "Enrich with CoinGecko community data")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	concurrency := flag.Int("concurrency", analyst.DefaultBatchConcurrency, "Parallel fetches for batch analysis")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	logger := log.New(os.Stderr, "[analyze] ", log.LstdFlags)

	list := splitAddresses(*addresses)
	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --addresses is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	weights := cfg.Weights
	if *weightsPath != "" {
		weights, err = config.LoadWeightProfile(*weightsPath)
		if err != nil {
			logger.Fatalf("Load weight profile: %v", err)
		}
	}

	a, err := buildAnalyst(cfg, weights, *withNarrative, *withCommunity, *concurrency, *verbose, logger)
	if err != nil {
		logger.Fatalf("Create analyst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	items := a.AnalyzeMultiple(ctx, list)

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}

	if err := render(*format, items); err != nil {
		logger.Fatalf("Render output: %v", err)
	}

	if failed == len(items) {
		os.Exit(1)
	}
}

func splitAddresses(raw string) []string {
	var list []string
	for _, a := range strings.Split(raw, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			list = append(list, a)
		}
	}
	return list
}

func buildAnalyst(
	cfg *config.Config,
	weights verdict.Config,
	withNarrative, withCommunity bool,
	concurrency int,
	verbose bool,
	logger *log.Logger,
) (*analyst.Analyst, error) {
	var dexOpts []dexscreener.ClientOption
	if cfg.DexBaseURL != "" {
		dexOpts = append(dexOpts, dexscreener.WithBaseURL(cfg.DexBaseURL))
	}
	source := cache.NewSnapshotCache(dexscreener.NewClient(dexOpts...), cfg.CacheTTL)

	var community datasource.CommunitySource
	if withCommunity {
		var cgOpts []coingecko.ClientOption
		if cfg.CoinGeckoKey != "" {
			cgOpts = append(cgOpts, coingecko.WithAPIKey(cfg.CoinGeckoKey))
		}
		community = coingecko.NewClient(cgOpts...)
	}

	var provider narrative.Provider
	if withNarrative {
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("--narrative requires %s", config.EnvOpenAIKey)
		}
		var nOpts []narrative.Option
		if cfg.OpenAIBaseURL != "" {
			nOpts = append(nOpts, narrative.WithBaseURL(cfg.OpenAIBaseURL))
		}
		if cfg.OpenAIModel != "" {
			nOpts = append(nOpts, narrative.WithModel(cfg.OpenAIModel))
		}
		provider = narrative.NewOpenAIClient(cfg.OpenAIKey, nOpts...)
	}

	return analyst.New(analyst.Options{
		Source:           source,
		Community:        community,
		Narrative:        provider,
		Weights:          weights,
		BatchConcurrency: concurrency,
		Verbose:          verbose,
		Logger:           logger,
	})
}

func render(format string, items []analyst.BatchItem) error {
	switch format {
	case "markdown":
		for _, item := range items {
			if item.Err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", item.Address, item.Err)
				continue
			}
			fmt.Println(reporting.RenderMarkdown(item.Result))
		}
	case "json":
		for _, item := range items {
			if item.Err != nil {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]string{
					"address": item.Address,
					"error":   item.Err.Error(),
				}); err != nil {
					return err
				}
				continue
			}
			if err := reporting.EncodeJSON(os.Stdout, item.Result); err != nil {
				return err
			}
		}
	case "csv":
		rows := make([]reporting.BatchRow, len(items))
		for i, item := range items {
			rows[i] = reporting.BatchRow{Address: item.Address, Result: item.Result, Err: item.Err}
		}
		fmt.Print(reporting.RenderCSV(rows))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
