// Package config loads analyzer configuration from the environment and
// optional YAML weight profiles.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"solana-token-analyst/internal/verdict"
)

// Environment variable names.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAIModel   = "OPENAI_MODEL"
	EnvCoinGeckoKey  = "COINGECKO_API_KEY"
	EnvDexBaseURL    = "DEXSCREENER_BASE_URL"
	EnvCacheTTL      = "SNAPSHOT_CACHE_TTL"
	EnvListenAddr    = "LISTEN_ADDR"
)

// ErrInvalidProfile is returned when a weight profile fails validation.
var ErrInvalidProfile = errors.New("invalid weight profile")

// Config is the resolved runtime configuration.
type Config struct {
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	CoinGeckoKey  string
	DexBaseURL    string
	CacheTTL      time.Duration
	ListenAddr    string
	Weights       verdict.Config
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first without overriding variables
// already set. The weight profile defaults to the built-in one.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIKey:     os.Getenv(EnvOpenAIKey),
		OpenAIBaseURL: os.Getenv(EnvOpenAIBaseURL),
		OpenAIModel:   os.Getenv(EnvOpenAIModel),
		CoinGeckoKey:  os.Getenv(EnvCoinGeckoKey),
		DexBaseURL:    os.Getenv(EnvDexBaseURL),
		ListenAddr:    os.Getenv(EnvListenAddr),
		Weights:       verdict.DefaultConfig(),
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	cfg.CacheTTL = 5 * time.Minute
	if raw := os.Getenv(EnvCacheTTL); raw != "" {
		ttl, err := parseTTL(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvCacheTTL, err)
		}
		cfg.CacheTTL = ttl
	}

	return cfg, nil
}

// parseTTL accepts either a Go duration string or a bare second count.
func parseTTL(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a duration or second count: %q", raw)
	}
	return time.Duration(secs) * time.Second, nil
}

// weightProfile is the YAML shape of a stored weight profile.
type weightProfile struct {
	Name    string `yaml:"name"`
	Weights struct {
		Technical   float64 `yaml:"technical"`
		Fundamental float64 `yaml:"fundamental"`
		Sentiment   float64 `yaml:"sentiment"`
	} `yaml:"weights"`
}

// LoadWeightProfile reads a verdict weight profile from a YAML file and
// validates it.
func LoadWeightProfile(path string) (verdict.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return verdict.Config{}, fmt.Errorf("read weight profile: %w", err)
	}
	return ParseWeightProfile(data)
}

// ParseWeightProfile parses and validates YAML weight profile bytes.
func ParseWeightProfile(data []byte) (verdict.Config, error) {
	var profile weightProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return verdict.Config{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	cfg := verdict.Config{
		Technical:   profile.Weights.Technical,
		Fundamental: profile.Weights.Fundamental,
		Sentiment:   profile.Weights.Sentiment,
	}
	if err := cfg.Validate(); err != nil {
		return verdict.Config{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return cfg, nil
}
