// Package main provides the analysis HTTP server: on-demand token
// scoring over REST plus health, status and Prometheus metrics
// endpoints.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"solana-token-analyst/internal/analyst"
	"solana-token-analyst/internal/cache"
	"solana-token-analyst/internal/config"
	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/datasource/coingecko"
	"solana-token-analyst/internal/datasource/dexscreener"
	"solana-token-analyst/internal/market"
	"solana-token-analyst/internal/narrative"
	"solana-token-analyst/internal/observability"
)

// MaxBatchAddresses bounds a single batch request.
const MaxBatchAddresses = 30

// Server serves analysis requests.
type Server struct {
	analyst *analyst.Analyst
	cache   *cache.SnapshotCache
	logger  *log.Logger
	started time.Time

	mu       sync.Mutex
	analyses int
	failures int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.ListenAddr, "HTTP listen address")
	weightsPath := flag.String("weights", "", "Path to YAML weight profile (default built-in)")
	cacheTTL := flag.Duration("cache-ttl", cfg.CacheTTL, "Snapshot cache TTL")
	withNarrative := flag.Bool("narrative", false, "Generate AI commentary (requires OPENAI_API_KEY)")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	weights := cfg.Weights
	if *weightsPath != "" {
		weights, err = config.LoadWeightProfile(*weightsPath)
		if err != nil {
			logger.Fatalf("Load weight profile: %v", err)
		}
	}

	var dexOpts []dexscreener.ClientOption
	if cfg.DexBaseURL != "" {
		dexOpts = append(dexOpts, dexscreener.WithBaseURL(cfg.DexBaseURL))
	}
	snapshotCache := cache.NewSnapshotCache(dexscreener.NewClient(dexOpts...), *cacheTTL)

	var community datasource.CommunitySource
	var cgOpts []coingecko.ClientOption
	if cfg.CoinGeckoKey != "" {
		cgOpts = append(cgOpts, coingecko.WithAPIKey(cfg.CoinGeckoKey))
	}
	community = coingecko.NewClient(cgOpts...)

	var provider narrative.Provider
	if *withNarrative {
		if cfg.OpenAIKey == "" {
			logger.Fatalf("--narrative requires %s", config.EnvOpenAIKey)
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

	a, err := analyst.New(analyst.Options{
		Source:    snapshotCache,
		Community: community,
		Narrative: provider,
		Weights:   weights,
		Verbose:   *verbose,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("Create analyst: %v", err)
	}

	server := &Server{
		analyst: a,
		cache:   snapshotCache,
		logger:  logger,
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", server.handleAnalyze)
	mux.HandleFunc("/analyze/batch", server.handleBatch)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", server.handleStatus)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// handleAnalyze serves GET /analyze?address=<mint>.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	addr := r.URL.Query().Get("address")
	if addr == "" {
		writeError(w, http.StatusBadRequest, "address query parameter is required")
		return
	}

	result, err := s.analyst.AnalyzeAddress(r.Context(), addr)
	s.record(err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// batchRequest is the JSON body for POST /analyze/batch.
type batchRequest struct {
	Addresses []string `json:"addresses"`
}

// batchItemResponse is one element of the batch response.
type batchItemResponse struct {
	Address string      `json:"address"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// handleBatch serves POST /analyze/batch.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Addresses) == 0 {
		writeError(w, http.StatusBadRequest, "addresses is required")
		return
	}
	if len(req.Addresses) > MaxBatchAddresses {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many addresses (max %d)", MaxBatchAddresses))
		return
	}

	items := s.analyst.AnalyzeMultiple(r.Context(), req.Addresses)

	resp := make([]batchItemResponse, len(items))
	for i, item := range items {
		resp[i].Address = item.Address
		if item.Err != nil {
			resp[i].Error = item.Err.Error()
			s.record(item.Err)
			continue
		}
		resp[i].Result = item.Result
		s.record(nil)
	}

	writeJSON(w, http.StatusOK, resp)
}

// statusResponse is the JSON response for /status.
type statusResponse struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	Analyses        int    `json:"analyses"`
	Failures        int    `json:"failures"`
	CachedSnapshots int    `json:"cached_snapshots"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := statusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		Analyses:        s.analyses,
		Failures:        s.failures,
		CachedSnapshots: s.cache.Len(),
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) record(err error) {
	s.mu.Lock()
	s.analyses++
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()
}

// statusFor maps analysis errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, datasource.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrInvalidSnapshot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, datasource.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, datasource.ErrRateLimited):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
