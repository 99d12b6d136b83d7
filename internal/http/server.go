// Package http serves the JSON API consumed by the app frontend.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"moneytree/internal/cache"
	"moneytree/internal/config"
	"moneytree/internal/ledger"
	"moneytree/internal/log"
	"moneytree/internal/middleware/ratelimit"
	"moneytree/internal/middleware/trace"
	"moneytree/internal/services"
)

type Server struct {
	http.Server

	ledger  *ledger.Ledger
	txs     *services.TransactionService
	scanner *services.ScanService
	logger  *log.Logger

	scanTimeout time.Duration
	scanLimiter *ratelimit.Limiter

	// Dashboard aggregations are recomputed on miss and dropped wholesale
	// after every mutation.
	summaryCache *cache.LRU[dashboardSummary]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server.
func NewServer(cfg *config.Config, l *ledger.Ledger, txs *services.TransactionService, scanner *services.ScanService, logger *log.Logger) *Server {
	s := &Server{
		ledger:       l,
		txs:          txs,
		scanner:      scanner,
		logger:       logger.WithComponent(log.ComponentHTTP),
		scanTimeout:  cfg.ScanTimeout,
		scanLimiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.ScanRatePerMinute}),
		summaryCache: cache.NewLRU[dashboardSummary](64, 5*time.Minute),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("PATCH /api/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleEditCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets/current", s.handleCurrentBudget)
	mux.HandleFunc("GET /api/budgets/{id}/progress", s.handleBudgetProgress)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/targets", s.handleListTargets)
	mux.HandleFunc("POST /api/targets", s.handleCreateTarget)
	mux.HandleFunc("POST /api/targets/{id}/contributions", s.handleContribute)
	mux.HandleFunc("DELETE /api/targets/{id}", s.handleDeleteTarget)

	mux.HandleFunc("GET /api/dashboard/summary", s.handleDashboardSummary)
	mux.HandleFunc("GET /api/dashboard/categories", s.handleDashboardCategories)
	mux.HandleFunc("GET /api/dashboard/calendar", s.handleDashboardCalendar)

	mux.HandleFunc("GET /api/currencies", s.handleListCurrencies)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings/currency", s.handleSetCurrency)
	mux.HandleFunc("POST /api/settings/theme/toggle", s.handleToggleTheme)
	mux.HandleFunc("POST /api/settings/reset", s.handleReset)

	// Scanning pays a model call per request, so it gets its own limiter.
	scanHandler := s.scanLimiter.Middleware(clientIP)(http.HandlerFunc(s.handleScan))
	mux.Handle("POST /api/scan", scanHandler)

	tracer := trace.NewMiddleware(clientIP)

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           tracer.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
		// Scan requests hold the connection for the whole recognition
		// call, so the write timeout must exceed the scan timeout.
		WriteTimeout: cfg.ScanTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Shutdown stops the server and its background goroutines. Safe to call
// more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.scanLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i > 0 {
			return strings.TrimSpace(ip[:i])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateDashboards drops cached aggregates after a ledger mutation.
func (s *Server) invalidateDashboards() {
	s.summaryCache.Clear()
}
