package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/payment"
	"franchise-backend/internal/security"
	"franchise-backend/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// Server exposes the payment core over HTTP. Authorization decisions beyond
// token validity belong to the caller side; handlers only extract the actor.
type Server struct {
	router     *mux.Router
	tokens     security.TokenManager
	provider   payment.Provider
	onboarding service.OnboardingService
	payments   service.PaymentService
	schedules  service.ScheduleService
	txs        service.TransactionService
	invoices   service.InvoiceService
	dashboard  service.DashboardService
	ledger     service.LedgerService
}

func NewServer(
	tokens security.TokenManager,
	provider payment.Provider,
	onboarding service.OnboardingService,
	payments service.PaymentService,
	schedules service.ScheduleService,
	txs service.TransactionService,
	invoices service.InvoiceService,
	dashboard service.DashboardService,
	ledger service.LedgerService,
) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		tokens:     tokens,
		provider:   provider,
		onboarding: onboarding,
		payments:   payments,
		schedules:  schedules,
		txs:        txs,
		invoices:   invoices,
		dashboard:  dashboard,
		ledger:     ledger,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// The webhook endpoint authenticates with the provider signature, not a
	// bearer token.
	s.router.HandleFunc("/api/webhooks/payment", s.handleWebhook).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/franchisees/{id:[0-9]+}/validate", s.handleValidateFranchisee).Methods(http.MethodPost)
	api.HandleFunc("/franchisees/{id:[0-9]+}/royalties", s.handleCalculateRoyalty).Methods(http.MethodPost)
	api.HandleFunc("/franchisees/{id:[0-9]+}/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id:[0-9]+}/intent", s.handleCreateIntent).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id:[0-9]+}/cancel", s.handleCancelTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id:[0-9]+}/invoice", s.handleCompileInvoice).Methods(http.MethodPost)
	api.HandleFunc("/franchisees/{id:[0-9]+}/balance", s.handleBalance).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{id:[0-9]+}/movements", s.handleMovements).Methods(http.MethodGet)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := s.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func actorID(r *http.Request) int32 {
	if claims, ok := r.Context().Value(claimsKey).(*security.UserClaims); ok {
		return claims.UserID
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: invalid
// requests are 4xx, retryable conditions are 409/503.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrEmptyReason),
		errors.Is(err, domain.ErrNotAFranchisee):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrContractExists),
		errors.Is(err, domain.ErrScheduleExists),
		errors.Is(err, domain.ErrAlreadyInvoiced):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrNoActiveContract),
		errors.Is(err, domain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConcurrencyConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Unhandled error in HTTP handler", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
