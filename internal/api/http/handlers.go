package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"franchise-backend/internal/logger"
)

func pathID(r *http.Request, name string) int32 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	return int32(id)
}

func (s *Server) handleValidateFranchisee(w http.ResponseWriter, r *http.Request) {
	result, err := s.onboarding.ValidateFranchisee(r.Context(), pathID(r, "id"), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	clientSecret, err := s.payments.CreateIntent(r.Context(), pathID(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"client_secret": clientSecret})
}

// handleWebhook verifies the provider signature, then hands the parsed event
// to the reconciliation core. Unknown intents return 200 so the provider
// stops redelivering them.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	event, err := s.provider.VerifyAndParseWebhook(body, r.Header.Get("X-Provider-Signature"))
	if err != nil {
		logger.Warn("Rejected webhook", "error", err)
		writeError(w, http.StatusBadRequest, "invalid webhook")
		return
	}

	tx, err := s.payments.HandleWebhook(r.Context(), event.IntentID, string(event.Outcome), event.RawPayload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if tx == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

type royaltyRequest struct {
	DeclaredRevenueCents int64  `json:"declared_revenue_cents"`
	Period               string `json:"period"` // 'YYYY-MM'
}

func (s *Server) handleCalculateRoyalty(w http.ResponseWriter, r *http.Request) {
	var req royaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := s.schedules.CalculateRoyalty(r.Context(), pathID(r, "id"), req.DeclaredRevenueCents, req.Period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.dashboard.GetDashboard(r.Context(), pathID(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleCancelTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.txs.Cancel(r.Context(), pathID(r, "id"), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.GetBalance(r.Context(), pathID(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance_cents": balance})
}

func (s *Server) handleMovements(w http.ResponseWriter, r *http.Request) {
	page, pageSize := int32(1), int32(20)
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 {
		pageSize = int32(v)
	}
	movements, total, err := s.ledger.GetMovements(r.Context(), pathID(r, "id"), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movements": movements, "total": total})
}

func (s *Server) handleCompileInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.invoices.Compile(r.Context(), pathID(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}
