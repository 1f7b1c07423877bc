package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"smartspend/internal/core"
	"smartspend/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transactions")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// addTransactionRequest carries the manual-entry form. Amount arrives as a
// string so "45.50" and "45,50" both parse exactly.
type addTransactionRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Presence checks block the store call outright; a missing amount or
	// description never reaches the collection.
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusUnprocessableEntity, "description is required")
		return
	}
	category, ok := core.ParseCategory(req.Category)
	if !ok && strings.TrimSpace(req.Category) != "" {
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}

	tx, err := s.svc.AddTransaction(r.Context(), core.Draft{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Date:        strings.TrimSpace(req.Date),
	})
	if err != nil {
		if errors.Is(err, core.ErrInvalidDate) {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, use YYYY-MM-DD")
			return
		}
		slog.ErrorContext(r.Context(), "Add transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}
	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.GetSummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	totals, err := s.svc.GetCategoryBreakdown(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category breakdown error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not compute breakdown")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleRecentTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := s.svc.GetRecentTrend(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Recent trend error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not compute trend")
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

type aiParseRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAIParse(w http.ResponseWriter, r *http.Request) {
	var req aiParseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}

	draft, err := s.svc.ParseExpenseText(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrCannotParse) {
			// Soft failure: the user rephrases, nothing crashed.
			writeError(w, http.StatusUnprocessableEntity, "could not interpret input, try rephrasing")
			return
		}
		slog.ErrorContext(r.Context(), "AI parse error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not parse expense")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// handleAIInsights never reports AI degradation as an error: a failed or
// empty generation is an empty list and a 200.
func (s *Server) handleAIInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.svc.RequestInsights(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Insights error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load transactions")
		return
	}
	if insights == nil {
		insights = []core.AIInsight{}
	}
	writeJSON(w, http.StatusOK, insights)
}
