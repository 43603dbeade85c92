package http

import (
	"net/http"
	"sync/atomic"

	"spendboard/internal/core"
	"spendboard/internal/log"
)

type accountsResponse struct {
	Accounts     []core.BankAccount `json:"accounts"`
	TotalBalance core.Money         `json:"totalBalance"`
}

func (s *Server) handleAPIAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, accountsResponse{
		Accounts:     s.service.Accounts(),
		TotalBalance: s.service.Registry().TotalBalance(),
	})
}

func (s *Server) handleAPIListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.FilteredExpenses(r.Context(), criteriaFromValues(r.URL.Query()))
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": items})
}

func (s *Server) handleAPICreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	exp, err := s.service.AddExpense(r.Context(), parser.ExpenseInput(s.now()))
	if err != nil {
		if core.IsValidation(err) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.apiFailure(w, r, err)
		return
	}
	atomic.AddInt64(&s.metrics.expensesAdded, 1)
	w.Header().Set("Location", "/api/expenses/"+exp.ID)
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleAPIDeleteExpense(w http.ResponseWriter, r *http.Request) {
	removed, err := s.service.DeleteExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	if removed {
		atomic.AddInt64(&s.metrics.expensesDeleted, 1)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	c := criteriaFromValues(r.URL.Query())
	sum, err := s.service.Summary(r.Context(), c)
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"criteria": c, "summary": sum})
}

func (s *Server) handleAPISeries(w http.ResponseWriter, r *http.Request) {
	c := criteriaFromValues(r.URL.Query())
	series, err := s.service.Series(r.Context(), c)
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"criteria": c, "series": series})
}

func (s *Server) apiFailure(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "API request failed",
		log.FieldError, err, log.FieldPath, r.URL.Path)
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}
