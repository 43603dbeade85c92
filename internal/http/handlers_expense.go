package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"spendboard/internal/core"
	"spendboard/internal/filter"
	"spendboard/internal/log"
)

// validationMessage turns a validation error into text for the form.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Description is required"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a number of zero or more"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Choose one of the listed categories"
	case errors.Is(err, core.ErrInvalidDate):
		return "Date must be in YYYY-MM-DD format"
	case errors.Is(err, core.ErrCollectionFull):
		return "The expense list is full; delete an expense first"
	default:
		return "Invalid expense"
	}
}

// selection reads the dashboard selection carried by a form's hidden
// fields.
func selection(p *RequestBodyParser) filter.Criteria {
	c, _ := filter.ParseCriteria(p.Get("account"), p.Get("mode"))
	return c
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(r.Context(), "Parse form error", log.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}
	in := parser.ExpenseInput(s.now())
	criteria := selection(parser)

	exp, err := s.service.AddExpense(r.Context(), in)
	if err != nil {
		if !core.IsValidation(err) {
			logger.ErrorContext(r.Context(), "Failed to save expense",
				log.NewFields().WithError(err).WithOperation(log.OpCreate).ToSlice()...)
			InternalServerError("Error saving expense").Write(w)
			return
		}
		// The form keeps what the user typed.
		s.renderForm(w, r, http.StatusUnprocessableEntity, criteria, formState{Input: in, Error: validationMessage(err)})
		return
	}
	atomic.AddInt64(&s.metrics.expensesAdded, 1)

	if !isHTMX(r) {
		http.Redirect(w, r, "/"+dashboardQuery(criteria), http.StatusSeeOther)
		return
	}

	body, err := s.renderString(r, criteria, s.defaultForm(), "add_form")
	if err != nil {
		InternalServerError("Error rendering page").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerExpenseCreated(exp.ID).
		TriggerFormReset().
		TriggerDashboardRefresh().
		TriggerSuccessNotification(fmt.Sprintf("Added %s (%s)", exp.Description, exp.Amount.Format(s.currency))).
		BodyHTML(body).
		Write(w)
}

// renderForm answers a rejected submission: the form alone for HTMX, the
// whole page otherwise.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, c filter.Criteria, form formState) {
	name := "index.html"
	if isHTMX(r) {
		name = "add_form"
	}
	v, err := s.service.View(r.Context(), c)
	if err != nil {
		InternalServerError("Error loading expenses").Write(w)
		return
	}
	s.render(w, r, status, name, s.pageData(v, form))
}

func (s *Server) renderString(r *http.Request, c filter.Criteria, form formState, name string) (string, error) {
	v, err := s.service.View(r.Context(), c)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, s.pageData(v, form)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
		return "", err
	}
	return buf.String(), nil
}

// handleDeleteExpense removes an expense. Deleting an unknown id succeeds.
// DELETE answers 204; a POST from a plain form is redirected back.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	parser := NewRequestBodyParser(r)
	_ = parser.Parse()
	criteria := selection(parser)

	removed, err := s.service.DeleteExpense(r.Context(), id)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete expense",
			log.FieldExpenseID, id, log.FieldError, err, log.FieldOperation, log.OpDelete)
		InternalServerError("Error deleting expense").Write(w)
		return
	}
	if removed {
		atomic.AddInt64(&s.metrics.expensesDeleted, 1)
	}

	if r.Method == http.MethodPost && !isHTMX(r) {
		http.Redirect(w, r, "/"+dashboardQuery(criteria), http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerExpenseDeleted(id).
		TriggerDashboardRefresh().
		Write(w)
}
