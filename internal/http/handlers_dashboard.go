package http

import (
	"bytes"
	"errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"sync/atomic"

	"spendboard/internal/core"
	"spendboard/internal/filter"
	"spendboard/internal/log"
	"spendboard/internal/services"
)

// recentLimit is how many transactions the page lists.
const recentLimit = 10

// maxUploadBytes bounds multipart uploads. Only the file name is used.
const maxUploadBytes = 10 << 20

type summaryCard struct {
	Title  string
	Value  string
	Mode   filter.TimeMode
	Active bool
}

type formState struct {
	Input core.ExpenseInput
	Error string
}

type pageData struct {
	View         services.View
	Query        string
	Cards        []summaryCard
	CategoryBars []Bar
	TrendBars    []Bar
	TopBars      []Bar
	RankingBars  []Bar
	Recent       []core.Expense
	Categories   []core.Category
	Form         formState
}

// defaultForm is the add form as first shown: Food, the first account,
// today's date.
func (s *Server) defaultForm() formState {
	in := core.ExpenseInput{
		Category: string(core.Food),
		Date:     core.DateOf(s.now()).String(),
	}
	if accts := s.service.Accounts(); len(accts) > 0 {
		in.BankAccountID = accts[0].ID
	}
	return formState{Input: in}
}

func (s *Server) pageData(v services.View, form formState) pageData {
	sum := v.Summary
	cards := []summaryCard{
		{Title: "Total Expenses", Value: sum.Total.Format(s.currency), Mode: filter.All},
		{Title: "This Month", Value: sum.MonthlyTotal.Format(s.currency), Mode: filter.Month},
		{Title: "Average Expense", Value: core.FormatDecimal(sum.Average, s.currency), Mode: filter.Average},
		{Title: "Top Category", Value: sum.TopCategory, Mode: filter.Category},
	}
	for i := range cards {
		cards[i].Active = cards[i].Mode == v.Criteria.Mode
	}

	recent := v.Expenses
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return pageData{
		View:         v,
		Query:        dashboardQuery(v.Criteria),
		Cards:        cards,
		CategoryBars: categoryBars(v.Series.CategoryTotals),
		TrendBars:    trendBars(v.Series.DailyTrend),
		TopBars:      expenseBars(v.Series.Top),
		RankingBars:  categoryBars(v.Series.CategoryRanking),
		Recent:       recent,
		Categories:   core.Categories(),
		Form:         form,
	}
}

// render executes a named template into a buffer so a failure never
// leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name, log.FieldOperation, log.OpRender)
		InternalServerError("Error rendering page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, "index.html")
}

// handleDashboardPartial re-renders everything but the page chrome; the
// page requests it on dashboard:refresh.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, "dashboard")
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, name string) {
	v, err := s.service.View(r.Context(), criteriaFromValues(r.URL.Query()))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard view failed", log.FieldError, err)
		InternalServerError("Error loading expenses").Write(w)
		return
	}
	s.render(w, r, http.StatusOK, name, s.pageData(v, s.defaultForm()))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	v, err := s.service.View(r.Context(), criteriaFromValues(r.URL.Query()))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard view failed", log.FieldError, err)
		http.Error(w, "error loading expenses", http.StatusInternalServerError)
		return
	}
	md, err := s.report.DashboardString(v)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Report rendering failed",
			log.FieldError, err, log.FieldOperation, log.OpRender)
		http.Error(w, "error rendering report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="spendboard.md"`)
	_, _ = w.Write([]byte(md))
}

// handleUpload acknowledges a spreadsheet or receipt by file name. The
// bytes are discarded unread.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind := services.UploadKind(r.PathValue("kind"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		BadRequestError("Invalid upload").TriggerErrorNotification("Invalid upload").Write(w)
		return
	}
	defer r.MultipartForm.RemoveAll()

	msg, err := s.service.AcknowledgeUpload(r.Context(), kind, uploadedName(r.MultipartForm))
	switch {
	case errors.Is(err, services.ErrUnknownUpload):
		http.NotFound(w, r)
		return
	case errors.Is(err, services.ErrNoFile):
		ErrorResponse(http.StatusUnprocessableEntity, "Please choose a file").
			TriggerErrorNotification("Please choose a file").
			Write(w)
		return
	case err != nil:
		InternalServerError("Upload failed").Write(w)
		return
	}
	atomic.AddInt64(&s.metrics.uploads, 1)

	if !isHTMX(r) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification(msg).
		BodyHTML(`<div class="notice">` + template.HTMLEscapeString(msg) + `</div>`).
		Write(w)
}

// uploadedName is the client's name for the "file" part, read from the
// headers without opening the part.
func uploadedName(form *multipart.Form) string {
	if form == nil {
		return ""
	}
	if files := form.File["file"]; len(files) > 0 {
		return files[0].Filename
	}
	return ""
}
