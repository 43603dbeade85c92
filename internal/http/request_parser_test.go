package http

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"spendboard/internal/filter"
)

func newBodyRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantJSON    bool
		want        map[string]string
	}{
		{
			name:        "form",
			body:        "description=Coffee&amount=3%2C50&category=Food",
			contentType: "application/x-www-form-urlencoded",
			want:        map[string]string{"description": "Coffee", "amount": "3,50", "category": "Food"},
		},
		{
			name:        "json with numeric amount",
			body:        `{"description":"Coffee","amount":3.5,"category":"Food"}`,
			contentType: "application/json",
			wantJSON:    true,
			want:        map[string]string{"description": "Coffee", "amount": "3.5", "category": "Food"},
		},
		{
			name:     "json sniffed without content type",
			body:     `{"description":"  Tea  ","amount":"2"}`,
			wantJSON: true,
			want:     map[string]string{"description": "Tea", "amount": "2", "category": ""},
		},
		{
			name: "control characters removed",
			body: "description=Bus%00ticket",
			want: map[string]string{"description": "Busticket"},
		},
		{
			name: "empty body",
			body: "",
			want: map[string]string{"description": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewRequestBodyParser(newBodyRequest(tt.body, tt.contentType))
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
			for key, want := range tt.want {
				if got := p.Get(key); got != want {
					t.Errorf("Get(%q) = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	p := NewRequestBodyParser(newBodyRequest(`{"description":`, "application/json"))
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}

	big := "description=" + strings.Repeat("x", maxBodyBytes)
	p = NewRequestBodyParser(newBodyRequest(big, "application/x-www-form-urlencoded"))
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error for an oversized body")
	}
}

func TestExpenseInputDefaultsDate(t *testing.T) {
	now := time.Date(2025, 11, 30, 23, 0, 0, 0, time.UTC)

	p := NewRequestBodyParser(newBodyRequest("description=Lunch&amount=9&category=Food&bankAccountId=amex", ""))
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	in := p.ExpenseInput(now)
	if in.Date != "2025-11-30" || in.BankAccountID != "amex" || in.Amount != "9" {
		t.Fatalf("input = %+v", in)
	}

	p = NewRequestBodyParser(newBodyRequest("description=Lunch&date=2025-01-02", ""))
	_ = p.Parse()
	if got := p.ExpenseInput(now).Date; got != "2025-01-02" {
		t.Fatalf("explicit date replaced: %q", got)
	}
}

func TestCriteriaFromValues(t *testing.T) {
	tests := []struct {
		query string
		want  filter.Criteria
	}{
		{"", filter.Criteria{Mode: filter.All}},
		{"account=all&mode=month", filter.Criteria{Mode: filter.Month}},
		{"account=chase&mode=average", filter.Criteria{AccountID: "chase", Mode: filter.Average}},
		{"mode=weekly", filter.Criteria{Mode: filter.All}},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := criteriaFromValues(q); got != tt.want {
			t.Errorf("criteriaFromValues(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestDashboardQuery(t *testing.T) {
	if got := dashboardQuery(filter.Criteria{Mode: filter.All}); got != "" {
		t.Errorf("default selection = %q", got)
	}
	if got := dashboardQuery(filter.Criteria{AccountID: "citi", Mode: filter.Category}); got != "?account=citi&mode=category" {
		t.Errorf("query = %q", got)
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		part, peak int64
		want       int
	}{
		{0, 100, 0},
		{50, 0, 0},
		{100, 100, 100},
		{333, 1000, 33},
		{1, 1000, minBarWidth},
	}
	for _, tt := range tests {
		if got := barWidth(tt.part, tt.peak); got != tt.want {
			t.Errorf("barWidth(%d, %d) = %d, want %d", tt.part, tt.peak, got, tt.want)
		}
	}
}

func TestUploadedName(t *testing.T) {
	tests := []struct {
		name string
		form *multipart.Form
		want string
	}{
		{"no form", nil, ""},
		{"no file part", &multipart.Form{Value: map[string][]string{"note": {"x"}}}, ""},
		{"first file wins", &multipart.Form{File: map[string][]*multipart.FileHeader{
			"file": {{Filename: "november.xlsx"}, {Filename: "december.xlsx"}},
		}}, "november.xlsx"},
		{"other field ignored", &multipart.Form{File: map[string][]*multipart.FileHeader{
			"attachment": {{Filename: "receipt.jpg"}},
		}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uploadedName(tt.form); got != tt.want {
				t.Errorf("uploadedName() = %q, want %q", got, tt.want)
			}
		})
	}
}
