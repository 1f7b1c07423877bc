package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartspend/internal/core"
)

// fakeModel serves the generateContent shape with a canned candidate text.
func fakeModel(t *testing.T, candidate string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("missing api key header")
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.ResponseMIMEType != "application/json" {
			t.Error("request missing JSON response mime type")
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": candidate}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestParseExpenseSuccess(t *testing.T) {
	srv := fakeModel(t, `{"amount": 450, "description": "lunch", "category": "Food & Dining"}`, http.StatusOK)
	defer srv.Close()

	draft, err := testClient(srv).ParseExpense(context.Background(), "Spent ₹450 on lunch today")
	if err != nil {
		t.Fatalf("ParseExpense: %v", err)
	}
	if draft.Amount.Cents != 45000 {
		t.Errorf("amount = %s, want 450", draft.Amount)
	}
	if !strings.Contains(strings.ToLower(draft.Description), "lunch") {
		t.Errorf("description = %q, want it to mention lunch", draft.Description)
	}
	if draft.Category != core.CategoryFood {
		t.Errorf("category = %q, want Food & Dining", draft.Category)
	}
	// Date resolution happens at the caller, never in the gateway.
	if draft.Date != "" {
		t.Errorf("date = %q, want empty when the text names none", draft.Date)
	}
}

func TestParseExpenseUnknownCategoryBecomesOther(t *testing.T) {
	srv := fakeModel(t, `{"amount": 12.5, "description": "mystery", "category": "Groceries"}`, http.StatusOK)
	defer srv.Close()

	draft, err := testClient(srv).ParseExpense(context.Background(), "12.50 on groceries")
	if err != nil {
		t.Fatalf("ParseExpense: %v", err)
	}
	if draft.Category != core.CategoryOther {
		t.Fatalf("category = %q, want Other fallback", draft.Category)
	}
}

func TestParseExpenseRejections(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
	}{
		{"missing amount", `{"description": "lunch", "category": "Food & Dining"}`},
		{"non-positive amount", `{"amount": 0, "description": "lunch", "category": "Food & Dining"}`},
		{"missing description", `{"amount": 10, "category": "Food & Dining"}`},
		{"malformed json", `not json at all`},
		{"malformed date", `{"amount": 10, "description": "x", "category": "Other", "date": "tomorrow"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := fakeModel(t, c.candidate, http.StatusOK)
			defer srv.Close()
			draft, err := testClient(srv).ParseExpense(context.Background(), "whatever")
			if !errors.Is(err, ErrUnparsable) {
				t.Fatalf("err = %v, want ErrUnparsable", err)
			}
			if draft != nil {
				t.Fatalf("draft = %+v, want nil on rejection", draft)
			}
		})
	}
}

func TestParseExpenseTransportFailure(t *testing.T) {
	srv := fakeModel(t, "", http.StatusInternalServerError)
	defer srv.Close()
	if _, err := testClient(srv).ParseExpense(context.Background(), "coffee 3.50"); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("err = %v, want ErrUnparsable on transport failure", err)
	}
}

func TestParseExpenseEmptyInput(t *testing.T) {
	srv := fakeModel(t, `{}`, http.StatusOK)
	defer srv.Close()
	if _, err := testClient(srv).ParseExpense(context.Background(), "   "); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("err = %v, want ErrUnparsable for blank input", err)
	}
}

func TestGenerateInsightsDropsInvalidEntries(t *testing.T) {
	candidate := `[
		{"title": "Dining adds up", "content": "Food spending is a third of your total.", "type": "warning"},
		{"title": "", "content": "no title", "type": "tip"},
		{"title": "Bad type", "content": "whatever", "type": "alert"},
		{"title": "Skip one ride", "content": "Walking twice a week saves money.", "type": "saving"}
	]`
	srv := fakeModel(t, candidate, http.StatusOK)
	defer srv.Close()

	insights, err := testClient(srv).GenerateInsights(context.Background(), []core.Transaction{
		{ID: "1", Amount: core.Money{Cents: 4550}, Category: core.CategoryFood, Description: "Lunch", Date: "2024-05-15"},
	})
	if err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	if len(insights) != 2 {
		t.Fatalf("got %d insights, want 2 after dropping invalid entries", len(insights))
	}
	if insights[0].Type != core.InsightWarning || insights[1].Type != core.InsightSaving {
		t.Fatalf("unexpected entries survived: %+v", insights)
	}
}

func TestGenerateInsightsSummaryLineFormat(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Contents[0].Parts[0].Text
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "[]"}}}},
			},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateInsights(context.Background(), []core.Transaction{
		{ID: "1", Amount: core.Money{Cents: 4550}, Category: core.CategoryFood, Description: "Lunch at Joe's", Date: "2024-05-15"},
	})
	if err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	want := "2024-05-15: 45.50 for Lunch at Joe's (Food & Dining)"
	if !strings.Contains(gotPrompt, want) {
		t.Fatalf("prompt missing summary line %q:\n%s", want, gotPrompt)
	}
}

func TestGenerateInsightsFailures(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		srv := fakeModel(t, "", http.StatusBadGateway)
		defer srv.Close()
		if _, err := testClient(srv).GenerateInsights(context.Background(), nil); err == nil {
			t.Fatal("expected error on transport failure")
		}
	})
	t.Run("malformed payload", func(t *testing.T) {
		srv := fakeModel(t, `{"not": "an array"}`, http.StatusOK)
		defer srv.Close()
		if _, err := testClient(srv).GenerateInsights(context.Background(), nil); err == nil {
			t.Fatal("expected error on non-array payload")
		}
	})
	t.Run("no api key", func(t *testing.T) {
		c := NewClient(Config{})
		if _, err := c.GenerateInsights(context.Background(), nil); err == nil {
			t.Fatal("expected error without api key")
		}
	})
}
