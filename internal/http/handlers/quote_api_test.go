package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wolfman30/jaideeclear-quotes/internal/observability/metrics"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

func newAPIHandler(sink quotes.Sink, m *metrics.QuoteMetrics) *QuoteAPIHandler {
	return NewQuoteAPIHandler(func() *quotes.Controller {
		return quotes.NewController(sink, quotes.WithSource("api"))
	}, m, nil)
}

func postQuote(h *QuoteAPIHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

const validQuoteJSON = `{"name":"Somchai","phone":"+66 92-006-8100","location":"Silom","measurementDate":"2025-12-01"}`

func TestQuoteAPI_Created(t *testing.T) {
	var got quotes.Submission
	h := newAPIHandler(quotes.SinkFunc(func(_ context.Context, sub quotes.Submission) error {
		got = sub
		return nil
	}), nil)

	rec := postQuote(h, validQuoteJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp createQuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" || resp.ID != got.ID {
		t.Errorf("expected id %q, got %q", got.ID, resp.ID)
	}
	if resp.Step != quotes.StepConfirmation {
		t.Errorf("expected confirmation step, got %q", resp.Step)
	}
	if got.Source != "api" {
		t.Errorf("expected api source, got %q", got.Source)
	}
}

func TestQuoteAPI_ValidationErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewQuoteMetrics(reg)
	h := newAPIHandler(okSink(), m)

	rec := postQuote(h, `{"name":"","phone":"phone?","location":"Silom","measurementDate":""}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp quoteErrorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := quotes.ErrorMap{
		quotes.FieldName:            quotes.MsgNameRequired,
		quotes.FieldPhone:           quotes.MsgPhoneInvalid,
		quotes.FieldMeasurementDate: quotes.MsgDateRequired,
	}
	if len(resp.Errors) != len(want) {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	for k, v := range want {
		if resp.Errors[k] != v {
			t.Errorf("field %s: expected %q, got %q", k, v, resp.Errors[k])
		}
	}
	if n, err := testutil.GatherAndCount(reg, "jaideeclear_quotes_validation_errors_total"); err != nil || n != 3 {
		t.Errorf("expected 3 validation series, got %d (%v)", n, err)
	}
}

func TestQuoteAPI_SinkFailure(t *testing.T) {
	h := newAPIHandler(quotes.SinkFunc(func(context.Context, quotes.Submission) error {
		return errors.New("queue unavailable")
	}), nil)

	rec := postQuote(h, validQuoteJSON)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please try again") {
		t.Errorf("expected failure notice, got %s", rec.Body.String())
	}
}

func TestQuoteAPI_BadJSON(t *testing.T) {
	h := newAPIHandler(okSink(), nil)
	if rec := postQuote(h, `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
