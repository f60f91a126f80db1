package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/jaideeclear-quotes/internal/observability/metrics"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

const maxQuoteBody = 64 << 10

// QuoteAPIHandler accepts quote requests as JSON for non-browser clients.
// Each request drives its own controller from an empty form.
type QuoteAPIHandler struct {
	newController func() *quotes.Controller
	metrics       *metrics.QuoteMetrics
	logger        *logging.Logger
}

func NewQuoteAPIHandler(newController func() *quotes.Controller, m *metrics.QuoteMetrics, logger *logging.Logger) *QuoteAPIHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &QuoteAPIHandler{newController: newController, metrics: m, logger: logger}
}

type createQuoteResponse struct {
	ID   string      `json:"id"`
	Step quotes.Step `json:"step"`
}

type quoteErrorsResponse struct {
	Errors quotes.ErrorMap `json:"errors"`
}

// Create handles POST /api/quotes.
func (h *QuoteAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields quotes.Fields
	dec := json.NewDecoder(io.LimitReader(r.Body, maxQuoteBody))
	if err := dec.Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	ctrl := h.newController()
	for _, f := range quotes.AllFields {
		if err := ctrl.ChangeField(f, fields.Get(f)); err != nil {
			h.logger.Error("quote api: change field failed", "error", err, "field", f)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
	}

	outcome, err := ctrl.Submit(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, quotes.ErrSubmitInFlight) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	h.metrics.ObserveSubmission(string(outcome), "api")

	st := ctrl.Snapshot()
	switch outcome {
	case quotes.OutcomeAccepted:
		writeJSON(w, http.StatusCreated, createQuoteResponse{ID: st.SubmissionID, Step: st.Step})
	case quotes.OutcomeRejected:
		for f := range st.Errors {
			h.metrics.ObserveValidationError(string(f))
		}
		writeJSON(w, http.StatusUnprocessableEntity, quoteErrorsResponse{Errors: st.Errors})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": st.Notice})
	}
}
