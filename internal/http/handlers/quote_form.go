package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/jaideeclear-quotes/internal/observability/metrics"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/internal/session"
	"github.com/wolfman30/jaideeclear-quotes/internal/site"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// bangkok is the business time zone; used for the date picker's lower bound.
var bangkok = time.FixedZone("ICT", 7*60*60)

// QuoteFormConfig wires the server-rendered quote form.
type QuoteFormConfig struct {
	Sessions     session.Store
	Content      *site.Content
	Metrics      *metrics.QuoteMetrics
	Logger       *logging.Logger
	CookieSecure bool
	SessionTTL   time.Duration
}

// QuoteFormHandler renders the quote request page for one visitor session.
type QuoteFormHandler struct {
	sessions     session.Store
	content      *site.Content
	metrics      *metrics.QuoteMetrics
	logger       *logging.Logger
	cookieSecure bool
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewQuoteFormHandler(cfg QuoteFormConfig) (*QuoteFormHandler, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("handlers: session store is required")
	}
	if cfg.Content == nil {
		content, err := site.Default()
		if err != nil {
			return nil, err
		}
		cfg.Content = content
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &QuoteFormHandler{
		sessions:     cfg.Sessions,
		content:      cfg.Content,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		cookieSecure: cfg.CookieSecure,
		sessionTTL:   cfg.SessionTTL,
		now:          time.Now,
	}, nil
}

type fieldView struct {
	Name        quotes.Field
	Label       string
	Type        string
	Value       string
	Placeholder string
	Min         string
	Error       string
}

type contactView struct {
	Label string
	Value string
	Href  template.URL
}

type pageData struct {
	Site         *site.Content
	State        quotes.State
	Confirmation bool
	Fields       []fieldView
	Contact      []contactView
}

func (h *QuoteFormHandler) pageData(st quotes.State) pageData {
	today := h.now().In(bangkok).Format("2006-01-02")
	fields := make([]fieldView, 0, len(quotes.AllFields))
	for _, f := range quotes.AllFields {
		v := fieldView{
			Name:        f,
			Label:       h.content.Label(f),
			Type:        "text",
			Value:       st.Fields.Get(f),
			Placeholder: h.content.Placeholder(f),
			Error:       st.Errors[f],
		}
		switch f {
		case quotes.FieldPhone:
			v.Type = "tel"
		case quotes.FieldMeasurementDate:
			v.Type = "date"
			v.Min = today
		}
		fields = append(fields, v)
	}
	contact := make([]contactView, 0, len(h.content.Contact))
	for _, c := range h.content.Contact {
		// hrefs come from operator-controlled site content (tel:, mailto:, https:)
		contact = append(contact, contactView{Label: c.Label, Value: c.Value, Href: template.URL(c.Href)})
	}
	return pageData{
		Site:         h.content,
		State:        st,
		Confirmation: st.Step == quotes.StepConfirmation,
		Fields:       fields,
		Contact:      contact,
	}
}

// controller returns the visitor's controller, issuing a session cookie when needed.
func (h *QuoteFormHandler) controller(w http.ResponseWriter, r *http.Request) (*quotes.Controller, error) {
	id := ""
	if c, err := r.Cookie(session.CookieName); err == nil && session.ValidID(c.Value) {
		id = c.Value
	}
	if id == "" {
		id = session.NewID()
	}
	cookie := &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.sessionTTL > 0 {
		cookie.MaxAge = int(h.sessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return h.sessions.Load(r.Context(), id)
}

func (h *QuoteFormHandler) render(w http.ResponseWriter, status int, st quotes.State) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "layout", h.pageData(st)); err != nil {
		h.logger.Error("failed to render quote page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *QuoteFormHandler) sessionError(w http.ResponseWriter, err error) {
	h.logger.Error("failed to load quote session", "error", err)
	http.Error(w, "session unavailable", http.StatusServiceUnavailable)
}

// Show handles GET /. The view is chosen purely from the step.
func (h *QuoteFormHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controller(w, r)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	h.render(w, http.StatusOK, ctrl.Snapshot())
}

// Submit handles POST /quote.
func (h *QuoteFormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controller(w, r)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	for _, f := range quotes.AllFields {
		if err := ctrl.ChangeField(f, r.PostForm.Get(string(f))); err != nil {
			h.submitConflict(w, r, ctrl, err)
			return
		}
	}

	outcome, err := ctrl.Submit(r.Context())
	if err != nil {
		h.submitConflict(w, r, ctrl, err)
		return
	}
	st := ctrl.Snapshot()
	h.metrics.ObserveSubmission(string(outcome), "web")

	switch outcome {
	case quotes.OutcomeAccepted:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case quotes.OutcomeRejected:
		for f := range st.Errors {
			h.metrics.ObserveValidationError(string(f))
		}
		h.render(w, http.StatusUnprocessableEntity, st)
	default:
		h.render(w, http.StatusBadGateway, st)
	}
}

func (h *QuoteFormHandler) submitConflict(w http.ResponseWriter, r *http.Request, ctrl *quotes.Controller, err error) {
	switch {
	case errors.Is(err, quotes.ErrNotInFormStep):
		// already confirmed; a repeated post lands on the confirmation view
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, quotes.ErrSubmitInFlight):
		// the delivery may belong to another request for this session
		st := ctrl.Snapshot()
		st.Submitting = true
		h.render(w, http.StatusConflict, st)
	default:
		h.logger.Error("quote submit failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type fieldChangeRequest struct {
	Value string `json:"value"`
}

type fieldChangeResponse struct {
	Step   quotes.Step     `json:"step"`
	Errors quotes.ErrorMap `json:"errors"`
}

// ChangeField handles POST /quote/fields/{field} with a JSON body {"value": "..."}.
func (h *QuoteFormHandler) ChangeField(w http.ResponseWriter, r *http.Request) {
	field, err := quotes.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req fieldChangeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	ctrl, err := h.controller(w, r)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	if err := ctrl.ChangeField(field, req.Value); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	st := ctrl.Snapshot()
	if st.Errors == nil {
		st.Errors = quotes.ErrorMap{}
	}
	writeJSON(w, http.StatusOK, fieldChangeResponse{Step: st.Step, Errors: st.Errors})
}

// Reset handles POST /quote/reset.
func (h *QuoteFormHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controller(w, r)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	ctrl.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
