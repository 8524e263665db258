package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sandymist/pfinance/internal/api/middleware"
	"github.com/sandymist/pfinance/internal/domain"
	"github.com/sandymist/pfinance/internal/infra/mongostore"
	"github.com/sandymist/pfinance/internal/insight"
)

// insightsRecordLimit caps how many records a single insights query feeds to
// the completion service.
const insightsRecordLimit = 10

// Categorizer is the classifier contract consumed by the categorize endpoint.
type Categorizer interface {
	Classify(ctx context.Context, merchant string) (*insight.Suggestion, error)
}

// WindowExtractor turns a free-text query into a date range.
type WindowExtractor interface {
	Extract(ctx context.Context, query string) (*insight.TimeWindow, error)
}

// InsightsResolver answers a query over a bounded record set.
type InsightsResolver interface {
	Resolve(ctx context.Context, query string, records []*domain.Transaction) (json.RawMessage, error)
}

// EntriesHandler handles transaction listing and creation.
type EntriesHandler struct {
	store mongostore.TransactionStore
	log   zerolog.Logger
}

// NewEntriesHandler creates a new entries handler.
func NewEntriesHandler(store mongostore.TransactionStore, log zerolog.Logger) *EntriesHandler {
	return &EntriesHandler{store: store, log: log}
}

// List handles GET /api/entries
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.FindAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list entries")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch entries")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, domain.WireAll(entries))
}

// createEntryRequest keeps fields as pointers so that an absent field is
// distinguishable from a zero value.
type createEntryRequest struct {
	Date     *string      `json:"date"`
	Merchant *string      `json:"merchant"`
	Category *string      `json:"category"`
	Amount   *json.Number `json:"amount"`
	Source   string       `json:"source"`
}

// Create handles POST /api/entries
func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := missingFields(map[string]bool{
		"date":     req.Date != nil,
		"merchant": req.Merchant != nil,
		"category": req.Category != nil,
		"amount":   req.Amount != nil,
	}); len(missing) > 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required field: "+strings.Join(missing, ", "))
		return
	}

	date, err := domain.ParseISODate(*req.Date)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date: expected ISO-8601")
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid amount: not a number")
		return
	}

	tx := &domain.Transaction{
		Date:     date,
		Merchant: *req.Merchant,
		Category: domain.Category(*req.Category),
		Amount:   amount,
		Source:   req.Source,
	}

	created, err := h.store.Insert(r.Context(), tx)
	if err != nil {
		if verrs := asValidationMessages(err); verrs != nil {
			middleware.WriteError(w, http.StatusBadRequest, strings.Join(verrs, "; "))
			return
		}
		h.log.Error().Err(err).Msg("Failed to insert entry")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, created.Wire())
}

// checkRequest mirrors createEntryRequest for the legacy check endpoint.
type checkRequest struct {
	Merchant *string      `json:"merchant"`
	Category *string      `json:"category"`
	Amount   *json.Number `json:"amount"`
}

// Check handles POST /api/check_transaction. It is a validation echo used by
// the frontend before committing an entry.
func (h *EntriesHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := missingFields(map[string]bool{
		"merchant": req.Merchant != nil,
		"category": req.Category != nil,
		"amount":   req.Amount != nil,
	}); len(missing) > 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required field: "+strings.Join(missing, ", "))
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"status":   "ok",
		"category": strings.ToUpper(*req.Category),
	})
}

// CategorizeHandler handles merchant categorization.
type CategorizeHandler struct {
	classifier Categorizer
	log        zerolog.Logger
}

// NewCategorizeHandler creates a new categorize handler.
func NewCategorizeHandler(classifier Categorizer, log zerolog.Logger) *CategorizeHandler {
	return &CategorizeHandler{classifier: classifier, log: log}
}

// Categorize handles POST /api/categorize
func (h *CategorizeHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Merchant string `json:"merchant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	suggestion, err := h.classifier.Classify(r.Context(), req.Merchant)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			middleware.WriteError(w, http.StatusBadRequest, "Merchant is required")
			return
		}
		h.log.Error().Err(err).Str("merchant", req.Merchant).Msg("Failed to categorize transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to categorize transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, suggestion)
}

// InsightsHandler handles the natural-language insights pipeline: query →
// time window → capped range fetch → resolved answer.
type InsightsHandler struct {
	extractor WindowExtractor
	resolver  InsightsResolver
	store     mongostore.TransactionStore
	log       zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(extractor WindowExtractor, resolver InsightsResolver, store mongostore.TransactionStore, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{extractor: extractor, resolver: resolver, store: store, log: log}
}

// Insights handles GET /api/insights?query=...
func (h *InsightsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Query is required")
		return
	}

	ctx := r.Context()

	window, err := h.extractor.Extract(ctx, query)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Failed to extract time window")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to understand the query's time period")
		return
	}

	start, end, err := window.Bounds()
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Extracted window has invalid bounds")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to understand the query's time period")
		return
	}

	records, err := h.store.FindRange(ctx, start, end, insightsRecordLimit)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Failed to fetch records for insights")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	answer, err := h.resolver.Resolve(ctx, query, records)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Failed to resolve insights")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]json.RawMessage{"insights": answer})
}

// ImportHandler handles bulk uploads.
type ImportHandler struct {
	store mongostore.TransactionStore
	log   zerolog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(store mongostore.TransactionStore, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{store: store, log: log}
}

// UploadCSV handles POST /api/uploadcsv with a JSON array of rows. All
// validation failures are reported together; on any failure nothing is
// inserted.
func (h *ImportHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	var recs []mongostore.BulkRecord
	if err := json.NewDecoder(r.Body).Decode(&recs); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body: expected an array of records")
		return
	}
	if len(recs) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No records to insert")
		return
	}

	inserted, err := h.store.InsertMany(r.Context(), recs)
	if err != nil {
		if msgs := asValidationMessages(err); msgs != nil {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": msgs})
			return
		}
		h.log.Error().Err(err).Int("records", len(recs)).Msg("Failed to bulk insert")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to insert records")
		return
	}

	h.log.Info().Int("inserted", len(inserted)).Msg("Bulk upload complete")
	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"inserted": domain.WireAll(inserted),
		"count":    len(inserted),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Home handles GET /
func Home(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "hello"})
}

// missingFields returns the names of absent required fields in a stable
// order.
func missingFields(present map[string]bool) []string {
	order := []string{"date", "merchant", "category", "amount"}
	var missing []string
	for _, f := range order {
		if got, tracked := present[f]; tracked && !got {
			missing = append(missing, f)
		}
	}
	return missing
}

// asValidationMessages unwraps either validation error kind into transport
// messages, or returns nil for non-validation failures.
func asValidationMessages(err error) []string {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Messages()
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return []string{verr.Error()}
	}
	return nil
}
