package mongostore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sandymist/pfinance/internal/domain"
)

// BulkRecord is one unvalidated row of a bulk upload. Fields stay raw
// strings so that validation can report every problem per record instead of
// failing on decode.
type BulkRecord struct {
	Date     string       `json:"date"`
	Merchant string       `json:"merchant"`
	Amount   *json.Number `json:"amount"`
	Category string       `json:"category,omitempty"`
	Source   string       `json:"source,omitempty"`
}

// TransactionStore is the storage contract consumed by the HTTP handlers and
// the import tools. *Store implements it against MongoDB; tests substitute
// fakes.
type TransactionStore interface {
	// Insert persists a single validated record and returns it with the
	// store-assigned identifier.
	Insert(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)

	// InsertMany validates every record, reporting all failures with
	// per-record detail. On any failure nothing is inserted.
	InsertMany(ctx context.Context, recs []BulkRecord) ([]*domain.Transaction, error)

	// FindRange returns records dated within [start 00:00:00, end 23:59:59],
	// capped at limit. Order is store-defined.
	FindRange(ctx context.Context, start, end time.Time, limit int64) ([]*domain.Transaction, error)

	// FindAll returns every record.
	FindAll(ctx context.Context) ([]*domain.Transaction, error)
}
