package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one spending record. Records are immutable once created;
// nothing in the system updates or deletes them.
type Transaction struct {
	ID        string          // store-assigned, opaque; empty until created
	Date      time.Time       // calendar timestamp of the transaction
	Merchant  string          // free text
	Category  Category        // taxonomy label, or Uncategorized
	Amount    decimal.Decimal // currency value
	CreatedAt *time.Time      // optional insertion timestamp
	Source    string          // optional tag: "api", "csv", "seed:<batch>"
}

// WireTransaction is the transport representation of a Transaction: opaque
// string id, ISO-8601 date, plain numeric amount. It is what the HTTP layer
// returns and what the insights resolver sends to the completion service.
type WireTransaction struct {
	ID        string      `json:"_id,omitempty"`
	Date      string      `json:"date"`
	Merchant  string      `json:"merchant"`
	Category  Category    `json:"category"`
	Amount    json.Number `json:"amount"`
	CreatedAt string      `json:"created_at,omitempty"`
	Source    string      `json:"source,omitempty"`
}

// Wire converts t to its transport representation.
func (t *Transaction) Wire() WireTransaction {
	w := WireTransaction{
		ID:       t.ID,
		Date:     t.Date.Format(ISODateTime),
		Merchant: t.Merchant,
		Category: t.Category,
		Amount:   json.Number(t.Amount.String()),
		Source:   t.Source,
	}
	if t.CreatedAt != nil {
		w.CreatedAt = t.CreatedAt.Format(ISODateTime)
	}
	return w
}

// WireAll converts a slice of records, never returning nil so empty result
// sets serialize as [] rather than null.
func WireAll(txs []*Transaction) []WireTransaction {
	out := make([]WireTransaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.Wire())
	}
	return out
}
