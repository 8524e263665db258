package mongostore

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandymist/pfinance/internal/domain"
)

// transactionDoc is the persisted shape of a transaction. Amounts are stored
// as doubles to stay readable by the existing collection's other consumers.
type transactionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Date      time.Time          `bson:"date"`
	Merchant  string             `bson:"merchant"`
	Category  string             `bson:"category"`
	Amount    float64            `bson:"amount"`
	CreatedAt *time.Time         `bson:"created_at,omitempty"`
	Source    string             `bson:"source,omitempty"`
}

func newDoc(t *domain.Transaction) *transactionDoc {
	return &transactionDoc{
		Date:      t.Date,
		Merchant:  t.Merchant,
		Category:  string(t.Category),
		Amount:    t.Amount.InexactFloat64(),
		CreatedAt: t.CreatedAt,
		Source:    t.Source,
	}
}

func (d *transactionDoc) toDomain() *domain.Transaction {
	t := &domain.Transaction{
		Date:      d.Date,
		Merchant:  d.Merchant,
		Category:  domain.Category(d.Category),
		Amount:    decimal.NewFromFloat(d.Amount),
		CreatedAt: d.CreatedAt,
		Source:    d.Source,
	}
	if !d.ID.IsZero() {
		t.ID = d.ID.Hex()
	}
	return t
}

// rangeFilter builds the inclusive date-range query, end extended to
// end-of-day.
func rangeFilter(start, end time.Time) bson.M {
	return bson.M{
		"date": bson.M{
			"$gte": domain.StartOfDay(start),
			"$lte": domain.EndOfDay(end),
		},
	}
}

// validateNew checks the invariants of a single record about to be created.
func validateNew(t *domain.Transaction) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if t.Date.IsZero() {
		errs = append(errs, domain.MissingField("date"))
	}
	if strings.TrimSpace(t.Merchant) == "" {
		errs = append(errs, domain.MissingField("merchant"))
	}
	if t.Category == "" {
		errs = append(errs, domain.MissingField("category"))
	}
	return errs
}

// buildBulk validates and converts raw upload rows, collecting every failure
// rather than stopping at the first. Record positions in errors are 1-based.
func buildBulk(recs []BulkRecord, now time.Time) ([]*domain.Transaction, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	txs := make([]*domain.Transaction, 0, len(recs))

	for i, rec := range recs {
		pos := i + 1
		tx := &domain.Transaction{Source: rec.Source}

		if strings.TrimSpace(rec.Date) == "" {
			errs = append(errs, &domain.ValidationError{Field: "date", Index: pos, Msg: "required field is missing"})
		} else if date, err := domain.ParseFlexibleDate(rec.Date); err != nil {
			errs = append(errs, &domain.ValidationError{Field: "date", Index: pos, Msg: err.Error()})
		} else {
			tx.Date = date
		}

		if strings.TrimSpace(rec.Merchant) == "" {
			errs = append(errs, &domain.ValidationError{Field: "merchant", Index: pos, Msg: "required field is missing"})
		} else {
			tx.Merchant = rec.Merchant
		}

		if rec.Amount == nil {
			errs = append(errs, &domain.ValidationError{Field: "amount", Index: pos, Msg: "required field is missing"})
		} else if amount, err := decimal.NewFromString(rec.Amount.String()); err != nil {
			errs = append(errs, &domain.ValidationError{Field: "amount", Index: pos, Msg: "not a number"})
		} else {
			tx.Amount = amount
		}

		tx.Category = domain.CategoryUncategorized
		if rec.Category != "" {
			tx.Category = domain.Category(rec.Category)
		}

		created := now
		tx.CreatedAt = &created
		txs = append(txs, tx)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return txs, nil
}
