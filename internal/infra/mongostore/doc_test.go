package mongostore

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandymist/pfinance/internal/domain"
)

func num(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func TestBuildBulk_AllValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recs := []BulkRecord{
		{Date: "2025-01-05", Merchant: "Acme", Amount: num("12.50")},
		{Date: "01/15/2025", Merchant: "Globex", Amount: num("99"), Category: "Office"},
		{Date: "2025-01-20 08:30:00", Merchant: "Initech", Amount: num("7.25"), Source: "csv"},
	}

	txs, errs := buildBulk(recs, now)
	require.Empty(t, errs)
	require.Len(t, txs, 3)

	assert.Equal(t, domain.CategoryUncategorized, txs[0].Category)
	assert.Equal(t, domain.Category("Office"), txs[1].Category)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), txs[1].Date)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "csv", txs[2].Source)
	require.NotNil(t, txs[0].CreatedAt)
	assert.Equal(t, now, *txs[0].CreatedAt)
}

func TestBuildBulk_AllOrNothing(t *testing.T) {
	recs := []BulkRecord{
		{Date: "2025-01-05", Merchant: "Acme", Amount: num("1")},
		{Date: "2025-01-06", Amount: num("2")}, // no merchant
		{Date: "2025-01-07", Merchant: "Initech", Amount: num("3")},
	}

	txs, errs := buildBulk(recs, time.Now())
	assert.Nil(t, txs, "validation failure must insert nothing")
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Index)
	assert.Equal(t, "merchant", errs[0].Field)
}

func TestBuildBulk_CollectsEveryFailure(t *testing.T) {
	recs := []BulkRecord{
		{Merchant: "Acme"},                                  // missing date and amount
		{Date: "not a date", Merchant: "Globex", Amount: num("1")}, // bad date
		{Date: "2025-01-05", Merchant: "Initech", Amount: num("abc")}, // bad amount
	}

	txs, errs := buildBulk(recs, time.Now())
	assert.Nil(t, txs)
	require.Len(t, errs, 4)

	fields := make(map[string]int)
	for _, e := range errs {
		fields[e.Field]++
	}
	assert.Equal(t, 2, fields["date"])
	assert.Equal(t, 2, fields["amount"])
}

func TestBuildBulk_ErrorsAreValidationErrors(t *testing.T) {
	_, errs := buildBulk([]BulkRecord{{}}, time.Now())
	require.NotEmpty(t, errs)

	// The handler layer matches on the collection type.
	var verrs domain.ValidationErrors = errs
	var target domain.ValidationErrors
	assert.True(t, errors.As(error(verrs), &target))
}

func TestValidateNew(t *testing.T) {
	tx := &domain.Transaction{
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Merchant: "Acme",
		Category: domain.CategoryOffice,
		Amount:   decimal.NewFromFloat(12.5),
	}
	assert.Empty(t, validateNew(tx))

	missing := &domain.Transaction{}
	errs := validateNew(missing)
	require.Len(t, errs, 3)
}

func TestRangeFilter(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 10, 30, 0, 0, time.UTC)

	filter := rangeFilter(start, end)
	date, ok := filter["date"].(bson.M)
	require.True(t, ok)

	gte := date["$gte"].(time.Time)
	lte := date["$lte"].(time.Time)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), gte)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC), lte)
}

func TestDocRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tx := &domain.Transaction{
		Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Merchant:  "Acme",
		Category:  domain.CategoryOffice,
		Amount:    decimal.NewFromFloat(12.5),
		CreatedAt: &created,
		Source:    "api",
	}

	doc := newDoc(tx)
	doc.ID = primitive.NewObjectID()

	got := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, tx.Merchant, got.Merchant)
	assert.Equal(t, tx.Category, got.Category)
	assert.True(t, got.Amount.Equal(tx.Amount))
	assert.Equal(t, tx.Date, got.Date)
	assert.Equal(t, "api", got.Source)
}
