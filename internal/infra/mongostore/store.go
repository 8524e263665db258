// Package mongostore is the record-store gateway: it translates between the
// wire representation of a transaction and the persisted document, and issues
// create and range queries against MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandymist/pfinance/internal/domain"
)

// Store persists transactions in a single MongoDB collection.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// New creates a Store over the given client, database and collection.
func New(client *mongo.Client, database, collection string) *Store {
	return &Store{
		coll: client.Database(database).Collection(collection),
		now:  time.Now,
	}
}

// Insert persists one record. Records are immutable after this point.
func (s *Store) Insert(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if errs := validateNew(t); len(errs) > 0 {
		return nil, errs
	}

	doc := newDoc(t)
	if doc.CreatedAt == nil {
		created := s.now()
		doc.CreatedAt = &created
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "mongostore: insert", Err: err}
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, &domain.UpstreamError{Op: "mongostore: insert", Err: fmt.Errorf("unexpected id type %T", res.InsertedID)}
	}
	doc.ID = id
	return doc.toDomain(), nil
}

// InsertMany validates every record and inserts all of them or none. All
// validation failures are reported together with 1-based record positions.
func (s *Store) InsertMany(ctx context.Context, recs []BulkRecord) ([]*domain.Transaction, error) {
	txs, errs := buildBulk(recs, s.now())
	if len(errs) > 0 {
		return nil, errs
	}
	if len(txs) == 0 {
		return nil, nil
	}

	docs := make([]interface{}, len(txs))
	for i, t := range txs {
		docs[i] = newDoc(t)
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "mongostore: insert many", Err: err}
	}

	for i, raw := range res.InsertedIDs {
		if id, ok := raw.(primitive.ObjectID); ok && i < len(txs) {
			txs[i].ID = id.Hex()
		}
	}
	return txs, nil
}

// FindRange returns records dated within [start 00:00:00, end 23:59:59],
// capped at limit. No sort stage is added; ordering is store-defined.
func (s *Store) FindRange(ctx context.Context, start, end time.Time, limit int64) ([]*domain.Transaction, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.coll.Find(ctx, rangeFilter(start, end), opts)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "mongostore: find range", Err: err}
	}
	return s.drain(ctx, cur)
}

// FindAll returns every record in the collection.
func (s *Store) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "mongostore: find all", Err: err}
	}
	return s.drain(ctx, cur)
}

func (s *Store) drain(ctx context.Context, cur *mongo.Cursor) ([]*domain.Transaction, error) {
	defer cur.Close(ctx)

	var out []*domain.Transaction
	for cur.Next(ctx) {
		var doc transactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, &domain.UpstreamError{Op: "mongostore: decode", Err: err}
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, &domain.UpstreamError{Op: "mongostore: cursor", Err: err}
	}
	return out, nil
}
