// importcsv bulk-loads a CSV file of transactions into the collection. The
// header row names the fields; date, merchant and amount are required,
// category and source optional. The import is all-or-nothing: any invalid
// row aborts the whole file with every problem listed.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandymist/pfinance/internal/config"
	"github.com/sandymist/pfinance/internal/domain"
	"github.com/sandymist/pfinance/internal/infra/mongostore"
	"github.com/sandymist/pfinance/internal/logger"
)

func main() {
	var (
		envFile = flag.String("env", "app.env", "path to the environment file (optional)")
		file    = flag.String("file", "", "path to the CSV file (required)")
		source  = flag.String("source", "csv", "source tag stored on each record")
	)
	flag.Parse()

	log := logger.New("")

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}

	_ = godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	recs, err := readRecords(*file, *source)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read CSV")
	}
	if len(recs) == 0 {
		log.Fatal().Str("file", *file).Msg("CSV contains no data rows")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	store := mongostore.New(client, cfg.MongoDatabase, cfg.MongoCollection)

	inserted, err := store.InsertMany(ctx, recs)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			for _, msg := range verrs.Messages() {
				log.Error().Msg(msg)
			}
			log.Fatal().Int("errors", len(verrs)).Msg("Validation failed, nothing inserted")
		}
		log.Fatal().Err(err).Msg("Failed to insert records")
	}

	log.Info().Int("count", len(inserted)).Str("file", *file).Msg("Imported transactions")
}

// readRecords maps CSV rows to bulk records using the header row, the way a
// DictReader would.
func readRecords(path, source string) ([]mongostore.BulkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var recs []mongostore.BulkRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := mongostore.BulkRecord{
			Date:     field(row, cols, "date"),
			Merchant: field(row, cols, "merchant"),
			Category: field(row, cols, "category"),
			Source:   source,
		}
		if amount := field(row, cols, "amount"); amount != "" {
			n := json.Number(amount)
			rec.Amount = &n
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
