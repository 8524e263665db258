// seed fills the transactions collection with mock data spread over the
// trailing 180 days, for local development and demos.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandymist/pfinance/internal/config"
	"github.com/sandymist/pfinance/internal/domain"
	"github.com/sandymist/pfinance/internal/infra/mongostore"
	"github.com/sandymist/pfinance/internal/logger"
)

// merchants holds plausible merchant names per category.
var merchants = map[domain.Category][]string{
	domain.CategoryMeals:          {"McDonald's", "Starbucks", "Chipotle"},
	domain.CategoryUtilities:      {"Electric Bill", "Water Bill", "Internet"},
	domain.CategoryEntertainment:  {"Netflix", "Spotify", "Movie Theater"},
	domain.CategoryTransportation: {"Uber", "Gas Station", "Bus Pass"},
	domain.CategoryTechnology:     {"AWS", "GitHub", "Adobe"},
	domain.CategoryOffice:         {"Staples", "Office Depot", "Costco"},
	domain.CategoryTravel:         {"Delta", "Marriott", "Hertz"},
}

func main() {
	var (
		envFile = flag.String("env", "app.env", "path to the environment file (optional)")
		count   = flag.Int("n", 50, "number of mock transactions to insert")
	)
	flag.Parse()

	_ = godotenv.Load(*envFile)

	log := logger.New("")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	store := mongostore.New(client, cfg.MongoDatabase, cfg.MongoCollection)

	batch := "seed:" + uuid.NewString()[:8]
	now := time.Now()

	categories := make([]domain.Category, 0, len(merchants))
	for c := range merchants {
		categories = append(categories, c)
	}

	recs := make([]mongostore.BulkRecord, 0, *count)
	for i := 0; i < *count; i++ {
		category := categories[rand.Intn(len(categories))]
		pool := merchants[category]
		amount := 5.0 + rand.Float64()*145.0
		date := now.AddDate(0, 0, -rand.Intn(180))

		recs = append(recs, mongostore.BulkRecord{
			Date:     date.Format(domain.ISODate),
			Merchant: pool[rand.Intn(len(pool))],
			Amount:   jsonNumber(fmt.Sprintf("%.2f", amount)),
			Category: string(category),
			Source:   batch,
		})
	}

	inserted, err := store.InsertMany(ctx, recs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to insert mock transactions")
	}

	log.Info().Int("count", len(inserted)).Str("batch", batch).Msg("Inserted mock transactions")
}

func jsonNumber(s string) *json.Number {
	n := json.Number(s)
	return &n
}
