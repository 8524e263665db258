// importxml flattens the child elements of each record node in an XML file
// into documents and inserts them into a collection. Unlike importcsv it
// bypasses the transaction gateway: the documents are schema-free, matching
// whatever the XML carries.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandymist/pfinance/internal/config"
	"github.com/sandymist/pfinance/internal/logger"
)

type element struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []element `xml:",any"`
}

func main() {
	var (
		envFile    = flag.String("env", "app.env", "path to the environment file (optional)")
		file       = flag.String("file", "", "path to the XML file (required)")
		record     = flag.String("record", "record", "name of the per-record element")
		collection = flag.String("collection", "xmlfiles", "target collection")
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

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read XML file")
	}

	var root element
	if err := xml.Unmarshal(raw, &root); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to parse XML")
	}

	docs := collectRecords(root, *record)
	if len(docs) == 0 {
		log.Fatal().Str("record", *record).Msg("No records found in XML")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(cfg.MongoDatabase).Collection(*collection)
	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to insert documents")
	}

	log.Info().Int("count", len(res.InsertedIDs)).Str("collection", *collection).Msg("Imported XML records")
}

// collectRecords walks the tree and flattens every element named record into
// a child-tag → text document.
func collectRecords(node element, record string) []interface{} {
	var docs []interface{}
	if node.XMLName.Local == record && len(node.Children) > 0 {
		doc := bson.M{}
		for _, child := range node.Children {
			doc[child.XMLName.Local] = strings.TrimSpace(child.Text)
		}
		docs = append(docs, doc)
	}
	for _, child := range node.Children {
		docs = append(docs, collectRecords(child, record)...)
	}
	return docs
}
