package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	Port string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	GeminiModel string

	CORSOrigins  []string
	AuthAudience string

	LogLevel string
}

// defaultCORSOrigins are the frontend origins served in development and
// production.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://pf-reactjs.onrender.com",
}

// Load reads configuration from the environment. Every value has a usable
// default except Mongo credentials, which must come as a pair.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PF_SERVER_PORT", "5000"),
		MongoDatabase:   getenv("MONGO_DB_NAME", "bank"),
		MongoCollection: getenv("MONGO_COLLECTION", "transactions"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		AuthAudience:    os.Getenv("AUTH_AUDIENCE"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}

	uri, err := mongoURI(cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	cfg.MongoURI = uri

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = defaultCORSOrigins
	}

	return cfg, nil
}

// mongoURI prefers a full MONGO_URI and otherwise assembles one from the
// discrete host/port/credential variables.
func mongoURI(authSource string) (string, error) {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri, nil
	}

	host := getenv("MONGO_HOST", "localhost")
	port := getenv("MONGO_PORT", "27017")
	user := os.Getenv("MONGO_DB_USERNAME")
	pass := os.Getenv("MONGO_DB_PASSWORD")

	if user == "" && pass == "" {
		return fmt.Sprintf("mongodb://%s:%s/", host, port), nil
	}
	if user == "" || pass == "" {
		return "", fmt.Errorf("MONGO_DB_USERNAME and MONGO_DB_PASSWORD must be set together")
	}

	return fmt.Sprintf("mongodb://%s:%s@%s:%s/?authSource=%s",
		url.QueryEscape(user), url.QueryEscape(pass), host, port, url.QueryEscape(authSource)), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
